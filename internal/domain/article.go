package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical publish-date format.
const DateLayout = "2006-01-02"

// Article is a published piece owned by one account.
type Article struct {
	ID          int64   `json:"id"`
	AccountID   int64   `json:"account_id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	PublishDate *string `json:"publish_date"`
	CoverImage  string  `json:"cover_image"`
	Summary     string  `json:"summary"`
	Tags        string  `json:"tags"`
	Author      string  `json:"author"`
	CreatedAt   string  `json:"created_at"`

	// Populated when joined with the owning account.
	AccountName     string `json:"account_name,omitempty"`
	AccountCategory string `json:"account_category,omitempty"`
}

// TagList splits the comma-separated tags field, dropping empties.
func (a *Article) TagList() []string {
	var tags []string
	for _, t := range strings.Split(a.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// HasTag reports whether tag appears as a substring of the tags field.
// Matching is deliberately loose; material-library categories are free
// text cross-referenced against a separately persisted list.
func (a *Article) HasTag(tag string) bool {
	return tag != "" && strings.Contains(a.Tags, tag)
}

// NewArticle carries the fields for an article insert.
type NewArticle struct {
	AccountID   int64   `json:"account_id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	PublishDate *string `json:"publish_date"`
	CoverImage  string  `json:"cover_image"`
	Summary     string  `json:"summary"`
	Tags        string  `json:"tags"`
	Author      string  `json:"author"`
}

// Validate checks required fields. It does not touch the database, so a
// valid NewArticle can still fail on insert (broken account reference,
// duplicate URL).
func (n *NewArticle) Validate() error {
	if n.AccountID <= 0 {
		return fmt.Errorf("account id: %w", ErrEmptyField)
	}
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("article title: %w", ErrEmptyField)
	}
	if strings.TrimSpace(n.URL) == "" {
		return fmt.Errorf("article url: %w", ErrEmptyField)
	}
	return nil
}

// ArticlePatch is a partial update of an article. Nil fields are left
// unchanged. A set PublishDate pointing at an empty string clears the
// date to NULL.
type ArticlePatch struct {
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	PublishDate *string `json:"publish_date"`
	CoverImage  *string `json:"cover_image"`
	Summary     *string `json:"summary"`
	Tags        *string `json:"tags"`
	Author      *string `json:"author"`
}

// IsZero reports whether no field is set.
func (p ArticlePatch) IsZero() bool {
	return p.Title == nil && p.URL == nil && p.PublishDate == nil &&
		p.CoverImage == nil && p.Summary == nil && p.Tags == nil && p.Author == nil
}

// ArticleOrder selects the ordering of per-account article listings.
// Unknown values fall back to OrderArticlesByPublishDate.
type ArticleOrder string

const (
	OrderArticlesByPublishDate ArticleOrder = "publish_date"
	OrderArticlesByTitle       ArticleOrder = "title"
	OrderArticlesByCreatedAt   ArticleOrder = "created_at"
)

// ListOptions controls pagination and ordering of article listings.
// A zero Limit means unbounded.
type ListOptions struct {
	Limit   int
	Offset  int
	OrderBy ArticleOrder
}

// ArticleFilter describes an article search. Keyword matches title,
// summary, or tags case-insensitively; DateFrom/DateTo bound the publish
// date inclusively; Tags is a substring filter on the tags field.
type ArticleFilter struct {
	Keyword   string
	AccountID int64
	DateFrom  string
	DateTo    string
	Tags      string
}

// dateLayouts are the accepted publish-date spellings, normalized to
// DateLayout before storage so that date comparisons stay lexicographic.
var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"2006.01.02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// NormalizeDate canonicalizes a publish-date string to "YYYY-MM-DD".
// Empty input normalizes to nil (no date).
func NormalizeDate(s string) (*string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := t.Format(DateLayout)
			return &d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
