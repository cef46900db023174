package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"benchtrack/internal/domain"
	"benchtrack/internal/repository"
)

// TimeWindow selects a created-at window for material listings.
type TimeWindow string

const (
	WindowWeek  TimeWindow = "week"  // since Monday of the current week
	WindowMonth TimeWindow = "month" // since the first of the current month
)

// MaterialService manages the reserved material-library account:
// collected article copies categorized through their tags field.
type MaterialService struct {
	accounts repository.Accounts
	articles repository.Articles
	eventBus *EventBus

	now func() time.Time
}

// NewMaterialService creates a new material service
func NewMaterialService(accounts repository.Accounts, articles repository.Articles, eventBus *EventBus) *MaterialService {
	return &MaterialService{
		accounts: accounts,
		articles: articles,
		eventBus: eventBus,
		now:      time.Now,
	}
}

// LibraryID returns the reserved account's id.
func (s *MaterialService) LibraryID(ctx context.Context) (int64, error) {
	return s.accounts.MaterialLibraryID(ctx)
}

// Collect copies an article into the material library under a category.
// The source article is left untouched; the copy carries the category
// in its tags field, merged with the original tags.
func (s *MaterialService) Collect(ctx context.Context, articleID int64, category string) (int64, error) {
	src, err := s.articles.Get(ctx, articleID)
	if err != nil {
		return 0, err
	}
	if src == nil {
		return 0, fmt.Errorf("collect article %d: %w", articleID, domain.ErrNotFound)
	}

	libID, err := s.accounts.MaterialLibraryID(ctx)
	if err != nil {
		return 0, fmt.Errorf("material library: %w", err)
	}

	id, err := s.articles.Add(ctx, domain.NewArticle{
		AccountID:   libID,
		Title:       src.Title,
		URL:         src.URL,
		PublishDate: src.PublishDate,
		CoverImage:  src.CoverImage,
		Summary:     src.Summary,
		Tags:        mergeCategory(src.Tags, category),
		Author:      src.Author,
	})
	if err != nil {
		return 0, err
	}

	s.eventBus.Publish(Event{
		Type:    EventArticleCreated,
		Payload: map[string]any{"article_id": id, "account_id": libID, "category": category},
	})

	return id, nil
}

// mergeCategory prepends the category to a comma-separated tag list
// unless it is already present.
func mergeCategory(tags, category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return tags
	}
	if strings.Contains(tags, category) {
		return tags
	}
	if tags == "" {
		return category
	}
	return category + "," + tags
}

// Articles lists the material library, optionally filtered to one
// category. Categories live in the tags field, so matching is a
// substring check like everywhere else tags are consulted.
func (s *MaterialService) Articles(ctx context.Context, category string) ([]domain.Article, error) {
	libID, err := s.accounts.MaterialLibraryID(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.articles.ListByAccount(ctx, libID, domain.ListOptions{OrderBy: domain.OrderArticlesByCreatedAt})
	if err != nil {
		return nil, err
	}
	if category == "" {
		return all, nil
	}

	var out []domain.Article
	for _, ar := range all {
		if ar.HasTag(category) {
			out = append(out, ar)
		}
	}
	return out, nil
}

// ArticlesSince lists library articles collected within the window.
// Collection time is the copy's created_at, compared as a date string.
func (s *MaterialService) ArticlesSince(ctx context.Context, window TimeWindow) ([]domain.Article, error) {
	libID, err := s.accounts.MaterialLibraryID(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.articles.ListByAccount(ctx, libID, domain.ListOptions{OrderBy: domain.OrderArticlesByCreatedAt})
	if err != nil {
		return nil, err
	}

	cutoff, err := s.windowStart(window)
	if err != nil {
		return nil, err
	}

	var out []domain.Article
	for _, ar := range all {
		if ar.CreatedAt >= cutoff {
			out = append(out, ar)
		}
	}
	return out, nil
}

func (s *MaterialService) windowStart(window TimeWindow) (string, error) {
	now := s.now()
	switch window {
	case WindowWeek:
		// Monday-based week.
		back := (int(now.Weekday()) + 6) % 7
		return now.AddDate(0, 0, -back).Format(domain.DateLayout), nil
	case WindowMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(domain.DateLayout), nil
	default:
		return "", fmt.Errorf("unknown time window %q", window)
	}
}

// CategoryCounts tallies library articles per category. Counts overlap
// when an article carries several category tags.
func (s *MaterialService) CategoryCounts(ctx context.Context, categories []string) (map[string]int, error) {
	libID, err := s.accounts.MaterialLibraryID(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.articles.ListByAccount(ctx, libID, domain.ListOptions{})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(categories))
	for _, c := range categories {
		counts[c] = 0
		for _, ar := range all {
			if ar.HasTag(c) {
				counts[c]++
			}
		}
	}
	return counts, nil
}

// Total returns the number of collected articles.
func (s *MaterialService) Total(ctx context.Context) (int, error) {
	libID, err := s.accounts.MaterialLibraryID(ctx)
	if err != nil {
		return 0, err
	}
	return s.articles.Count(ctx, libID)
}
