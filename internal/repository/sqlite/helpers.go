package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"benchtrack/internal/domain"

	"github.com/mattn/go-sqlite3"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nullToStringPtr converts sql.NullString to *string, nil when NULL
func nullToStringPtr(ns sql.NullString) *string {
	if ns.Valid && ns.String != "" {
		s := ns.String
		return &s
	}
	return nil
}

// stringPtrToNull converts *string to sql.NullString
func stringPtrToNull(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// timeToString renders a stored timestamp back to its on-disk spelling
func timeToString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.TimestampLayout)
}

// nullTimeToDatePtr converts a nullable DATE column to *string
func nullTimeToDatePtr(nt sql.NullTime) *string {
	if !nt.Valid {
		return nil
	}
	d := nt.Time.Format(domain.DateLayout)
	return &d
}

// ============================================================================
// Constraint Classification
// ============================================================================

// constraintError maps driver constraint violations onto the domain
// sentinels so callers never inspect sqlite3 error codes themselves.
// Unique violations become ErrDuplicate; a broken foreign key means the
// owning account is gone, hence ErrNotFound.
func constraintError(err error) error {
	var se sqlite3.Error
	if !errors.As(err, &se) || se.Code != sqlite3.ErrConstraint {
		return err
	}
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
	case sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	default:
		return err
	}
}

// ============================================================================
// Row Scanners
// ============================================================================
//
// Column order must match between the SELECT constants in accounts.go /
// articles.go and the Scan calls below.

// accountRow holds the columns of the augmented account projection
type accountRow struct {
	ID           int64
	Name         string
	Category     sql.NullString
	Description  sql.NullString
	AvatarURL    sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ArticleCount int
	LatestDate   sql.NullString
}

func (r *accountRow) scanArgs() []any {
	return []any{
		&r.ID, &r.Name, &r.Category, &r.Description, &r.AvatarURL,
		&r.CreatedAt, &r.UpdatedAt, &r.ArticleCount, &r.LatestDate,
	}
}

func (r *accountRow) toDomain() domain.Account {
	return domain.Account{
		ID:           r.ID,
		Name:         r.Name,
		Category:     nullToString(r.Category),
		Description:  nullToString(r.Description),
		AvatarURL:    nullToString(r.AvatarURL),
		CreatedAt:    timeToString(r.CreatedAt),
		UpdatedAt:    timeToString(r.UpdatedAt),
		ArticleCount: r.ArticleCount,
		LatestDate:   nullToStringPtr(r.LatestDate),
	}
}

// articleRow holds the columns of the joined article projection
type articleRow struct {
	ID              int64
	AccountID       int64
	Title           string
	URL             string
	PublishDate     sql.NullTime
	CoverImage      sql.NullString
	Summary         sql.NullString
	Tags            sql.NullString
	Author          sql.NullString
	CreatedAt       time.Time
	AccountName     string
	AccountCategory sql.NullString
}

func (r *articleRow) scanArgs() []any {
	return []any{
		&r.ID, &r.AccountID, &r.Title, &r.URL, &r.PublishDate,
		&r.CoverImage, &r.Summary, &r.Tags, &r.Author, &r.CreatedAt,
		&r.AccountName, &r.AccountCategory,
	}
}

func (r *articleRow) toDomain() domain.Article {
	return domain.Article{
		ID:              r.ID,
		AccountID:       r.AccountID,
		Title:           r.Title,
		URL:             r.URL,
		PublishDate:     nullTimeToDatePtr(r.PublishDate),
		CoverImage:      nullToString(r.CoverImage),
		Summary:         nullToString(r.Summary),
		Tags:            nullToString(r.Tags),
		Author:          nullToString(r.Author),
		CreatedAt:       timeToString(r.CreatedAt),
		AccountName:     r.AccountName,
		AccountCategory: nullToString(r.AccountCategory),
	}
}
