package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"benchtrack/internal/domain"
)

// ArticleRepo implements repository.Articles on a Store.
type ArticleRepo struct {
	store *Store
}

// NewArticleRepo creates an article repository.
func NewArticleRepo(store *Store) *ArticleRepo {
	return &ArticleRepo{store: store}
}

// articleSelectSQL is the joined projection shared by every read.
// Column order must match articleRow.scanArgs.
const articleSelectSQL = `
	SELECT
		ar.id, ar.account_id, ar.title, ar.url, ar.publish_date,
		ar.cover_image, ar.summary, ar.tags, ar.author, ar.created_at,
		a.name AS account_name, a.category AS account_category
	FROM articles ar
	JOIN accounts a ON ar.account_id = a.id
`

const articleInsertSQL = `
	INSERT INTO articles
	(account_id, title, url, publish_date, cover_image, summary, tags, author)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const defaultArticleOrder = "ar.publish_date DESC NULLS LAST"

var articleOrderClauses = map[domain.ArticleOrder]string{
	domain.OrderArticlesByPublishDate: defaultArticleOrder,
	domain.OrderArticlesByTitle:       "ar.title ASC",
	domain.OrderArticlesByCreatedAt:   "ar.created_at DESC",
}

// insertArgs validates and normalizes one NewArticle into bind args for
// articleInsertSQL.
func insertArgs(art domain.NewArticle) ([]any, error) {
	if err := art.Validate(); err != nil {
		return nil, err
	}

	var date *string
	if art.PublishDate != nil {
		normalized, err := domain.NormalizeDate(*art.PublishDate)
		if err != nil {
			return nil, err
		}
		date = normalized
	}

	return []any{
		art.AccountID,
		strings.TrimSpace(art.Title),
		strings.TrimSpace(art.URL),
		stringPtrToNull(date),
		strings.TrimSpace(art.CoverImage),
		strings.TrimSpace(art.Summary),
		strings.TrimSpace(art.Tags),
		strings.TrimSpace(art.Author),
	}, nil
}

// Add inserts one article.
func (r *ArticleRepo) Add(ctx context.Context, art domain.NewArticle) (int64, error) {
	args, err := insertArgs(art)
	if err != nil {
		return 0, err
	}

	res, err := r.store.db.ExecContext(ctx, articleInsertSQL, args...)
	if err != nil {
		return 0, fmt.Errorf("insert article: %w", constraintError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert article id: %w", err)
	}
	return id, nil
}

// BatchAdd inserts articles inside one transaction. Invalid items and
// constraint violations are counted as failures and skipped; any other
// error aborts the transaction and reports every item as failed.
func (r *ArticleRepo) BatchAdd(ctx context.Context, arts []domain.NewArticle) (int, int, error) {
	if len(arts) == 0 {
		return 0, 0, domain.ErrEmptyBatch
	}

	added, failed := 0, 0
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, articleInsertSQL)
		if err != nil {
			return fmt.Errorf("prepare article insert: %w", err)
		}
		defer stmt.Close()

		for _, art := range arts {
			args, err := insertArgs(art)
			if err != nil {
				failed++
				continue
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				err = constraintError(err)
				if errors.Is(err, domain.ErrDuplicate) || errors.Is(err, domain.ErrNotFound) {
					failed++
					continue
				}
				return fmt.Errorf("insert article %q: %w", art.Title, err)
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, len(arts), err
	}
	return added, failed, nil
}

// Update applies a field patch.
func (r *ArticleRepo) Update(ctx context.Context, id int64, patch domain.ArticlePatch) error {
	if patch.IsZero() {
		return domain.ErrNoFields
	}

	var sets []string
	var args []any

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return fmt.Errorf("article title: %w", domain.ErrEmptyField)
		}
		sets = append(sets, "title = ?")
		args = append(args, title)
	}
	if patch.URL != nil {
		url := strings.TrimSpace(*patch.URL)
		if url == "" {
			return fmt.Errorf("article url: %w", domain.ErrEmptyField)
		}
		sets = append(sets, "url = ?")
		args = append(args, url)
	}
	if patch.PublishDate != nil {
		date, err := domain.NormalizeDate(*patch.PublishDate)
		if err != nil {
			return err
		}
		sets = append(sets, "publish_date = ?")
		args = append(args, stringPtrToNull(date))
	}
	if patch.CoverImage != nil {
		sets = append(sets, "cover_image = ?")
		args = append(args, strings.TrimSpace(*patch.CoverImage))
	}
	if patch.Summary != nil {
		sets = append(sets, "summary = ?")
		args = append(args, strings.TrimSpace(*patch.Summary))
	}
	if patch.Tags != nil {
		sets = append(sets, "tags = ?")
		args = append(args, strings.TrimSpace(*patch.Tags))
	}
	if patch.Author != nil {
		sets = append(sets, "author = ?")
		args = append(args, strings.TrimSpace(*patch.Author))
	}

	args = append(args, id)

	res, err := r.store.db.ExecContext(ctx,
		"UPDATE articles SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update article: %w", constraintError(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update article rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("article %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes one article.
func (r *ArticleRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.store.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete article rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("article %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// BatchDelete removes articles by id inside one transaction.
func (r *ArticleRepo) BatchDelete(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, domain.ErrEmptyBatch
	}

	deleted := 0
	err := r.store.withTx(ctx, func(tx *sql.Tx) error {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
		args := make([]any, len(ids))
		for i, id := range ids {
			args[i] = id
		}

		res, err := tx.ExecContext(ctx,
			"DELETE FROM articles WHERE id IN ("+placeholders+")", args...)
		if err != nil {
			return fmt.Errorf("batch delete articles: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("batch delete rows: %w", err)
		}
		deleted = int(n)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// Get returns one joined article, or (nil, nil) if absent.
func (r *ArticleRepo) Get(ctx context.Context, id int64) (*domain.Article, error) {
	var row articleRow
	err := r.store.db.QueryRowContext(ctx, articleSelectSQL+" WHERE ar.id = ?", id).
		Scan(row.scanArgs()...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query article: %w", err)
	}

	art := row.toDomain()
	return &art, nil
}

// ListByAccount returns the articles owned by one account.
func (r *ArticleRepo) ListByAccount(ctx context.Context, accountID int64, opts domain.ListOptions) ([]domain.Article, error) {
	clause, ok := articleOrderClauses[opts.OrderBy]
	if !ok {
		clause = defaultArticleOrder
	}

	sqlText := articleSelectSQL + " WHERE ar.account_id = ? ORDER BY " + clause
	args := []any{accountID}
	if opts.Limit > 0 {
		sqlText += " LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := r.store.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query account articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// Search returns the joined articles matching the filter.
func (r *ArticleRepo) Search(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, error) {
	sqlText := articleSelectSQL + " WHERE (ar.title LIKE ? OR ar.summary LIKE ? OR ar.tags LIKE ?)"
	pattern := "%" + filter.Keyword + "%"
	args := []any{pattern, pattern, pattern}

	if filter.AccountID > 0 {
		sqlText += " AND ar.account_id = ?"
		args = append(args, filter.AccountID)
	}
	if filter.DateFrom != "" {
		sqlText += " AND ar.publish_date >= ?"
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		sqlText += " AND ar.publish_date <= ?"
		args = append(args, filter.DateTo)
	}
	if filter.Tags != "" {
		sqlText += " AND ar.tags LIKE ?"
		args = append(args, "%"+filter.Tags+"%")
	}
	sqlText += " ORDER BY " + defaultArticleOrder

	rows, err := r.store.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// ListAll returns every joined article, newest publish date first.
func (r *ArticleRepo) ListAll(ctx context.Context, limit, offset int) ([]domain.Article, error) {
	sqlText := articleSelectSQL + " ORDER BY " + defaultArticleOrder
	var args []any
	if limit > 0 {
		sqlText += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	rows, err := r.store.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

func collectArticles(rows *sql.Rows) ([]domain.Article, error) {
	articles := make([]domain.Article, 0)
	for rows.Next() {
		var row articleRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	return articles, nil
}

// Exists reports whether the account already holds that URL.
func (r *ArticleRepo) Exists(ctx context.Context, accountID int64, url string) (bool, error) {
	var id int64
	err := r.store.db.QueryRowContext(ctx,
		`SELECT id FROM articles WHERE account_id = ? AND url = ?`,
		accountID, strings.TrimSpace(url)).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query article existence: %w", err)
	}
	return true, nil
}

// Count returns the article total, scoped to one account when
// accountID is positive.
func (r *ArticleRepo) Count(ctx context.Context, accountID int64) (int, error) {
	var (
		count int
		err   error
	)
	if accountID > 0 {
		err = r.store.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM articles WHERE account_id = ?`, accountID).Scan(&count)
	} else {
		err = r.store.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM articles`).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

// Recent returns articles published within the trailing window of days.
func (r *ArticleRepo) Recent(ctx context.Context, days, limit int) ([]domain.Article, error) {
	rows, err := r.store.db.QueryContext(ctx, articleSelectSQL+`
		WHERE ar.publish_date >= date('now', '-' || ? || ' days')
		ORDER BY ar.publish_date DESC
		LIMIT ?
	`, days, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}
