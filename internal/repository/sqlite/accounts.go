package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"benchtrack/internal/domain"
)

// AccountRepo implements repository.Accounts on a Store.
type AccountRepo struct {
	store *Store
}

// NewAccountRepo creates an account repository.
func NewAccountRepo(store *Store) *AccountRepo {
	return &AccountRepo{store: store}
}

// accountListSQL is the augmented projection shared by List and Search.
// Column order must match accountRow.scanArgs.
const accountListSQL = `
	SELECT
		a.id, a.name, a.category, a.description, a.avatar_url,
		a.created_at, a.updated_at,
		COUNT(ar.id) AS article_count,
		MAX(ar.publish_date) AS latest_date
	FROM accounts a
	LEFT JOIN articles ar ON a.id = ar.account_id
`

const defaultAccountOrder = "latest_date DESC NULLS LAST"

var accountOrderClauses = map[domain.AccountOrder]string{
	domain.OrderAccountsByLatestDate:   defaultAccountOrder,
	domain.OrderAccountsByName:         "a.name ASC",
	domain.OrderAccountsByCategory:     "a.category ASC, a.name ASC",
	domain.OrderAccountsByCreatedAt:    "a.created_at DESC",
	domain.OrderAccountsByArticleCount: "article_count DESC",
}

// Add inserts a new account.
func (r *AccountRepo) Add(ctx context.Context, name, category, description, avatarURL string) (int64, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	if name == "" {
		return 0, fmt.Errorf("account name: %w", domain.ErrEmptyField)
	}
	if category == "" {
		return 0, fmt.Errorf("account category: %w", domain.ErrEmptyField)
	}

	res, err := r.store.db.ExecContext(ctx, `
		INSERT INTO accounts (name, category, description, avatar_url)
		VALUES (?, ?, ?, ?)
	`, name, category, strings.TrimSpace(description), strings.TrimSpace(avatarURL))
	if err != nil {
		return 0, fmt.Errorf("insert account: %w", constraintError(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert account id: %w", err)
	}
	return id, nil
}

// Update applies a field patch, refreshing updated_at. The patch maps to
// a parameterized statement in fixed field order.
func (r *AccountRepo) Update(ctx context.Context, id int64, patch domain.AccountPatch) error {
	if patch.IsZero() {
		return domain.ErrNoFields
	}

	var sets []string
	var args []any

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return fmt.Errorf("account name: %w", domain.ErrEmptyField)
		}
		sets = append(sets, "name = ?")
		args = append(args, name)
	}
	if patch.Category != nil {
		category := strings.TrimSpace(*patch.Category)
		if category == "" {
			return fmt.Errorf("account category: %w", domain.ErrEmptyField)
		}
		sets = append(sets, "category = ?")
		args = append(args, category)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, strings.TrimSpace(*patch.Description))
	}
	if patch.AvatarURL != nil {
		sets = append(sets, "avatar_url = ?")
		args = append(args, strings.TrimSpace(*patch.AvatarURL))
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	res, err := r.store.db.ExecContext(ctx,
		"UPDATE accounts SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update account: %w", constraintError(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes an account; the cascade foreign key removes its
// articles in the same transaction. The reserved row is protected.
func (r *AccountRepo) Delete(ctx context.Context, id int64) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		var name string
		err := tx.QueryRowContext(ctx, `SELECT name FROM accounts WHERE id = ?`, id).Scan(&name)
		if err == sql.ErrNoRows {
			return fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("load account: %w", err)
		}
		if name == domain.MaterialLibraryName {
			return domain.ErrReservedAccount
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		return nil
	})
}

// Get returns one account without aggregates, or (nil, nil) if absent.
func (r *AccountRepo) Get(ctx context.Context, id int64) (*domain.Account, error) {
	var row accountRow
	err := r.store.db.QueryRowContext(ctx, `
		SELECT
			a.id, a.name, a.category, a.description, a.avatar_url,
			a.created_at, a.updated_at,
			COUNT(ar.id) AS article_count,
			MAX(ar.publish_date) AS latest_date
		FROM accounts a
		LEFT JOIN articles ar ON a.id = ar.account_id
		WHERE a.id = ?
		GROUP BY a.id
	`, id).Scan(row.scanArgs()...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}

	acct := row.toDomain()
	return &acct, nil
}

// List returns all accounts augmented with article_count and latest_date.
func (r *AccountRepo) List(ctx context.Context, order domain.AccountOrder) ([]domain.Account, error) {
	clause, ok := accountOrderClauses[order]
	if !ok {
		clause = defaultAccountOrder
	}

	rows, err := r.store.db.QueryContext(ctx, accountListSQL+" GROUP BY a.id ORDER BY "+clause)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

// Search matches keyword against name or description, optionally
// narrowed to an exact category.
func (r *AccountRepo) Search(ctx context.Context, keyword, category string) ([]domain.Account, error) {
	sqlText := accountListSQL + " WHERE (a.name LIKE ? OR a.description LIKE ?)"
	pattern := "%" + keyword + "%"
	args := []any{pattern, pattern}

	if category != "" {
		sqlText += " AND a.category = ?"
		args = append(args, category)
	}
	sqlText += " GROUP BY a.id ORDER BY " + defaultAccountOrder

	rows, err := r.store.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("search accounts: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

func collectAccounts(rows *sql.Rows) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0)
	for rows.Next() {
		var row accountRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

// Categories returns the distinct non-empty categories alphabetically.
func (r *AccountRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT DISTINCT category
		FROM accounts
		WHERE category IS NOT NULL AND category != ''
		ORDER BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Exists reports whether an account of that exact name exists.
func (r *AccountRepo) Exists(ctx context.Context, name string) (bool, error) {
	_, err := r.IDByName(ctx, name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// IDByName resolves an account name to its id.
func (r *AccountRepo) IDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.store.db.QueryRowContext(ctx,
		`SELECT id FROM accounts WHERE name = ?`, strings.TrimSpace(name)).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("account %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("query account by name: %w", err)
	}
	return id, nil
}

// Stats aggregates article count and publish-date bounds for one account.
func (r *AccountRepo) Stats(ctx context.Context, id int64) (*domain.AccountStats, error) {
	var exists int
	err := r.store.db.QueryRowContext(ctx,
		`SELECT 1 FROM accounts WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}

	var (
		total            int
		latest, earliest sql.NullString
	)
	err = r.store.db.QueryRowContext(ctx, `
		SELECT
			COUNT(id) AS total_articles,
			MAX(publish_date) AS latest_date,
			MIN(publish_date) AS earliest_date
		FROM articles
		WHERE account_id = ?
	`, id).Scan(&total, &latest, &earliest)
	if err != nil {
		return nil, fmt.Errorf("query account stats: %w", err)
	}

	return &domain.AccountStats{
		TotalArticles: total,
		LatestDate:    nullToStringPtr(latest),
		EarliestDate:  nullToStringPtr(earliest),
	}, nil
}

// MaterialLibraryID returns the id of the reserved account.
func (r *AccountRepo) MaterialLibraryID(ctx context.Context) (int64, error) {
	return r.IDByName(ctx, domain.MaterialLibraryName)
}
