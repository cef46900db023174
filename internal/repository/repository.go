package repository

import (
	"context"

	"benchtrack/internal/domain"
)

// Accounts is the data access interface for benchmark accounts.
type Accounts interface {
	// Add inserts an account and returns its id. Name and category are
	// required after trimming; a duplicate name fails with ErrDuplicate.
	Add(ctx context.Context, name, category, description, avatarURL string) (int64, error)

	// Update applies a field patch. ErrNoFields when the patch is empty,
	// ErrNotFound when no row matched.
	Update(ctx context.Context, id int64, patch domain.AccountPatch) error

	// Delete removes an account and, via cascade, all its articles.
	// The reserved material-library row fails with ErrReservedAccount.
	Delete(ctx context.Context, id int64) error

	// Get returns the account, or (nil, nil) if absent.
	Get(ctx context.Context, id int64) (*domain.Account, error)

	// List returns all accounts augmented with article_count and
	// latest_date, ordered per order.
	List(ctx context.Context, order domain.AccountOrder) ([]domain.Account, error)

	// Search matches keyword against name or description
	// (case-insensitive substring), optionally filtered to an exact
	// category, with the same augmentation and default order as List.
	Search(ctx context.Context, keyword, category string) ([]domain.Account, error)

	// Categories returns the distinct non-empty categories, sorted.
	Categories(ctx context.Context) ([]string, error)

	// Exists reports whether an account of that exact name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// IDByName resolves an account name to its id, or ErrNotFound.
	IDByName(ctx context.Context, name string) (int64, error)

	// Stats aggregates article counts and date bounds for one account,
	// or ErrNotFound.
	Stats(ctx context.Context, id int64) (*domain.AccountStats, error)

	// MaterialLibraryID returns the id of the reserved account.
	MaterialLibraryID(ctx context.Context) (int64, error)
}

// Articles is the data access interface for articles.
type Articles interface {
	// Add inserts an article and returns its id. Title and URL are
	// required; a duplicate (account, URL) pair fails with ErrDuplicate
	// and a broken account reference with ErrNotFound.
	Add(ctx context.Context, art domain.NewArticle) (int64, error)

	// BatchAdd inserts articles inside one transaction. Per-item
	// validation and constraint failures are counted and skipped; any
	// other error rolls the whole batch back.
	BatchAdd(ctx context.Context, arts []domain.NewArticle) (added, failed int, err error)

	// Update applies a field patch; articles carry no updated_at column.
	Update(ctx context.Context, id int64, patch domain.ArticlePatch) error

	// Delete removes one article.
	Delete(ctx context.Context, id int64) error

	// BatchDelete removes articles by id inside one transaction and
	// returns how many rows went away.
	BatchDelete(ctx context.Context, ids []int64) (int, error)

	// Get returns the article joined with its account's name and
	// category, or (nil, nil) if absent.
	Get(ctx context.Context, id int64) (*domain.Article, error)

	// ListByAccount returns the articles of one account, joined,
	// paginated and ordered per opts.
	ListByAccount(ctx context.Context, accountID int64, opts domain.ListOptions) ([]domain.Article, error)

	// Search returns joined articles matching the filter, newest
	// publish date first with undated articles last.
	Search(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, error)

	// ListAll returns all joined articles; limit 0 means unbounded.
	ListAll(ctx context.Context, limit, offset int) ([]domain.Article, error)

	// Exists reports whether the account already has that URL.
	Exists(ctx context.Context, accountID int64, url string) (bool, error)

	// Count returns the article total, scoped to one account when
	// accountID is positive.
	Count(ctx context.Context, accountID int64) (int, error)

	// Recent returns articles published within the trailing window.
	Recent(ctx context.Context, days, limit int) ([]domain.Article, error)
}
