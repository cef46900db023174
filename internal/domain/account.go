package domain

// The reserved material-library account. The name doubles as the row's
// identity, so it must match what earlier data files were seeded with.
const (
	MaterialLibraryName        = "📚 素材库"
	MaterialLibraryCategory    = "系统"
	MaterialLibraryDescription = "收藏的文章素材，不属于任何对标账号"
)

// Account is a tracked benchmark account.
//
// CreatedAt and UpdatedAt carry "YYYY-MM-DD HH:MM:SS" timestamps as
// stored by SQLite; they are never parsed, only displayed and exported.
type Account struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	AvatarURL   string `json:"avatar_url"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`

	// Aggregates computed by list and search queries. LatestDate is nil
	// when the account owns no dated articles.
	ArticleCount int     `json:"article_count"`
	LatestDate   *string `json:"latest_date"`
}

// IsReserved reports whether the account is the material-library row.
func (a *Account) IsReserved() bool {
	return a.Name == MaterialLibraryName
}

// AccountStats summarizes the articles owned by one account.
type AccountStats struct {
	TotalArticles int     `json:"total_articles"`
	LatestDate    *string `json:"latest_date"`
	EarliestDate  *string `json:"earliest_date"`
}

// AccountOrder selects the ordering of account listings. Unknown values
// fall back to OrderAccountsByLatestDate.
type AccountOrder string

const (
	OrderAccountsByLatestDate   AccountOrder = "latest_date"
	OrderAccountsByName         AccountOrder = "name"
	OrderAccountsByCategory     AccountOrder = "category"
	OrderAccountsByCreatedAt    AccountOrder = "created_at"
	OrderAccountsByArticleCount AccountOrder = "article_count"
)

// AccountPatch is a partial update of an account. Nil fields are left
// unchanged; set name/category must be non-empty after trimming.
type AccountPatch struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	AvatarURL   *string `json:"avatar_url"`
}

// IsZero reports whether no field is set.
func (p AccountPatch) IsZero() bool {
	return p.Name == nil && p.Category == nil && p.Description == nil && p.AvatarURL == nil
}
