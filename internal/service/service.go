// Package service holds the business layer: the library facade over
// the repositories, the import/export transfer paths, the material
// library, and the in-process event bus that feeds live updates.
package service

import (
	"context"

	"benchtrack/internal/domain"
	"benchtrack/internal/repository"
)

// LibraryService provides business logic for account and article operations
type LibraryService struct {
	accounts repository.Accounts
	articles repository.Articles
	eventBus *EventBus
}

// NewLibraryService creates a new library service
func NewLibraryService(accounts repository.Accounts, articles repository.Articles, eventBus *EventBus) *LibraryService {
	return &LibraryService{
		accounts: accounts,
		articles: articles,
		eventBus: eventBus,
	}
}

// CreateAccount creates a new account
func (s *LibraryService) CreateAccount(ctx context.Context, name, category, description, avatarURL string) (int64, error) {
	id, err := s.accounts.Add(ctx, name, category, description, avatarURL)
	if err != nil {
		return 0, err
	}

	s.eventBus.Publish(Event{
		Type:    EventAccountCreated,
		Payload: map[string]any{"account_id": id, "name": name},
	})

	return id, nil
}

// UpdateAccount applies a field patch to an account
func (s *LibraryService) UpdateAccount(ctx context.Context, id int64, patch domain.AccountPatch) error {
	if err := s.accounts.Update(ctx, id, patch); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventAccountUpdated,
		Payload: map[string]any{"account_id": id},
	})

	return nil
}

// DeleteAccount removes an account and its articles
func (s *LibraryService) DeleteAccount(ctx context.Context, id int64) error {
	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventAccountDeleted,
		Payload: map[string]any{"account_id": id},
	})

	return nil
}

// GetAccount retrieves a single account by ID, or (nil, nil) if absent
func (s *LibraryService) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return s.accounts.Get(ctx, id)
}

// ListAccounts returns all accounts with their article aggregates
func (s *LibraryService) ListAccounts(ctx context.Context, order domain.AccountOrder) ([]domain.Account, error) {
	return s.accounts.List(ctx, order)
}

// SearchAccounts matches a keyword against names and descriptions
func (s *LibraryService) SearchAccounts(ctx context.Context, keyword, category string) ([]domain.Account, error) {
	return s.accounts.Search(ctx, keyword, category)
}

// AccountCategories returns the distinct account categories
func (s *LibraryService) AccountCategories(ctx context.Context) ([]string, error) {
	return s.accounts.Categories(ctx)
}

// AccountStats aggregates article counts and date bounds for one account
func (s *LibraryService) AccountStats(ctx context.Context, id int64) (*domain.AccountStats, error) {
	return s.accounts.Stats(ctx, id)
}

// CreateArticle creates a new article under an account
func (s *LibraryService) CreateArticle(ctx context.Context, art domain.NewArticle) (int64, error) {
	id, err := s.articles.Add(ctx, art)
	if err != nil {
		return 0, err
	}

	s.eventBus.Publish(Event{
		Type:    EventArticleCreated,
		Payload: map[string]any{"article_id": id, "account_id": art.AccountID},
	})

	return id, nil
}

// CreateArticles inserts a batch of articles in one transaction
func (s *LibraryService) CreateArticles(ctx context.Context, arts []domain.NewArticle) (added, failed int, err error) {
	added, failed, err = s.articles.BatchAdd(ctx, arts)
	if err != nil {
		return added, failed, err
	}

	if added > 0 {
		s.eventBus.Publish(Event{
			Type:    EventArticleCreated,
			Payload: map[string]any{"added": added, "failed": failed},
		})
	}

	return added, failed, nil
}

// UpdateArticle applies a field patch to an article
func (s *LibraryService) UpdateArticle(ctx context.Context, id int64, patch domain.ArticlePatch) error {
	if err := s.articles.Update(ctx, id, patch); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventArticleUpdated,
		Payload: map[string]any{"article_id": id},
	})

	return nil
}

// DeleteArticle removes one article
func (s *LibraryService) DeleteArticle(ctx context.Context, id int64) error {
	if err := s.articles.Delete(ctx, id); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventArticleDeleted,
		Payload: map[string]any{"article_id": id},
	})

	return nil
}

// DeleteArticles removes a batch of articles and returns how many went away
func (s *LibraryService) DeleteArticles(ctx context.Context, ids []int64) (int, error) {
	deleted, err := s.articles.BatchDelete(ctx, ids)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		s.eventBus.Publish(Event{
			Type:    EventArticleDeleted,
			Payload: map[string]any{"deleted": deleted},
		})
	}

	return deleted, nil
}

// GetArticle retrieves a single article by ID, or (nil, nil) if absent
func (s *LibraryService) GetArticle(ctx context.Context, id int64) (*domain.Article, error) {
	return s.articles.Get(ctx, id)
}

// ListArticles returns the articles of one account
func (s *LibraryService) ListArticles(ctx context.Context, accountID int64, opts domain.ListOptions) ([]domain.Article, error) {
	return s.articles.ListByAccount(ctx, accountID, opts)
}

// SearchArticles returns articles matching the filter
func (s *LibraryService) SearchArticles(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, error) {
	return s.articles.Search(ctx, filter)
}

// RecentArticles returns articles published within the trailing window
func (s *LibraryService) RecentArticles(ctx context.Context, days, limit int) ([]domain.Article, error) {
	return s.articles.Recent(ctx, days, limit)
}

// Totals returns the account and article counts
func (s *LibraryService) Totals(ctx context.Context) (accounts, articles int, err error) {
	all, err := s.accounts.List(ctx, domain.OrderAccountsByName)
	if err != nil {
		return 0, 0, err
	}
	n, err := s.articles.Count(ctx, 0)
	if err != nil {
		return 0, 0, err
	}
	return len(all), n, nil
}
