package sqlite

import (
	"context"
	"testing"

	"benchtrack/internal/domain"
)

func TestAccountAddAndGet(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)
	ctx := context.Background()

	id, err := repo.Add(ctx, "科技前沿", "科技", "前沿技术观察", "https://cdn.example.com/a.png")
	assertNoError(t, err)
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	acct, err := repo.Get(ctx, id)
	assertNoError(t, err)
	assertEqual(t, "科技前沿", acct.Name)
	assertEqual(t, "科技", acct.Category)
	assertEqual(t, "前沿技术观察", acct.Description)
	assertEqual(t, "https://cdn.example.com/a.png", acct.AvatarURL)
	assertEqual(t, 0, acct.ArticleCount)
	if acct.LatestDate != nil {
		t.Fatalf("expected nil latest date, got %q", *acct.LatestDate)
	}
	if acct.CreatedAt == "" || acct.UpdatedAt == "" {
		t.Fatal("expected timestamps to be populated")
	}
}

func TestAccountGetMissing(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)

	acct, err := repo.Get(context.Background(), 9999)
	assertNoError(t, err)
	if acct != nil {
		t.Fatalf("expected nil for missing account, got %+v", acct)
	}
}

func TestAccountAddTrimsFields(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)
	ctx := context.Background()

	id, err := repo.Add(ctx, "  运营笔记  ", " 运营 ", "  desc  ", "")
	assertNoError(t, err)

	acct, err := repo.Get(ctx, id)
	assertNoError(t, err)
	assertEqual(t, "运营笔记", acct.Name)
	assertEqual(t, "运营", acct.Category)
	assertEqual(t, "desc", acct.Description)
}

func TestAccountAddEmptyFields(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)
	ctx := context.Background()

	_, err := repo.Add(ctx, "", "科技", "", "")
	assertErrorIs(t, err, domain.ErrEmptyField)

	_, err = repo.Add(ctx, "   ", "科技", "", "")
	assertErrorIs(t, err, domain.ErrEmptyField)

	_, err = repo.Add(ctx, "name", "", "", "")
	assertErrorIs(t, err, domain.ErrEmptyField)
}

func TestAccountAddDuplicateName(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)
	ctx := context.Background()

	_, err := repo.Add(ctx, "科技前沿", "科技", "", "")
	assertNoError(t, err)

	_, err = repo.Add(ctx, "科技前沿", "营销", "", "")
	assertErrorIs(t, err, domain.ErrDuplicate)
}

func TestAccountUpdate(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)
	ctx := context.Background()

	id := seedAccount(t, store, "旧名字", "科技")

	err := repo.Update(ctx, id, domain.AccountPatch{
		Name:        strPtr("新名字"),
		Description: strPtr("更新后的描述"),
	})
	assertNoError(t, err)

	acct, err := repo.Get(ctx, id)
	assertNoError(t, err)
	assertEqual(t, "新名字", acct.Name)
	assertEqual(t, "更新后的描述", acct.Description)
	// Untouched field keeps its value
	assertEqual(t, "科技", acct.Category)
}

func TestAccountUpdateEmptyPatch(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)

	id := seedAccount(t, store, "科技前沿", "科技")

	err := repo.Update(context.Background(), id, domain.AccountPatch{})
	assertErrorIs(t, err, domain.ErrNoFields)
}

func TestAccountUpdateMissing(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)

	err := repo.Update(context.Background(), 9999, domain.AccountPatch{Name: strPtr("x")})
	assertErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountUpdateBlankName(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)

	id := seedAccount(t, store, "科技前沿", "科技")

	err := repo.Update(context.Background(), id, domain.AccountPatch{Name: strPtr("  ")})
	assertErrorIs(t, err, domain.ErrEmptyField)
}

func TestAccountUpdateDuplicateName(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)

	seedAccount(t, store, "账号一", "科技")
	id := seedAccount(t, store, "账号二", "科技")

	err := repo.Update(context.Background(), id, domain.AccountPatch{Name: strPtr("账号一")})
	assertErrorIs(t, err, domain.ErrDuplicate)
}

func TestAccountDeleteCascades(t *testing.T) {
	store := newTestStore(t)
	accounts := NewAccountRepo(store)
	articles := NewArticleRepo(store)
	ctx := context.Background()

	id := seedAccount(t, store, "科技前沿", "科技")
	artID := seedArticle(t, store, id, "文章一", "https://example.com/1", "2024-01-10")

	assertNoError(t, accounts.Delete(ctx, id))

	acct, err := accounts.Get(ctx, id)
	assertNoError(t, err)
	if acct != nil {
		t.Fatal("expected account to be gone")
	}

	art, err := articles.Get(ctx, artID)
	assertNoError(t, err)
	if art != nil {
		t.Fatal("expected cascade to remove the article")
	}
}

func TestAccountDeleteMissing(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)

	assertErrorIs(t, repo.Delete(context.Background(), 9999), domain.ErrNotFound)
}

func TestAccountDeleteReserved(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)
	ctx := context.Background()

	libID, err := repo.MaterialLibraryID(ctx)
	assertNoError(t, err)

	assertErrorIs(t, repo.Delete(ctx, libID), domain.ErrReservedAccount)

	// Still there afterwards
	acct, err := repo.Get(ctx, libID)
	assertNoError(t, err)
	if acct == nil {
		t.Fatal("reserved account must survive delete attempts")
	}
}

func TestAccountListAggregates(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)
	ctx := context.Background()

	id := seedAccount(t, store, "科技前沿", "科技")
	seedArticle(t, store, id, "文章一", "https://example.com/1", "2024-01-10")
	seedArticle(t, store, id, "文章二", "https://example.com/2", "2024-03-05")
	seedArticle(t, store, id, "无日期", "https://example.com/3", "")

	list, err := repo.List(ctx, domain.OrderAccountsByLatestDate)
	assertNoError(t, err)

	// Seeded material library plus our account
	assertEqual(t, 2, len(list))

	var found *domain.Account
	for i := range list {
		if list[i].ID == id {
			found = &list[i]
		}
	}
	if found == nil {
		t.Fatal("seeded account missing from list")
	}
	assertEqual(t, 3, found.ArticleCount)
	if found.LatestDate == nil || *found.LatestDate != "2024-03-05" {
		t.Fatalf("expected latest date 2024-03-05, got %v", found.LatestDate)
	}
}

func TestAccountListOrderByName(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)
	ctx := context.Background()

	seedAccount(t, store, "bbb", "科技")
	seedAccount(t, store, "aaa", "科技")

	list, err := repo.List(ctx, domain.OrderAccountsByName)
	assertNoError(t, err)

	names := make([]string, 0, len(list))
	for _, a := range list {
		names = append(names, a.Name)
	}
	// Material library sorts after ASCII names
	assertEqual(t, []string{"aaa", "bbb", domain.MaterialLibraryName}, names)
}

func TestAccountSearch(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)
	ctx := context.Background()

	id1, err := repo.Add(ctx, "科技前沿", "科技", "AI观察", "")
	assertNoError(t, err)
	_, err = repo.Add(ctx, "营销日报", "营销", "增长方法论", "")
	assertNoError(t, err)

	// Match on name
	hits, err := repo.Search(ctx, "科技", "")
	assertNoError(t, err)
	assertEqual(t, 1, len(hits))
	assertEqual(t, id1, hits[0].ID)

	// Match on description
	hits, err = repo.Search(ctx, "增长", "")
	assertNoError(t, err)
	assertEqual(t, 1, len(hits))
	assertEqual(t, "营销日报", hits[0].Name)

	// Category narrows the match set
	hits, err = repo.Search(ctx, "", "营销")
	assertNoError(t, err)
	assertEqual(t, 1, len(hits))

	// No hits
	hits, err = repo.Search(ctx, "不存在的关键词", "")
	assertNoError(t, err)
	assertEqual(t, 0, len(hits))
}

func TestAccountCategories(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)
	ctx := context.Background()

	seedAccount(t, store, "账号一", "科技")
	seedAccount(t, store, "账号二", "营销")
	seedAccount(t, store, "账号三", "科技")

	categories, err := repo.Categories(ctx)
	assertNoError(t, err)
	// Sorted, distinct, includes the seeded system category
	assertEqual(t, []string{"科技", domain.MaterialLibraryCategory, "营销"}, categories)
}

func TestAccountExists(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)
	ctx := context.Background()

	seedAccount(t, store, "科技前沿", "科技")

	ok, err := repo.Exists(ctx, "科技前沿")
	assertNoError(t, err)
	assertEqual(t, true, ok)

	ok, err = repo.Exists(ctx, "不存在")
	assertNoError(t, err)
	assertEqual(t, false, ok)
}

func TestAccountIDByName(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)
	ctx := context.Background()

	id := seedAccount(t, store, "科技前沿", "科技")

	got, err := repo.IDByName(ctx, "科技前沿")
	assertNoError(t, err)
	assertEqual(t, id, got)

	_, err = repo.IDByName(ctx, "不存在")
	assertErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountStats(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)
	ctx := context.Background()

	id := seedAccount(t, store, "科技前沿", "科技")
	seedArticle(t, store, id, "早", "https://example.com/1", "2023-12-01")
	seedArticle(t, store, id, "晚", "https://example.com/2", "2024-02-20")
	seedArticle(t, store, id, "无日期", "https://example.com/3", "")

	stats, err := repo.Stats(ctx, id)
	assertNoError(t, err)
	assertEqual(t, 3, stats.TotalArticles)
	assertEqual(t, "2024-02-20", *stats.LatestDate)
	assertEqual(t, "2023-12-01", *stats.EarliestDate)
}

func TestAccountStatsEmpty(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)
	ctx := context.Background()

	id := seedAccount(t, store, "空账号", "科技")

	stats, err := repo.Stats(ctx, id)
	assertNoError(t, err)
	assertEqual(t, 0, stats.TotalArticles)
	if stats.LatestDate != nil || stats.EarliestDate != nil {
		t.Fatalf("expected nil date bounds, got %v / %v", stats.LatestDate, stats.EarliestDate)
	}
}

func TestAccountStatsMissing(t *testing.T) {
	store := newTestStore(t)
	repo := NewAccountRepo(store)

	_, err := repo.Stats(context.Background(), 9999)
	assertErrorIs(t, err, domain.ErrNotFound)
}
