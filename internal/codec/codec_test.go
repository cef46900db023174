package codec

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchtrack/internal/domain"
)

func sampleDataset() *domain.Dataset {
	date := "2024-03-15"
	latest := "2024-03-15"
	return &domain.Dataset{
		Metadata: domain.Metadata{
			ExportTime:    "2024-04-01 12:00:00",
			TotalAccounts: 2,
			TotalArticles: 2,
			Version:       domain.DatasetVersion,
		},
		Accounts: []domain.Account{
			{
				ID: 1, Name: "科技前沿", Category: "科技", Description: "前沿技术观察",
				AvatarURL: "https://cdn.example.com/a.png", CreatedAt: "2024-01-01 08:00:00",
				ArticleCount: 2, LatestDate: &latest,
			},
			{ID: 2, Name: "营销日报", Category: "营销", CreatedAt: "2024-01-02 08:00:00"},
		},
		Articles: []domain.Article{
			{
				ID: 10, AccountID: 1, Title: "AI的下一个十年", URL: "https://example.com/ai",
				PublishDate: &date, Tags: "AI,趋势", Author: "张三", Summary: "一篇展望",
				CreatedAt: "2024-03-16 09:00:00", AccountName: "科技前沿", AccountCategory: "科技",
			},
			{
				ID: 11, AccountID: 1, Title: "无日期文章", URL: "https://example.com/nodate",
				CreatedAt: "2024-03-17 09:00:00", AccountName: "科技前沿", AccountCategory: "科技",
			},
		},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	ds := sampleDataset()

	var buf bytes.Buffer
	require.NoError(t, JSONCodec{}.Export(ds, &buf))

	got, err := JSONCodec{}.Parse(&buf)
	require.NoError(t, err)

	assert.Equal(t, ds.Metadata, got.Metadata)
	assert.Equal(t, ds.Accounts, got.Accounts)
	assert.Equal(t, ds.Articles, got.Articles)
}

func TestJSONExportShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONCodec{}.Export(sampleDataset(), &buf))

	out := buf.String()
	assert.Contains(t, out, `"export_time"`)
	assert.Contains(t, out, `"total_accounts": 2`)
	assert.Contains(t, out, `"version": "1.0"`)
	// Chinese text must stay readable, not \u escaped
	assert.Contains(t, out, "科技前沿")
	// URLs must not be HTML-escaped
	assert.Contains(t, out, "https://example.com/ai")
}

func TestJSONParseInvalid(t *testing.T) {
	_, err := JSONCodec{}.Parse(bytes.NewReader([]byte("{broken")))
	assert.Error(t, err)
}

func TestExcelRoundTrip(t *testing.T) {
	ds := sampleDataset()

	var buf bytes.Buffer
	require.NoError(t, ExcelCodec{}.Export(ds, &buf))

	got, err := ExcelCodec{}.Parse(&buf)
	require.NoError(t, err)

	require.Len(t, got.Accounts, 2)
	assert.Equal(t, int64(1), got.Accounts[0].ID)
	assert.Equal(t, "科技前沿", got.Accounts[0].Name)
	assert.Equal(t, "科技", got.Accounts[0].Category)
	assert.Equal(t, "前沿技术观察", got.Accounts[0].Description)
	assert.Equal(t, "https://cdn.example.com/a.png", got.Accounts[0].AvatarURL)

	require.Len(t, got.Articles, 2)
	// Spreadsheet rows reference accounts by name
	assert.Equal(t, "科技前沿", got.Articles[0].AccountName)
	assert.Equal(t, "AI的下一个十年", got.Articles[0].Title)
	assert.Equal(t, "https://example.com/ai", got.Articles[0].URL)
	require.NotNil(t, got.Articles[0].PublishDate)
	assert.Equal(t, "2024-03-15", *got.Articles[0].PublishDate)
	assert.Equal(t, "AI,趋势", got.Articles[0].Tags)
	assert.Equal(t, "张三", got.Articles[0].Author)
	assert.Nil(t, got.Articles[1].PublishDate)

	assert.Equal(t, 2, got.Metadata.TotalAccounts)
	assert.Equal(t, 2, got.Metadata.TotalArticles)
}

func TestExcelParseSkipsBlankRows(t *testing.T) {
	ds := &domain.Dataset{
		Accounts: []domain.Account{
			{ID: 1, Name: "有名字"},
			{ID: 2, Name: ""}, // dropped on parse
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ExcelCodec{}.Export(ds, &buf))

	got, err := ExcelCodec{}.Parse(&buf)
	require.NoError(t, err)
	require.Len(t, got.Accounts, 1)
	assert.Equal(t, "有名字", got.Accounts[0].Name)
}

func TestMarkdownGrouped(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarkdownCodec{GroupByAccount: true}.Export(sampleDataset(), &buf))

	out := buf.String()
	assert.Contains(t, out, "# 对标账号管理 - 数据导出")
	assert.Contains(t, out, "**导出时间**: 2024-04-01 12:00:00")
	assert.Contains(t, out, "**统计信息**: 账号 2 个 | 文章 2 篇")
	assert.Contains(t, out, "## 账号与文章列表")
	assert.Contains(t, out, "### 1. 科技前沿")
	assert.Contains(t, out, "- **分类**: 科技")
	assert.Contains(t, out, "1. **AI的下一个十年**")
	assert.Contains(t, out, "   - 链接: https://example.com/ai")
	assert.Contains(t, out, "   - 发布日期: 2024-03-15")
	assert.Contains(t, out, "   - 标签: AI,趋势")
	// Account without articles
	assert.Contains(t, out, "### 2. 营销日报")
	assert.Contains(t, out, "*暂无文章*")
	// Dateless article falls back
	assert.Contains(t, out, "   - 发布日期: 未知日期")
}

func TestMarkdownFlat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarkdownCodec{}.Export(sampleDataset(), &buf))

	out := buf.String()
	assert.Contains(t, out, "## 账号列表")
	assert.Contains(t, out, "| 序号 | 账号名称 | 分类 | 文章数 | 描述 |")
	assert.Contains(t, out, "| 1 | 科技前沿 | 科技 | 2 | 前沿技术观察 |")
	assert.Contains(t, out, "## 文章列表")
	assert.Contains(t, out, "| 序号 | 账号名称 | 文章标题 | 发布日期 | 链接 |")
	assert.Contains(t, out, "[链接](https://example.com/ai)")
	assert.NotContains(t, out, "## 账号与文章列表")
}

func TestMarkdownTruncatesDescription(t *testing.T) {
	long := make([]rune, 0, 60)
	for i := 0; i < 60; i++ {
		long = append(long, '长')
	}

	ds := &domain.Dataset{
		Accounts: []domain.Account{{ID: 1, Name: "账号", Description: string(long)}},
	}

	var buf bytes.Buffer
	require.NoError(t, MarkdownCodec{}.Export(ds, &buf))

	assert.Contains(t, buf.String(), string(long[:50]))
	assert.NotContains(t, buf.String(), string(long))
}

func TestExportFileCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "data.json")

	require.NoError(t, ExportFile(JSONCodec{}, sampleDataset(), path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	got, err := ParseFile(JSONCodec{}, path)
	require.NoError(t, err)
	assert.Len(t, got.Accounts, 2)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(JSONCodec{}, filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
