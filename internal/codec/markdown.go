package codec

import (
	"bufio"
	"fmt"
	"io"

	"benchtrack/internal/domain"
)

// MarkdownCodec renders the dataset as a human-readable report. It is
// export-only; reports are not parsed back.
//
// With GroupByAccount set, each account gets its own section followed
// by its articles. Otherwise accounts and articles land in two flat
// tables.
type MarkdownCodec struct {
	GroupByAccount bool
}

func (MarkdownCodec) Format() string { return "markdown" }

func (c MarkdownCodec) Export(ds *domain.Dataset, w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# 对标账号管理 - 数据导出\n\n")
	fmt.Fprintf(bw, "**导出时间**: %s\n\n", ds.Metadata.ExportTime)
	fmt.Fprintf(bw, "**统计信息**: 账号 %d 个 | 文章 %d 篇\n\n", len(ds.Accounts), len(ds.Articles))
	fmt.Fprintf(bw, "---\n\n")

	if c.GroupByAccount {
		c.writeGrouped(bw, ds)
	} else {
		c.writeFlat(bw, ds)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

func (MarkdownCodec) writeGrouped(w *bufio.Writer, ds *domain.Dataset) {
	fmt.Fprintf(w, "## 账号与文章列表\n\n")

	byAccount := make(map[int64][]domain.Article)
	for _, ar := range ds.Articles {
		byAccount[ar.AccountID] = append(byAccount[ar.AccountID], ar)
	}

	for i, a := range ds.Accounts {
		fmt.Fprintf(w, "### %d. %s\n\n", i+1, a.Name)
		fmt.Fprintf(w, "- **分类**: %s\n", orDefault(a.Category, "未分类"))
		fmt.Fprintf(w, "- **文章数**: %d\n", a.ArticleCount)
		if a.Description != "" {
			fmt.Fprintf(w, "- **描述**: %s\n", a.Description)
		}
		fmt.Fprintf(w, "\n")

		articles := byAccount[a.ID]
		if len(articles) == 0 {
			fmt.Fprintf(w, "*暂无文章*\n\n")
		} else {
			fmt.Fprintf(w, "#### 文章列表\n\n")
			for j, ar := range articles {
				fmt.Fprintf(w, "%d. **%s**\n", j+1, ar.Title)
				fmt.Fprintf(w, "   - 链接: %s\n", ar.URL)
				fmt.Fprintf(w, "   - 发布日期: %s\n", publishDate(&ar))
				if ar.Tags != "" {
					fmt.Fprintf(w, "   - 标签: %s\n", ar.Tags)
				}
				if ar.Summary != "" {
					fmt.Fprintf(w, "   - 摘要: %s\n", ar.Summary)
				}
				fmt.Fprintf(w, "\n")
			}
		}

		fmt.Fprintf(w, "---\n\n")
	}
}

func (MarkdownCodec) writeFlat(w *bufio.Writer, ds *domain.Dataset) {
	fmt.Fprintf(w, "## 账号列表\n\n")
	fmt.Fprintf(w, "| 序号 | 账号名称 | 分类 | 文章数 | 描述 |\n")
	fmt.Fprintf(w, "|------|---------|------|--------|------|\n")
	for i, a := range ds.Accounts {
		fmt.Fprintf(w, "| %d | %s | %s | %d | %s |\n",
			i+1, a.Name, orDefault(a.Category, "未分类"), a.ArticleCount, truncate(a.Description, 50))
	}

	fmt.Fprintf(w, "\n---\n\n")

	fmt.Fprintf(w, "## 文章列表\n\n")
	fmt.Fprintf(w, "| 序号 | 账号名称 | 文章标题 | 发布日期 | 链接 |\n")
	fmt.Fprintf(w, "|------|---------|---------|---------|------|\n")
	for i, ar := range ds.Articles {
		fmt.Fprintf(w, "| %d | %s | %s | %s | [链接](%s) |\n",
			i+1, orDefault(ar.AccountName, "未知账号"), ar.Title, publishDate(&ar), ar.URL)
	}
	fmt.Fprintf(w, "\n")
}

func publishDate(ar *domain.Article) string {
	if ar.PublishDate != nil && *ar.PublishDate != "" {
		return *ar.PublishDate
	}
	return "未知日期"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// truncate caps a string at n runes. Descriptions can hold multibyte
// text, so byte slicing would split characters.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
