package codec

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"benchtrack/internal/domain"
)

// Workbook sheet names. Earlier exports used these exact names, so both
// directions keep them.
const (
	sheetAccounts = "账号列表"
	sheetArticles = "文章列表"
	sheetStats    = "统计信息"
)

var (
	accountHeaders = []string{"账号ID", "账号名称", "分类", "描述", "头像链接", "文章数", "最新文章日期", "创建时间"}
	articleHeaders = []string{"文章ID", "账号名称", "账号分类", "文章标题", "文章链接", "发布日期", "作者", "标签", "摘要", "创建时间"}

	accountWidths = []float64{10, 24, 14, 40, 40, 10, 16, 20}
	articleWidths = []float64{10, 24, 14, 40, 40, 14, 14, 24, 50, 20}
)

// ExcelCodec reads and writes the dataset as an .xlsx workbook with an
// accounts sheet, an articles sheet, and a summary sheet. Articles
// reference their account by name, so imports remap by name rather than
// by the exporting store's IDs.
type ExcelCodec struct{}

func (ExcelCodec) Format() string { return "excel" }

func (ExcelCodec) Export(ds *domain.Dataset, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("workbook style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", sheetAccounts); err != nil {
		return err
	}
	if err := writeSheet(f, sheetAccounts, headerStyle, accountHeaders, accountWidths, len(ds.Accounts), func(i int) []any {
		a := ds.Accounts[i]
		latest := ""
		if a.LatestDate != nil {
			latest = *a.LatestDate
		}
		return []any{a.ID, a.Name, a.Category, a.Description, a.AvatarURL, a.ArticleCount, latest, a.CreatedAt}
	}); err != nil {
		return fmt.Errorf("accounts sheet: %w", err)
	}

	if _, err := f.NewSheet(sheetArticles); err != nil {
		return err
	}
	if err := writeSheet(f, sheetArticles, headerStyle, articleHeaders, articleWidths, len(ds.Articles), func(i int) []any {
		ar := ds.Articles[i]
		date := ""
		if ar.PublishDate != nil {
			date = *ar.PublishDate
		}
		return []any{ar.ID, ar.AccountName, ar.AccountCategory, ar.Title, ar.URL, date, ar.Author, ar.Tags, ar.Summary, ar.CreatedAt}
	}); err != nil {
		return fmt.Errorf("articles sheet: %w", err)
	}

	if _, err := f.NewSheet(sheetStats); err != nil {
		return err
	}
	if err := writeSheet(f, sheetStats, headerStyle, []string{"统计项", "数值"}, []float64{20, 24}, 3, func(i int) []any {
		switch i {
		case 0:
			return []any{"账号总数", ds.Metadata.TotalAccounts}
		case 1:
			return []any{"文章总数", ds.Metadata.TotalArticles}
		default:
			return []any{"导出时间", ds.Metadata.ExportTime}
		}
	}); err != nil {
		return fmt.Errorf("stats sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// writeSheet fills one sheet: styled header row, fixed column widths,
// then one row per record.
func writeSheet(f *excelize.File, sheet string, style int, headers []string, widths []float64, n int, row func(int) []any) error {
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, widths[col]); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row(i)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func (ExcelCodec) Parse(r io.Reader) (*domain.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	ds := &domain.Dataset{}

	rows, err := f.GetRows(sheetAccounts)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheetAccounts, err)
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		name := strings.TrimSpace(cell(row, 1))
		if name == "" {
			continue
		}
		// Exported IDs are only meaningful to the importer's remap; a
		// blank or garbled cell degrades to 0 without failing the row.
		id, _ := strconv.ParseInt(strings.TrimSpace(cell(row, 0)), 10, 64)
		ds.Accounts = append(ds.Accounts, domain.Account{
			ID:          id,
			Name:        name,
			Category:    strings.TrimSpace(cell(row, 2)),
			Description: cell(row, 3),
			AvatarURL:   strings.TrimSpace(cell(row, 4)),
			CreatedAt:   strings.TrimSpace(cell(row, 7)),
		})
	}

	rows, err = f.GetRows(sheetArticles)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheetArticles, err)
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		title := strings.TrimSpace(cell(row, 3))
		url := strings.TrimSpace(cell(row, 4))
		if title == "" && url == "" {
			continue
		}
		var date *string
		if d := strings.TrimSpace(cell(row, 5)); d != "" {
			date = &d
		}
		ds.Articles = append(ds.Articles, domain.Article{
			AccountName:     strings.TrimSpace(cell(row, 1)),
			AccountCategory: strings.TrimSpace(cell(row, 2)),
			Title:           title,
			URL:             url,
			PublishDate:     date,
			Author:          strings.TrimSpace(cell(row, 6)),
			Tags:            strings.TrimSpace(cell(row, 7)),
			Summary:         cell(row, 8),
			CreatedAt:       strings.TrimSpace(cell(row, 9)),
		})
	}

	ds.Metadata = domain.Metadata{
		TotalAccounts: len(ds.Accounts),
		TotalArticles: len(ds.Articles),
		Version:       domain.DatasetVersion,
	}
	return ds, nil
}

// cell indexes a spreadsheet row defensively: GetRows drops trailing
// empty cells, so short rows are common.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
