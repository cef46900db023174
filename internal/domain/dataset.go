package domain

import "time"

// DatasetVersion identifies the export document schema.
const DatasetVersion = "1.0"

// TimestampLayout is the format of every exported timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Metadata describes an exported dataset.
type Metadata struct {
	ExportTime    string `json:"export_time"`
	TotalAccounts int    `json:"total_accounts"`
	TotalArticles int    `json:"total_articles"`
	Version       string `json:"version"`
}

// Dataset is the combined accounts/articles document exchanged by the
// import/export codecs. Articles reference accounts either by the
// exporting store's account ID (JSON) or by account name (spreadsheet);
// import reconciles both through a remap.
type Dataset struct {
	Metadata Metadata  `json:"metadata"`
	Accounts []Account `json:"accounts"`
	Articles []Article `json:"articles"`
}

// NewDataset builds a dataset around the given rows, stamping metadata.
func NewDataset(accounts []Account, articles []Article) *Dataset {
	return &Dataset{
		Metadata: Metadata{
			ExportTime:    time.Now().Format(TimestampLayout),
			TotalAccounts: len(accounts),
			TotalArticles: len(articles),
			Version:       DatasetVersion,
		},
		Accounts: accounts,
		Articles: articles,
	}
}

// ImportReport summarizes an import run. Per-row problems land in
// Errors; they never abort the run.
type ImportReport struct {
	Accounts int      `json:"accounts"`
	Articles int      `json:"articles"`
	Errors   []string `json:"errors,omitempty"`
}
