package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"benchtrack/internal/codec"
	"benchtrack/internal/domain"
	"benchtrack/internal/repository"
)

// ErrUnknownFormat is returned for an unrecognized transfer format name.
var ErrUnknownFormat = errors.New("unknown transfer format")

// TransferService moves whole datasets in and out of the store through
// the codecs. Imports remap account references: JSON articles carry the
// exporting store's account IDs, spreadsheet articles carry account
// names, and both resolve against this store's rows.
type TransferService struct {
	accounts repository.Accounts
	articles repository.Articles
	eventBus *EventBus
}

// NewTransferService creates a new transfer service
func NewTransferService(accounts repository.Accounts, articles repository.Articles, eventBus *EventBus) *TransferService {
	return &TransferService{
		accounts: accounts,
		articles: articles,
		eventBus: eventBus,
	}
}

// ExporterFor resolves a format name to its exporter. Markdown exports
// group articles under their accounts.
func ExporterFor(format string) (codec.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return codec.JSONCodec{}, nil
	case "excel", "xlsx":
		return codec.ExcelCodec{}, nil
	case "markdown", "md":
		return codec.MarkdownCodec{GroupByAccount: true}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ImporterFor resolves a format name to its importer. Markdown reports
// cannot be read back.
func ImporterFor(format string) (codec.Importer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return codec.JSONCodec{}, nil
	case "excel", "xlsx":
		return codec.ExcelCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Snapshot collects the full store contents into a dataset.
func (s *TransferService) Snapshot(ctx context.Context) (*domain.Dataset, error) {
	accounts, err := s.accounts.List(ctx, domain.OrderAccountsByName)
	if err != nil {
		return nil, fmt.Errorf("snapshot accounts: %w", err)
	}
	articles, err := s.articles.ListAll(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("snapshot articles: %w", err)
	}
	return domain.NewDataset(accounts, articles), nil
}

// Export writes the full store to w in the exporter's format.
func (s *TransferService) Export(ctx context.Context, e codec.Exporter, w io.Writer) error {
	ds, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	return e.Export(ds, w)
}

// ExportFile writes the full store to path in the named format.
func (s *TransferService) ExportFile(ctx context.Context, format, path string) error {
	e, err := ExporterFor(format)
	if err != nil {
		return err
	}
	ds, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}
	return codec.ExportFile(e, ds, path)
}

// Import parses r in the named format and merges it into the store.
func (s *TransferService) Import(ctx context.Context, format string, r io.Reader, skipDuplicates bool) (*domain.ImportReport, error) {
	imp, err := ImporterFor(format)
	if err != nil {
		return nil, err
	}
	ds, err := imp.Parse(r)
	if err != nil {
		return nil, err
	}
	return s.ImportDataset(ctx, ds, skipDuplicates)
}

// ImportFile parses the file at path and merges it into the store.
func (s *TransferService) ImportFile(ctx context.Context, format, path string, skipDuplicates bool) (*domain.ImportReport, error) {
	imp, err := ImporterFor(format)
	if err != nil {
		return nil, err
	}
	ds, err := codec.ParseFile(imp, path)
	if err != nil {
		return nil, err
	}
	return s.ImportDataset(ctx, ds, skipDuplicates)
}

// ImportDataset merges a parsed dataset into the store. Accounts are
// matched by name: with skipDuplicates, an existing account absorbs the
// incoming articles instead of failing. Per-row problems are collected
// in the report and never abort the run.
func (s *TransferService) ImportDataset(ctx context.Context, ds *domain.Dataset, skipDuplicates bool) (*domain.ImportReport, error) {
	report := &domain.ImportReport{}

	// Maps from the dataset's account references to this store's IDs.
	idMap := make(map[int64]int64)
	nameMap := make(map[string]int64)

	for _, acc := range ds.Accounts {
		if skipDuplicates {
			existing, err := s.accounts.IDByName(ctx, acc.Name)
			if err == nil {
				idMap[acc.ID] = existing
				nameMap[acc.Name] = existing
				continue
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("resolve account %q: %w", acc.Name, err)
			}
		}

		newID, err := s.accounts.Add(ctx, acc.Name, acc.Category, acc.Description, acc.AvatarURL)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("import account %q: %v", acc.Name, err))
			continue
		}
		idMap[acc.ID] = newID
		nameMap[acc.Name] = newID
		report.Accounts++
	}

	for _, ar := range ds.Articles {
		accountID, ok := idMap[ar.AccountID]
		if !ok || ar.AccountID == 0 {
			accountID, ok = nameMap[ar.AccountName]
		}
		if !ok {
			// The spreadsheet only names accounts, so an account that was
			// neither imported nor pre-existing leaves its articles behind.
			if id, err := s.accounts.IDByName(ctx, ar.AccountName); err == nil {
				accountID, ok = id, true
				nameMap[ar.AccountName] = id
			}
		}
		if !ok {
			report.Errors = append(report.Errors, fmt.Sprintf("import article %q: unknown account %q, skipped", ar.Title, ar.AccountName))
			continue
		}

		_, err := s.articles.Add(ctx, domain.NewArticle{
			AccountID:   accountID,
			Title:       ar.Title,
			URL:         ar.URL,
			PublishDate: ar.PublishDate,
			CoverImage:  ar.CoverImage,
			Summary:     ar.Summary,
			Tags:        ar.Tags,
			Author:      ar.Author,
		})
		if err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				if !skipDuplicates {
					report.Errors = append(report.Errors, fmt.Sprintf("import article %q: %v", ar.Title, err))
				}
				continue
			}
			report.Errors = append(report.Errors, fmt.Sprintf("import article %q: %v", ar.Title, err))
			continue
		}
		report.Articles++
	}

	s.eventBus.Publish(Event{
		Type:    EventDatasetImported,
		Payload: map[string]any{"accounts": report.Accounts, "articles": report.Articles},
	})

	return report, nil
}
