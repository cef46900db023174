// Package codec serializes the combined accounts/articles dataset to
// and from interchange formats: Excel workbook, JSON document, and
// Markdown report (export only). Codecs operate on streams; the file
// helpers add parent-directory creation around them.
package codec

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"benchtrack/internal/domain"
)

// Importer parses a dataset from an input stream.
type Importer interface {
	Parse(r io.Reader) (*domain.Dataset, error)
	Format() string
}

// Exporter writes a dataset to an output stream.
type Exporter interface {
	Export(ds *domain.Dataset, w io.Writer) error
	Format() string
}

// ExportFile writes the dataset to path, creating parent directories.
func ExportFile(e Exporter, ds *domain.Dataset, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := e.Export(ds, f); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", e.Format(), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}

// ParseFile reads a dataset from path.
func ParseFile(i Importer, path string) (*domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	ds, err := i.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", i.Format(), err)
	}
	return ds, nil
}
