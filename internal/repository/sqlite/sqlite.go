package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"benchtrack/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

// Store owns the SQLite connection and the schema.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating parent
// directories as needed, and brings the schema up idempotently. The
// store is limited to a single connection; callers needing concurrent
// access must serialize through one owning goroutine.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	if err := s.seedMaterialLibrary(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed material library: %w", err)
	}

	return s, nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS accounts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	category TEXT,
	description TEXT,
	avatar_url TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS articles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	account_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	url TEXT NOT NULL,
	publish_date DATE,
	cover_image TEXT,
	summary TEXT,
	tags TEXT,
	author TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_accounts_name ON accounts(name);
CREATE INDEX IF NOT EXISTS idx_accounts_category ON accounts(category);
CREATE INDEX IF NOT EXISTS idx_articles_account_id ON articles(account_id);
CREATE INDEX IF NOT EXISTS idx_articles_publish_date ON articles(publish_date);
CREATE INDEX IF NOT EXISTS idx_articles_url ON articles(url);
CREATE UNIQUE INDEX IF NOT EXISTS idx_articles_unique ON articles(account_id, url);
`

func (s *Store) migrate() error {
	_, err := s.db.Exec(schemaDDL)
	return err
}

// seedMaterialLibrary ensures the reserved account row exists. Safe to
// run against a populated database.
func (s *Store) seedMaterialLibrary() error {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM accounts WHERE name = ?`, domain.MaterialLibraryName).Scan(&id)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO accounts (name, category, description)
		VALUES (?, ?, ?)
	`, domain.MaterialLibraryName, domain.MaterialLibraryCategory, domain.MaterialLibraryDescription)
	if err != nil {
		return err
	}
	log.Println("Material library account created")
	return nil
}

// withTx runs fn inside a transaction, committing on success and
// rolling back on any error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("Transaction rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// DB returns the underlying connection for read-only diagnostics.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
