package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/marquee/internal/models"
)

var _ CatalogStorage = (*SQLiteCatalog)(nil)

// SQLiteCatalog implements CatalogStorage using SQLite.
type SQLiteCatalog struct {
	db *sql.DB
}

// NewSQLiteCatalog opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteCatalog(dbPath string) (*SQLiteCatalog, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteCatalog{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS movies (
		position INTEGER PRIMARY KEY,
		movie_id TEXT NOT NULL,
		title TEXT NOT NULL,
		year INTEGER NOT NULL DEFAULT 0,
		imported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_movies_title ON movies(title);
	`
	_, err := db.Exec(schema)
	return err
}

// ImportMovies replaces the movies table in a single transaction. Positions are
// rewritten to the order of entries.
func (s *SQLiteCatalog) ImportMovies(ctx context.Context, entries []models.CatalogEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM movies`); err != nil {
		return fmt.Errorf("failed to clear movies: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO movies (position, movie_id, title, year) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, i, e.ID, e.Title, e.Year); err != nil {
			return fmt.Errorf("failed to insert movie %q: %w", e.Title, err)
		}
	}
	return tx.Commit()
}

// ListMovies returns every stored movie ordered by position.
func (s *SQLiteCatalog) ListMovies(ctx context.Context) ([]models.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, movie_id, title, year FROM movies ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.CatalogEntry
	for rows.Next() {
		var e models.CatalogEntry
		if err := rows.Scan(&e.Position, &e.ID, &e.Title, &e.Year); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountMovies returns the number of stored movies.
func (s *SQLiteCatalog) CountMovies(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteCatalog) Close() error {
	return s.db.Close()
}
