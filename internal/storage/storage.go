// Package storage persists catalog tables in SQLite and reports artifact disk usage.
package storage

import (
	"context"

	"github.com/hyperjump/marquee/internal/models"
)

// CatalogStorage stores a catalog table so it can be loaded without the original export.
type CatalogStorage interface {
	// ImportMovies replaces the stored table with entries, in order.
	ImportMovies(ctx context.Context, entries []models.CatalogEntry) error
	// ListMovies returns all rows ordered by position.
	ListMovies(ctx context.Context) ([]models.CatalogEntry, error)
	CountMovies(ctx context.Context) (int64, error)

	Close() error
}
