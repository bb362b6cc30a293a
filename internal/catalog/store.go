// Package catalog holds the read-only movie table and its similarity matrix.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/hyperjump/marquee/internal/models"
)

// Store is an immutable catalog: movie rows plus a square similarity matrix whose
// dimension equals the number of rows.
type Store struct {
	entries     []models.CatalogEntry
	byTitle     map[string]int
	matrix      *Matrix
	fingerprint string
}

// New validates entries against matrix and builds a Store. Entry positions are
// reassigned to their slice index. Nothing is truncated: any mismatch fails.
func New(entries []models.CatalogEntry, matrix *Matrix) (*Store, error) {
	if len(entries) == 0 {
		return nil, integrityErrorf(nil, "catalog is empty")
	}
	if matrix == nil {
		return nil, integrityErrorf(nil, "similarity matrix is missing")
	}
	if matrix.Size() != len(entries) {
		return nil, integrityErrorf(nil, "similarity matrix is %dx%d but catalog has %d movies",
			matrix.Size(), matrix.Size(), len(entries))
	}

	s := &Store{
		entries: make([]models.CatalogEntry, len(entries)),
		byTitle: make(map[string]int, len(entries)),
		matrix:  matrix,
	}
	for i, e := range entries {
		if e.Title == "" {
			return nil, integrityErrorf(nil, "catalog row %d has no title", i)
		}
		e.Position = i
		s.entries[i] = e
		// First occurrence wins for duplicate titles.
		if _, dup := s.byTitle[e.Title]; !dup {
			s.byTitle[e.Title] = i
		}
	}
	return s, nil
}

// Load reads both artifacts and builds a Store. Any read, parse or shape error is
// returned as a *DataIntegrityError and no Store is produced.
func Load(moviesPath, matrixPath string) (*Store, error) {
	entries, err := ReadEntries(moviesPath)
	if err != nil {
		return nil, err
	}
	matrix, err := ReadMatrix(matrixPath)
	if err != nil {
		return nil, err
	}
	s, err := New(entries, matrix)
	if err != nil {
		return nil, err
	}
	s.fingerprint = fingerprint(moviesPath, matrixPath)
	return s, nil
}

// FindByTitle returns the position of the first entry whose title equals title exactly.
func (s *Store) FindByTitle(title string) (int, error) {
	pos, ok := s.byTitle[title]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrMovieNotFound, title)
	}
	return pos, nil
}

// EntryAt returns the entry at position.
func (s *Store) EntryAt(position int) (models.CatalogEntry, error) {
	if position < 0 || position >= len(s.entries) {
		return models.CatalogEntry{}, fmt.Errorf("%w: %d (catalog size %d)", ErrInvalidIndex, position, len(s.entries))
	}
	return s.entries[position], nil
}

// Size returns the number of movies.
func (s *Store) Size() int {
	return len(s.entries)
}

// Titles returns all titles in position order.
func (s *Store) Titles() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Title
	}
	return out
}

// Row returns the similarity row for position. The slice must not be modified.
func (s *Store) Row(position int) []float32 {
	return s.matrix.Row(position)
}

// Score returns the similarity of i to j.
func (s *Store) Score(i, j int) float64 {
	return s.matrix.Score(i, j)
}

// Fingerprint identifies the artifact files a Store was loaded from (empty for New).
func (s *Store) Fingerprint() string {
	return s.fingerprint
}

func fingerprint(paths ...string) string {
	h := sha256.New()
	for _, p := range paths {
		fmt.Fprintf(h, "%s\x00", p)
		if info, err := os.Stat(p); err == nil {
			fmt.Fprintf(h, "%d\x00%d\x00", info.Size(), info.ModTime().UnixNano())
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
