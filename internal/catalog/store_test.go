package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/marquee/internal/models"
)

func threeMovies() []models.CatalogEntry {
	return []models.CatalogEntry{
		{ID: "1", Title: "A"},
		{ID: "2", Title: "B"},
		{ID: "3", Title: "C"},
	}
}

func identity(n int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		rows[i][i] = 1
	}
	return rows
}

func TestNew(t *testing.T) {
	m, err := NewMatrix(identity(3))
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(threeMovies(), m)
	if err != nil {
		t.Fatal(err)
	}
	if s.Size() != 3 {
		t.Errorf("Size = %d", s.Size())
	}
	e, err := s.EntryAt(2)
	if err != nil {
		t.Fatal(err)
	}
	if e.Position != 2 || e.Title != "C" || e.ID != "3" {
		t.Errorf("EntryAt(2) = %+v", e)
	}
	if s.Score(1, 1) != 1 || s.Score(0, 2) != 0 {
		t.Errorf("Score(1,1) = %v, Score(0,2) = %v", s.Score(1, 1), s.Score(0, 2))
	}
}

func TestNew_sizeMismatch(t *testing.T) {
	m, _ := NewMatrix(identity(2))
	s, err := New(threeMovies(), m)
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}
	if s != nil {
		t.Error("no store should be produced on mismatch")
	}
	var die *DataIntegrityError
	if !errors.As(err, &die) {
		t.Errorf("expected *DataIntegrityError, got %T", err)
	}
}

func TestNew_rejectsEmptyAndUntitled(t *testing.T) {
	m, _ := NewMatrix(identity(1))
	if _, err := New(nil, m); !errors.Is(err, ErrDataIntegrity) {
		t.Errorf("empty catalog: got %v", err)
	}
	if _, err := New([]models.CatalogEntry{{ID: "1"}}, m); !errors.Is(err, ErrDataIntegrity) {
		t.Errorf("untitled row: got %v", err)
	}
	if _, err := New(threeMovies(), nil); !errors.Is(err, ErrDataIntegrity) {
		t.Errorf("nil matrix: got %v", err)
	}
}

func TestFindByTitle(t *testing.T) {
	entries := []models.CatalogEntry{
		{ID: "10", Title: "Heat"},
		{ID: "11", Title: "heat"},
		{ID: "12", Title: "Heat"},
	}
	m, _ := NewMatrix(identity(3))
	s, err := New(entries, m)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("first match wins on duplicates", func(t *testing.T) {
		pos, err := s.FindByTitle("Heat")
		if err != nil || pos != 0 {
			t.Errorf("FindByTitle(Heat) = %d, %v; want 0", pos, err)
		}
	})
	t.Run("case sensitive", func(t *testing.T) {
		pos, err := s.FindByTitle("heat")
		if err != nil || pos != 1 {
			t.Errorf("FindByTitle(heat) = %d, %v; want 1", pos, err)
		}
	})
	t.Run("not found", func(t *testing.T) {
		_, err := s.FindByTitle("nonexistent")
		if !errors.Is(err, ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}
	})
}

func TestEntryAt_outOfRange(t *testing.T) {
	m, _ := NewMatrix(identity(3))
	s, _ := New(threeMovies(), m)
	for _, pos := range []int{-1, 3} {
		if _, err := s.EntryAt(pos); !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("EntryAt(%d): expected ErrInvalidIndex, got %v", pos, err)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	movies := filepath.Join(dir, "movies.json")
	matrix := filepath.Join(dir, "similarity.json")
	if err := os.WriteFile(movies, []byte(`[{"movie_id":1,"title":"A"},{"movie_id":2,"title":"B"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(matrix, []byte(`[[1,0.5],[0.5,1]]`), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(movies, matrix)
	if err != nil {
		t.Fatal(err)
	}
	if s.Size() != 2 {
		t.Errorf("Size = %d", s.Size())
	}
	if s.Fingerprint() == "" {
		t.Error("Load should set a fingerprint")
	}
	if got := s.Titles(); got[0] != "A" || got[1] != "B" {
		t.Errorf("Titles = %v", got)
	}
}

func TestLoad_mismatchFailsAtomically(t *testing.T) {
	dir := t.TempDir()
	movies := filepath.Join(dir, "movies.json")
	matrix := filepath.Join(dir, "similarity.json")
	_ = os.WriteFile(movies, []byte(`[{"movie_id":1,"title":"A"},{"movie_id":2,"title":"B"},{"movie_id":3,"title":"C"}]`), 0644)
	_ = os.WriteFile(matrix, []byte(`[[1,0.5],[0.5,1]]`), 0644)

	s, err := Load(movies, matrix)
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}
	if s != nil {
		t.Error("Load must not return a store on mismatch")
	}
}

func TestLoad_missingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "movies.json"), filepath.Join(dir, "similarity.bin"))
	if !errors.Is(err, ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}
}
