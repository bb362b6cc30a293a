package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/marquee/internal/models"
	"github.com/hyperjump/marquee/internal/storage"
)

// ReadEntries reads a catalog table from path. The format follows the extension:
// .json, .csv, .xlsx, or .db/.sqlite (a table written by storage.SQLiteCatalog).
// Positions in the result are assigned in table order.
func ReadEntries(path string) ([]models.CatalogEntry, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var (
		entries []models.CatalogEntry
		err     error
	)
	switch ext {
	case ".json":
		entries, err = readJSONEntries(path)
	case ".csv":
		entries, err = readCSVEntries(path)
	case ".xlsx":
		entries, err = readExcelEntries(path)
	case ".db", ".sqlite", ".sqlite3":
		entries, err = readSQLiteEntries(path)
	default:
		return nil, integrityErrorf(nil, "unsupported catalog format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Position = i
	}
	return entries, nil
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if string(data) == "null" {
		*f = ""
		return nil
	}
	*f = flexString(data)
	return nil
}

type jsonRecord struct {
	MovieID     flexString `json:"movie_id"`
	ID          flexString `json:"id"`
	Title       string     `json:"title"`
	Year        flexString `json:"year"`
	ReleaseDate string     `json:"release_date"`
}

func (r jsonRecord) entry() (models.CatalogEntry, error) {
	id := string(r.MovieID)
	if id == "" {
		id = string(r.ID)
	}
	year, err := parseYear(string(r.Year), r.ReleaseDate)
	if err != nil {
		return models.CatalogEntry{}, err
	}
	return models.CatalogEntry{ID: id, Title: r.Title, Year: year}, nil
}

// readJSONEntries accepts an array of records or the column-oriented shape
// {"movie_id": {"0": ...}, "title": {"0": ...}}.
func readJSONEntries(path string) ([]models.CatalogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, integrityErrorf(err, "read catalog")
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var records []jsonRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, integrityErrorf(err, "parse catalog")
		}
		entries := make([]models.CatalogEntry, 0, len(records))
		for i, rec := range records {
			e, err := rec.entry()
			if err != nil {
				return nil, integrityErrorf(err, "catalog row %d", i)
			}
			entries = append(entries, e)
		}
		return entries, nil
	}

	var columns map[string]map[string]flexString
	if err := json.Unmarshal(data, &columns); err != nil {
		return nil, integrityErrorf(err, "parse catalog")
	}
	return columnsToEntries(columns)
}

func columnsToEntries(columns map[string]map[string]flexString) ([]models.CatalogEntry, error) {
	ids, ok := columns["movie_id"]
	if !ok {
		ids, ok = columns["id"]
	}
	titles, hasTitles := columns["title"]
	if !ok || !hasTitles {
		return nil, integrityErrorf(nil, "catalog needs movie_id and title columns")
	}
	if len(ids) != len(titles) {
		return nil, integrityErrorf(nil, "catalog columns differ in length: %d ids, %d titles", len(ids), len(titles))
	}

	keys := make([]string, 0, len(titles))
	for k := range titles {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})

	years := columns["year"]
	dates := columns["release_date"]
	entries := make([]models.CatalogEntry, 0, len(keys))
	for _, k := range keys {
		id, ok := ids[k]
		if !ok {
			return nil, integrityErrorf(nil, "catalog row %s has no movie_id", k)
		}
		year, err := parseYear(string(years[k]), string(dates[k]))
		if err != nil {
			return nil, integrityErrorf(err, "catalog row %s", k)
		}
		entries = append(entries, models.CatalogEntry{ID: string(id), Title: string(titles[k]), Year: year})
	}
	return entries, nil
}

func readCSVEntries(path string) ([]models.CatalogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, integrityErrorf(err, "open catalog")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, integrityErrorf(err, "parse catalog")
		}
		rows = append(rows, rec)
	}
	return tableToEntries(rows)
}

func readExcelEntries(path string) ([]models.CatalogEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, integrityErrorf(err, "open catalog workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, integrityErrorf(nil, "catalog workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, integrityErrorf(err, "get rows for sheet %q", sheets[0])
	}
	return tableToEntries(rows)
}

func readSQLiteEntries(path string) ([]models.CatalogEntry, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, integrityErrorf(err, "open catalog database")
	}
	db, err := storage.NewSQLiteCatalog(path)
	if err != nil {
		return nil, integrityErrorf(err, "open catalog database")
	}
	defer db.Close()
	entries, err := db.ListMovies(context.Background())
	if err != nil {
		return nil, integrityErrorf(err, "list catalog movies")
	}
	return entries, nil
}

// tableToEntries maps a header row plus data rows (CSV or spreadsheet) to entries.
func tableToEntries(rows [][]string) ([]models.CatalogEntry, error) {
	if len(rows) == 0 {
		return nil, integrityErrorf(nil, "catalog table is empty")
	}
	col := map[string]int{}
	for i, name := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idCol, ok := col["movie_id"]
	if !ok {
		idCol, ok = col["id"]
	}
	titleCol, hasTitle := col["title"]
	if !ok || !hasTitle {
		return nil, integrityErrorf(nil, "catalog header needs movie_id and title columns")
	}
	yearCol, hasYear := col["year"]
	dateCol, hasDate := col["release_date"]

	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	entries := make([]models.CatalogEntry, 0, len(rows)-1)
	for n, row := range rows[1:] {
		var yearText, dateText string
		if hasYear {
			yearText = cell(row, yearCol)
		}
		if hasDate {
			dateText = cell(row, dateCol)
		}
		year, err := parseYear(yearText, dateText)
		if err != nil {
			return nil, integrityErrorf(err, "catalog row %d", n+1)
		}
		entries = append(entries, models.CatalogEntry{
			ID:    cell(row, idCol),
			Title: cell(row, titleCol),
			Year:  year,
		})
	}
	return entries, nil
}

// parseYear reads an explicit year, falling back to the leading year of a
// YYYY-MM-DD release date. Empty input yields 0.
func parseYear(year, releaseDate string) (int, error) {
	year = strings.TrimSpace(year)
	if year != "" {
		f, err := strconv.ParseFloat(year, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid year %q", year)
		}
		return int(f), nil
	}
	if len(releaseDate) >= 4 {
		if y, err := strconv.Atoi(releaseDate[:4]); err == nil {
			return y, nil
		}
	}
	return 0, nil
}
