// Package models holds the data types shared by the catalog, resolver and API layers.
package models

// CatalogEntry is one row of the movie catalog. Position indexes both the catalog
// table and the similarity matrix.
type CatalogEntry struct {
	Position int    `json:"position"`
	ID       string `json:"movie_id"`
	Title    string `json:"title"`
	Year     int    `json:"year,omitempty"` // 0 when unknown
}
