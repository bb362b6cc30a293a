package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// PosterStatus tells a shell what happened while resolving metadata, independent
// of which image URL it ends up showing.
type PosterStatus string

const (
	// PosterSuccess means the provider returned a poster path.
	PosterSuccess PosterStatus = "success"
	// PosterMissing means the provider resolved the movie but it has no poster.
	PosterMissing PosterStatus = "no_poster"
	// PosterNotFound means neither the id nor the title search matched a movie.
	PosterNotFound PosterStatus = "not_found"
	// PosterError means the provider could not be reached or answered badly.
	PosterError PosterStatus = "error"
)

// DefaultOverview is used when the provider has no synopsis for a movie.
const DefaultOverview = "No description available."

// Rating is a provider vote average, or unavailable.
type Rating struct {
	Value     float64
	Available bool
}

// RatingOf returns an available rating.
func RatingOf(v float64) Rating {
	return Rating{Value: v, Available: true}
}

// String formats the rating for display ("7.3" or "N/A").
func (r Rating) String() string {
	if !r.Available {
		return "N/A"
	}
	return strconv.FormatFloat(r.Value, 'f', 1, 64)
}

// MarshalJSON encodes an available rating as a number and an unavailable one as "N/A".
func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Available {
		return []byte(`"N/A"`), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON accepts a number, null or "N/A".
func (r *Rating) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `"N/A"` {
		*r = Rating{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("rating: %w", err)
	}
	*r = RatingOf(v)
	return nil
}

// MetadataRecord is the enrichment attached to a recommended movie. Records are
// never mutated after creation.
type MetadataRecord struct {
	Status    PosterStatus `json:"status"`
	PosterURL string       `json:"poster_url"`
	Overview  string       `json:"overview"`
	Rating    Rating       `json:"rating"`
	Genres    []string     `json:"genres"`
	GenreText string       `json:"genre_text"`
}

// JoinGenres joins genre names for display.
func JoinGenres(genres []string) string {
	return strings.Join(genres, ", ")
}
