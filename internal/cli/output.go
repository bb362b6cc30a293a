// Package cli provides output formatting and an HTTP client for the marquee CLI.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/hyperjump/marquee/internal/models"
	"github.com/hyperjump/marquee/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one line per item, tab separated.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const overviewWidth = 200

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

// WriteRecommendations writes result to w in the given format.
func WriteRecommendations(w io.Writer, result *models.RecommendationResult, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, result)
	case OutputCompact:
		for i, item := range result.Items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%.4f\t%s\t%s\n",
				i+1, item.Title, yearText(item.Year), item.Score, item.Metadata.Rating, item.Metadata.GenreText)
		}
		return nil
	default:
		writeRecommendationsText(w, result)
		return nil
	}
}

func writeRecommendationsText(w io.Writer, result *models.RecommendationResult) {
	if len(result.Items) == 0 {
		fmt.Fprintf(w, "\nNo movie titled %q in the catalog.\n", result.Query)
		if len(result.Suggestions) > 0 {
			fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(result.Suggestions, ", "))
		}
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "\nMovies similar to %q (%d results in %dms)\n\n", result.Query, len(result.Items), result.ElapsedMS)
	for i, item := range result.Items {
		md := item.Metadata
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "%d. %s", i+1, item.Title)
		if item.Year > 0 {
			fmt.Fprintf(w, " (%d)", item.Year)
		}
		fmt.Fprintf(w, " | Similarity: %.4f\n", item.Score)
		fmt.Fprintf(w, "Rating: %s", md.Rating)
		if md.GenreText != "" {
			fmt.Fprintf(w, " | Genres: %s", md.GenreText)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Poster: %s\n", md.PosterURL)
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(md.Overview, overviewWidth))
	}
}

// WriteTitles writes catalog entries, one per line in text and compact formats.
func WriteTitles(w io.Writer, entries []models.CatalogEntry, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, entries)
	}
	for _, e := range entries {
		if format == OutputCompact {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Position, e.ID, e.Title, yearText(e.Year))
			continue
		}
		if e.Year > 0 {
			fmt.Fprintf(w, "%6d  %s (%d)\n", e.Position, e.Title, e.Year)
		} else {
			fmt.Fprintf(w, "%6d  %s\n", e.Position, e.Title)
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func yearText(year int) string {
	if year <= 0 {
		return "-"
	}
	return fmt.Sprint(year)
}
