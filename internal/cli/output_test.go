package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/hyperjump/marquee/internal/models"
)

func sampleResult() *models.RecommendationResult {
	return &models.RecommendationResult{
		Query:     "Avatar",
		ElapsedMS: 42,
		Items: []models.Recommendation{
			{
				Position: 1, ID: "679", Title: "Aliens", Year: 1986, Score: 0.91,
				Metadata: models.MetadataRecord{
					Status:    models.PosterSuccess,
					PosterURL: "https://image.tmdb.org/t/p/w500/aliens.jpg",
					Overview:  "Ripley returns.",
					Rating:    models.RatingOf(7.9),
					Genres:    []string{"Action", "Science Fiction"},
					GenreText: "Action, Science Fiction",
				},
			},
			{
				Position: 2, ID: "42", Title: "Obscure", Score: 0.5,
				Metadata: models.MetadataRecord{
					Status:    models.PosterError,
					PosterURL: "https://placeholder/error",
					Overview:  "(API error: boom)",
					Genres:    []string{},
				},
			},
		},
	}
}

func TestParseOutputFormat(t *testing.T) {
	for _, s := range []string{"text", "compact", "json", " JSON "} {
		if _, err := ParseOutputFormat(s); err != nil {
			t.Errorf("ParseOutputFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseOutputFormat("yaml"); err == nil {
		t.Error("expected error for yaml")
	}
}

func TestWriteRecommendations_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, sampleResult(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`Movies similar to "Avatar" (2 results in 42ms)`,
		"1. Aliens (1986) | Similarity: 0.9100",
		"Rating: 7.9 | Genres: Action, Science Fiction",
		"2. Obscure | Similarity: 0.5000",
		"Rating: N/A",
		"(API error: boom)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteRecommendations_notFound(t *testing.T) {
	var buf bytes.Buffer
	res := &models.RecommendationResult{Query: "Avatr", Items: []models.Recommendation{}, Suggestions: []string{"Avatar"}}
	if err := WriteRecommendations(&buf, res, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `No movie titled "Avatr"`) || !strings.Contains(out, "Did you mean: Avatar?") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestWriteRecommendations_compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, sampleResult(), OutputCompact); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "1\tAliens\t1986\t0.9100\t7.9\tAction, Science Fiction" {
		t.Errorf("line 1 = %q", lines[0])
	}
	if lines[1] != "2\tObscure\t-\t0.5000\tN/A\t" {
		t.Errorf("line 2 = %q", lines[1])
	}
}

func TestWriteRecommendations_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecommendations(&buf, sampleResult(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.RecommendationResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Query != "Avatar" || len(decoded.Items) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Items[1].Metadata.Rating.Available {
		t.Error("unavailable rating should survive the round trip")
	}
}

func TestWriteTitles(t *testing.T) {
	entries := []models.CatalogEntry{
		{Position: 0, ID: "19995", Title: "Avatar", Year: 2009},
		{Position: 7, ID: "1", Title: "Untitled"},
	}
	var buf bytes.Buffer
	if err := WriteTitles(&buf, entries, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Avatar (2009)") || !strings.Contains(buf.String(), "     7  Untitled\n") {
		t.Errorf("text output:\n%s", buf.String())
	}

	buf.Reset()
	if err := WriteTitles(&buf, entries, OutputCompact); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "0\t19995\tAvatar\t2009\n") {
		t.Errorf("compact output:\n%s", buf.String())
	}
}
