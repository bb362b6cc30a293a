// Package keyword provides an in-memory Bleve index over catalog titles for type-ahead
// search and "did you mean" suggestions.
package keyword

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
)

const defaultFuzziness = 2

// Hit is a title search result.
type Hit struct {
	Position int
	Title    string
	Score    float64
}

type titleDoc struct {
	Title string `json:"title"`
}

// TitleIndex is a read-only title index built once per catalog load.
type TitleIndex struct {
	index  bleve.Index
	titles []string
}

// NewTitleIndex indexes titles by position.
func NewTitleIndex(titles []string) (*TitleIndex, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	titleField := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so partial words match as typed.
	titleField.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("title", titleField)
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create title index: %w", err)
	}

	batch := index.NewBatch()
	for i, title := range titles {
		if err := batch.Index(strconv.Itoa(i), titleDoc{Title: title}); err != nil {
			_ = index.Close()
			return nil, fmt.Errorf("failed to index title %q: %w", title, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("failed to build title index: %w", err)
	}

	return &TitleIndex{index: index, titles: append([]string(nil), titles...)}, nil
}

// Search returns up to limit titles matching query. Without fuzzy, every term must match
// and the last term is treated as a prefix. With fuzzy, each term may be up to two edits
// away and any term may match.
func (t *TitleIndex) Search(query string, limit int, fuzzy bool) ([]Hit, error) {
	terms := tokenize(query)
	if len(terms) == 0 || limit <= 0 {
		return []Hit{}, nil
	}

	var q blevequery.Query
	if fuzzy {
		q = fuzzyQuery(terms, defaultFuzziness)
	} else {
		q = prefixQuery(terms)
	}
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	res, err := t.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("title search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		pos, err := strconv.Atoi(h.ID)
		if err != nil || pos < 0 || pos >= len(t.titles) {
			continue
		}
		hits = append(hits, Hit{Position: pos, Title: t.titles[pos], Score: h.Score})
	}
	return hits, nil
}

// Suggest returns up to n distinct catalog titles closest to title, nearest edit
// distance first.
func (t *TitleIndex) Suggest(title string, n int) ([]string, error) {
	if n <= 0 {
		return []string{}, nil
	}
	hits, err := t.Search(title, max(n*4, 20), true)
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(strings.TrimSpace(title))
	type candidate struct {
		Hit
		distance int
	}
	seen := make(map[string]struct{}, len(hits))
	cands := make([]candidate, 0, len(hits))
	for _, h := range hits {
		if _, dup := seen[h.Title]; dup {
			continue
		}
		seen[h.Title] = struct{}{}
		cands = append(cands, candidate{Hit: h, distance: Distance(want, strings.ToLower(h.Title))})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].distance != cands[j].distance {
			return cands[i].distance < cands[j].distance
		}
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].Position < cands[j].Position
	})

	if len(cands) > n {
		cands = cands[:n]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Title
	}
	return out, nil
}

// Len returns the number of indexed titles.
func (t *TitleIndex) Len() int {
	return len(t.titles)
}

// Close releases the index.
func (t *TitleIndex) Close() error {
	return t.index.Close()
}

func tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

func prefixQuery(terms []string) blevequery.Query {
	queries := make([]blevequery.Query, 0, len(terms))
	for i, term := range terms {
		if i == len(terms)-1 {
			pq := bleve.NewPrefixQuery(term)
			pq.SetField("title")
			queries = append(queries, pq)
			continue
		}
		mq := bleve.NewMatchQuery(term)
		mq.SetField("title")
		queries = append(queries, mq)
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

func fuzzyQuery(terms []string, fuzziness int) blevequery.Query {
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		fq.SetField("title")
		queries = append(queries, fq)
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewDisjunctionQuery(queries...)
}
