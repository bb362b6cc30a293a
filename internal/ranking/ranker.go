// Package ranking selects the most similar catalog positions from a similarity row.
package ranking

import (
	"errors"
	"fmt"
	"math"
)

// DefaultK is the number of recommendations returned when no k is configured.
const DefaultK = 5

// ErrInvalidIndex is returned when a position is outside the similarity matrix.
var ErrInvalidIndex = errors.New("position out of matrix bounds")

// SimilaritySource exposes a square similarity matrix by rows.
type SimilaritySource interface {
	Size() int
	Row(position int) []float32
}

// Scored is a ranked position and its similarity to the query position.
type Scored struct {
	Position int
	Score    float64
}

// Ranker ranks catalog positions by precomputed similarity.
type Ranker struct {
	src SimilaritySource
}

// NewRanker returns a Ranker over src.
func NewRanker(src SimilaritySource) *Ranker {
	return &Ranker{src: src}
}

// TopK returns the k positions most similar to position, excluding position itself.
// Results are ordered by descending score; equal scores keep the lower position first
// and NaN scores rank last. k is capped at Size()-1; k <= 0 returns no results.
func (r *Ranker) TopK(position, k int) ([]Scored, error) {
	n := r.src.Size()
	if position < 0 || position >= n {
		return nil, fmt.Errorf("%w: %d (size %d)", ErrInvalidIndex, position, n)
	}
	if k > n-1 {
		k = n - 1
	}
	if k <= 0 {
		return []Scored{}, nil
	}

	row := r.src.Row(position)
	top := make([]Scored, 0, k+1)
	for j, v := range row {
		if j == position {
			continue
		}
		s := Scored{Position: j, Score: float64(v)}
		if math.IsNaN(s.Score) {
			s.Score = math.Inf(-1)
		}
		if len(top) == k && !better(s, top[k-1]) {
			continue
		}
		// Insert keeping top sorted; positions arrive ascending so ties stay stable.
		i := len(top)
		top = append(top, s)
		for i > 0 && better(s, top[i-1]) {
			top[i] = top[i-1]
			i--
		}
		top[i] = s
		if len(top) > k {
			top = top[:k]
		}
	}
	return top, nil
}

// better orders by score descending, then position ascending.
func better(a, b Scored) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Position < b.Position
}
