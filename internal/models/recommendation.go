package models

// Recommendation is a single similar movie with its metadata.
type Recommendation struct {
	Position int            `json:"position"`
	ID       string         `json:"movie_id"`
	Title    string         `json:"title"`
	Year     int            `json:"year,omitempty"`
	Score    float64        `json:"score"`
	Metadata MetadataRecord `json:"metadata"`
}

// RecommendationResult is the ordered response for one query. Items is empty when
// the queried title could not be found.
type RecommendationResult struct {
	Query     string           `json:"query"`
	Items     []Recommendation `json:"items"`
	Session   string           `json:"session,omitempty"`
	ElapsedMS int64            `json:"elapsed_ms"`
	// Suggestions lists close catalog titles when Query was not found.
	Suggestions []string `json:"suggestions,omitempty"`
}

// Titles returns the recommended titles in rank order.
func (r *RecommendationResult) Titles() []string {
	out := make([]string, len(r.Items))
	for i, item := range r.Items {
		out[i] = item.Title
	}
	return out
}
