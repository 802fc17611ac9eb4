package domain

import "time"

// SearchSynonym maps an alternate spelling or typo to its canonical term.
// Uniqueness holds on the (canonical, alternate) pair.
type SearchSynonym struct {
	ID        string    `json:"id"`
	Term      string    `json:"term"`
	Alternate string    `json:"alternate"`
	CreatedAt time.Time `json:"created_at"`
}

// PopularSearch records a normalized query and how often it was searched.
// search_count only ever increments; results_count reflects the last search.
type PopularSearch struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"`
	SearchCount  int       `json:"search_count"`
	ResultsCount int       `json:"results_count"`
	LastSearched time.Time `json:"last_searched"`
}
