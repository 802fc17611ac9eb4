package domain

import "strings"

// Name-match tiers, mutually exclusive, evaluated in priority order.
// A product falls into exactly one tier per query.
type MatchTier int

const (
	TierExact       MatchTier = iota // name equals query (case-insensitive)
	TierStartsWith                   // name starts with query
	TierContains                     // name contains query
	TierDescription                  // only description matches
	TierFuzzy                        // matched via a synonym variant or token only
)

// ScoringWeights is the tunable relevance weight table. The relative ordering
// exact > starts_with > contains > description > fuzzy must hold, and the
// popularity/featured bonuses must stay small relative to tier gaps.
type ScoringWeights struct {
	Exact          int
	StartsWith     int
	Contains       int
	Description    int
	Fuzzy          int
	PopularityFull int
	PopularityHalf int
	Featured       int
}

// DefaultWeights returns the production weight table.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		Exact:          100,
		StartsWith:     80,
		Contains:       60,
		Description:    30,
		Fuzzy:          20,
		PopularityFull: 10,
		PopularityHalf: 5,
		Featured:       5,
	}
}

// Tier classifies how well the product's name and descriptions match the raw
// query. The first satisfied tier wins.
func (w ScoringWeights) Tier(p *Product, query string) MatchTier {
	name := strings.ToLower(p.Name)
	switch {
	case name == query:
		return TierExact
	case strings.HasPrefix(name, query):
		return TierStartsWith
	case strings.Contains(name, query):
		return TierContains
	case strings.Contains(strings.ToLower(p.Description), query) ||
		strings.Contains(strings.ToLower(p.ShortDescription), query):
		return TierDescription
	default:
		return TierFuzzy
	}
}

// Score computes the relevance score for a product against the raw normalized
// query: the name-match tier weight plus popularity and featured bonuses.
func (w ScoringWeights) Score(p *Product, query string) int {
	var score int
	switch w.Tier(p, query) {
	case TierExact:
		score = w.Exact
	case TierStartsWith:
		score = w.StartsWith
	case TierContains:
		score = w.Contains
	case TierDescription:
		score = w.Description
	default:
		score = w.Fuzzy
	}

	switch {
	case p.ViewCount >= 100:
		score += w.PopularityFull
	case p.ViewCount >= 50:
		score += w.PopularityHalf
	}

	if p.IsFeatured {
		score += w.Featured
	}
	return score
}

// QuerySuggestion is a "did you mean" candidate drawn from past searches.
type QuerySuggestion struct {
	Query      string  `json:"query"`
	Count      int     `json:"count"`
	Similarity float64 `json:"similarity"`
}

// SearchResult is the ranked outcome of one search call. Total counts all
// matches before truncation, not just the returned page.
type SearchResult struct {
	Products    []Product         `json:"products"`
	Total       int               `json:"total"`
	Category    string            `json:"category,omitempty"`
	Suggestions []QuerySuggestion `json:"suggestions"`
}

// Suggestions is the autocomplete response across the three sources.
type Suggestions struct {
	Products   []Product       `json:"products"`
	Categories []Category      `json:"categories"`
	Queries    []PopularSearch `json:"queries"`
}
