package models

import "fmt"

// Facet namespaces for member embeddings, plus the catalog namespace.
const (
	NamespaceIntro     = "intro"
	NamespaceInterests = "interests"
	NamespaceJobs      = "mafia42_jobs"
)

// ValidFacet reports whether ns is one of the member facet namespaces.
func ValidFacet(ns string) bool {
	return ns == NamespaceIntro || ns == NamespaceInterests
}

// SearchQuery represents a hybrid profile-search request.
type SearchQuery struct {
	Query          string  `json:"query"`
	Criteria       string  `json:"criteria,omitempty"` // facet namespace; defaults to intro
	Limit          int     `json:"limit,omitempty"`
	Offset         int     `json:"offset,omitempty"`
	KeywordWeight  float64 `json:"keyword_weight,omitempty"`
	SemanticWeight float64 `json:"semantic_weight,omitempty"`
	FuzzyEnabled   bool    `json:"fuzzy_enabled,omitempty"`
	MinScore       float64 `json:"min_score,omitempty"`
}

// Validate ensures the query has valid fields and sets defaults. A query
// shorter than 2 characters is rejected; weights default to an even split.
func (q *SearchQuery) Validate() error {
	if len([]rune(q.Query)) < 2 {
		return fmt.Errorf("query must be at least 2 characters")
	}
	if q.Criteria == "" {
		q.Criteria = NamespaceIntro
	}
	if !ValidFacet(q.Criteria) {
		return fmt.Errorf("unknown criteria %q", q.Criteria)
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.KeywordWeight <= 0 && q.SemanticWeight <= 0 {
		q.KeywordWeight = 0.5
		q.SemanticWeight = 0.5
	}
	return nil
}

// SearchResult is a single profile hit with fused scores.
type SearchResult struct {
	Profile       *Profile `json:"profile"`
	Score         float64  `json:"score"`
	KeywordScore  float64  `json:"keyword_score"`
	SemanticScore float64  `json:"semantic_score"`
	Rank          int      `json:"rank"`
}

// SearchResponse is the response for a profile search request.
type SearchResponse struct {
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"`
	QueryTime int64           `json:"query_time_ms"`
	Query     string          `json:"query"`
	Criteria  string          `json:"criteria"`
}
