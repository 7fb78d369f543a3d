package strsift

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/strsift/strsift/strsift/metrics"
	"github.com/strsift/strsift/strsift/planner"
	"github.com/strsift/strsift/strsift/query"
	"github.com/strsift/strsift/strsift/textstat"
)

// DefaultSearchConcurrency bounds SearchMany when Options leave it unset.
const DefaultSearchConcurrency = 4

// FilterParams are the structured attribute filters accepted by Filter.
type FilterParams = planner.FilterParams

// Options configures store behavior
type Options struct {
	Now   func() time.Time
	Parse query.Options
	// Resolver overrides the synonym tables; nil uses query.NewResolver.
	Resolver          *query.Resolver
	SearchConcurrency int
	// Logger receives store events; nil discards them.
	Logger  *zerolog.Logger
	Metrics *metrics.Collectors
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		Now:               time.Now,
		Parse:             query.DefaultOptions(),
		SearchConcurrency: DefaultSearchConcurrency,
	}
}

// Record is a stored string with its derived properties.
type Record struct {
	ID         string              `json:"id"`
	Value      string              `json:"value"`
	Properties textstat.Properties `json:"properties"`
	CreatedAt  time.Time           `json:"created_at"`
}

// PutResult reports the outcome of PutMany.
type PutResult struct {
	Stored  []Record `json:"stored"`
	Skipped []string `json:"skipped"`
}

// SearchOptions configures a Search or Filter call
type SearchOptions struct {
	// Limit caps the records returned; zero means all.
	Limit   int
	Explain bool
}

// InterpretedQuery describes how a natural-language query was read.
type InterpretedQuery struct {
	Original   string          `json:"original"`
	Normalized string          `json:"normalized"`
	Condition  query.Condition `json:"parsed_filters"`
}

// SearchResult holds the records matching a query or filter.
type SearchResult struct {
	Records []Record          `json:"data"`
	Count   int               `json:"count"`
	Query   *InterpretedQuery `json:"interpreted_query,omitempty"`
	Explain *Explanation      `json:"explain,omitempty"`
}

// Explanation exposes every stage of a compiled query.
type Explanation struct {
	Normalized string           `json:"normalized,omitempty"`
	Condition  query.Condition  `json:"condition,omitempty"`
	Pushdown   string           `json:"pushdown"`
	SQL        string           `json:"sql"`
	Args       []any            `json:"args"`
	PostFilter []query.Contains `json:"post_filter"`
	Steps      []string         `json:"steps,omitempty"`
}
