package search

import (
	"context"

	"golang.org/x/sync/errgroup"

	"webscout/internal/config"
	"webscout/internal/model"
)

// defaultBatchConcurrency bounds concurrent queries in a batch.
// Providers rate-limit aggressively; four in flight keeps batches fast
// without tripping quota errors on free tiers.
const defaultBatchConcurrency = 4

// BatchQuery is one query within a batch search.
type BatchQuery struct {
	// Query is the search query text.
	Query string `json:"query"`

	// MaxResults is the per-query result cap. Zero or negative means
	// the standard result limit.
	MaxResults int `json:"max_results,omitempty"`

	// Preset names an optional domain preset for this query.
	Preset string `json:"preset,omitempty"`
}

// QueryOutcome is the result of one query within a batch.
type QueryOutcome struct {
	// Query is the query text this outcome belongs to.
	Query string `json:"query"`

	// Results holds the processed results for successful queries.
	Results []model.SearchResult `json:"results,omitempty"`

	// Error is the failure message for failed queries, empty on success.
	Error string `json:"error,omitempty"`
}

// BatchResult aggregates the outcomes of a batch search.
type BatchResult struct {
	// Successful counts queries that completed without error.
	Successful int `json:"successful"`

	// Failed counts queries that returned an error.
	Failed int `json:"failed"`

	// Outcomes holds per-query results in input order.
	Outcomes []QueryOutcome `json:"outcomes"`
}

// BatchSearch runs multiple queries concurrently with bounded parallelism.
//
// Per-query failures are absorbed into the result: a failing query is
// recorded with its error message and counted, and never aborts its
// siblings. The method deliberately has no error return; partial failure
// is the expected steady state for batches.
func (e *Engine) BatchSearch(ctx context.Context, queries []BatchQuery) BatchResult {
	outcomes := make([]QueryOutcome, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultBatchConcurrency)

	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			// MaxResults is optional per query; omission means the
			// standard limit, not a validation failure
			maxResults := q.MaxResults
			if maxResults <= 0 {
				maxResults = config.DefaultMaxResults
			}

			results, err := e.SearchOnly(ctx, q.Query, maxResults, q.Preset)

			outcome := QueryOutcome{Query: q.Query}
			if err != nil {
				outcome.Error = err.Error()
				e.logger.Warn("batch query failed",
					"query", q.Query,
					"error", err,
				)
			} else {
				outcome.Results = results
			}
			outcomes[i] = outcome

			// Errors stay in the outcome; returning them would cancel
			// sibling queries through the errgroup context
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // Goroutines never return errors

	result := BatchResult{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Error != "" {
			result.Failed++
		} else {
			result.Successful++
		}
	}

	return result
}
