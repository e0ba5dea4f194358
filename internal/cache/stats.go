package cache

import (
	"context"
	"fmt"
	"time"
)

// statsDayFormat keys the per-day counters.
const statsDayFormat = "2006-01-02"

// SearchStats summarizes recorded search activity.
type SearchStats struct {
	// TotalSearches is the number of searches recorded across all days.
	TotalSearches int `json:"total_searches"`

	// FirstSearch is when the first search was recorded.
	// Zero when nothing has been recorded yet.
	FirstSearch time.Time `json:"first_search,omitzero"`

	// LastSearch is when the most recent search was recorded.
	LastSearch time.Time `json:"last_search,omitzero"`

	// ByDay maps calendar days ("2006-01-02") to search counts.
	ByDay map[string]int `json:"searches_by_date"`
}

// RecordSearch counts one search against today's counters.
// The per-day UPSERT keeps the whole update a single statement, so
// concurrent workers never lose increments.
func (s *Store) RecordSearch(ctx context.Context) error {
	now := s.now()
	day := now.Format(statsDayFormat)

	query := `
	INSERT INTO search_stats (day, searches, first_at, last_at)
	VALUES (?, 1, ?, ?)
	ON CONFLICT(day) DO UPDATE SET
		searches = searches + 1,
		last_at = excluded.last_at
	`

	if _, err := s.db.ExecContext(ctx, query, day, now.Unix(), now.Unix()); err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// SearchStats returns the accumulated search counters.
func (s *Store) SearchStats(ctx context.Context) (SearchStats, error) {
	stats := SearchStats{ByDay: make(map[string]int)}

	rows, err := s.db.QueryContext(ctx,
		"SELECT day, searches, first_at, last_at FROM search_stats ORDER BY day",
	)
	if err != nil {
		return stats, fmt.Errorf("failed to read search stats: %w", err)
	}
	defer rows.Close()

	var firstAt, lastAt int64
	for rows.Next() {
		var day string
		var searches int
		var dayFirst, dayLast int64
		if err := rows.Scan(&day, &searches, &dayFirst, &dayLast); err != nil {
			return stats, fmt.Errorf("failed to scan search stats row: %w", err)
		}

		stats.ByDay[day] = searches
		stats.TotalSearches += searches
		if firstAt == 0 || dayFirst < firstAt {
			firstAt = dayFirst
		}
		if dayLast > lastAt {
			lastAt = dayLast
		}
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("failed to read search stats: %w", err)
	}

	if firstAt > 0 {
		stats.FirstSearch = time.Unix(firstAt, 0)
	}
	if lastAt > 0 {
		stats.LastSearch = time.Unix(lastAt, 0)
	}
	return stats, nil
}
