package cache

import (
	"context"
	"testing"
	"time"
)

func TestSearchStatsEmpty(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t, time.Hour)

	stats, err := s.SearchStats(context.Background())
	if err != nil {
		t.Fatalf("SearchStats() error = %v", err)
	}
	if stats.TotalSearches != 0 {
		t.Errorf("TotalSearches = %d, want 0", stats.TotalSearches)
	}
	if !stats.FirstSearch.IsZero() {
		t.Errorf("FirstSearch = %v, want zero", stats.FirstSearch)
	}
	if !stats.LastSearch.IsZero() {
		t.Errorf("LastSearch = %v, want zero", stats.LastSearch)
	}
	if len(stats.ByDay) != 0 {
		t.Errorf("ByDay = %v, want empty", stats.ByDay)
	}
}

func TestRecordSearchIncrements(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.RecordSearch(ctx); err != nil {
			t.Fatalf("RecordSearch() error = %v", err)
		}
	}

	stats, err := s.SearchStats(ctx)
	if err != nil {
		t.Fatalf("SearchStats() error = %v", err)
	}
	if stats.TotalSearches != 3 {
		t.Errorf("TotalSearches = %d, want 3", stats.TotalSearches)
	}
	if len(stats.ByDay) != 1 {
		t.Fatalf("ByDay has %d days, want 1", len(stats.ByDay))
	}
	day := s.now().Format(statsDayFormat)
	if stats.ByDay[day] != 3 {
		t.Errorf("ByDay[%q] = %d, want 3", day, stats.ByDay[day])
	}
}

func TestRecordSearchSplitsByDay(t *testing.T) {
	t.Parallel()

	s, now := openTestStore(t, time.Hour)
	ctx := context.Background()

	if err := s.RecordSearch(ctx); err != nil {
		t.Fatalf("RecordSearch() error = %v", err)
	}
	firstDay := now.Format(statsDayFormat)

	*now = now.Add(24 * time.Hour)
	for i := 0; i < 2; i++ {
		if err := s.RecordSearch(ctx); err != nil {
			t.Fatalf("RecordSearch() error = %v", err)
		}
	}
	secondDay := now.Format(statsDayFormat)

	stats, err := s.SearchStats(ctx)
	if err != nil {
		t.Fatalf("SearchStats() error = %v", err)
	}
	if stats.TotalSearches != 3 {
		t.Errorf("TotalSearches = %d, want 3", stats.TotalSearches)
	}
	if stats.ByDay[firstDay] != 1 {
		t.Errorf("ByDay[%q] = %d, want 1", firstDay, stats.ByDay[firstDay])
	}
	if stats.ByDay[secondDay] != 2 {
		t.Errorf("ByDay[%q] = %d, want 2", secondDay, stats.ByDay[secondDay])
	}
}

func TestSearchStatsFirstAndLast(t *testing.T) {
	t.Parallel()

	s, now := openTestStore(t, time.Hour)
	ctx := context.Background()

	first := *now
	if err := s.RecordSearch(ctx); err != nil {
		t.Fatalf("RecordSearch() error = %v", err)
	}

	*now = now.Add(48 * time.Hour)
	last := *now
	if err := s.RecordSearch(ctx); err != nil {
		t.Fatalf("RecordSearch() error = %v", err)
	}

	stats, err := s.SearchStats(ctx)
	if err != nil {
		t.Fatalf("SearchStats() error = %v", err)
	}
	if got, want := stats.FirstSearch.Unix(), first.Unix(); got != want {
		t.Errorf("FirstSearch = %d, want %d", got, want)
	}
	if got, want := stats.LastSearch.Unix(), last.Unix(); got != want {
		t.Errorf("LastSearch = %d, want %d", got, want)
	}
}
