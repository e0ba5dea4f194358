package crawler

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestVisitedSetCheckAndAdd(t *testing.T) {
	t.Parallel()

	v := NewVisitedSet()

	if !v.CheckAndAdd("https://example.com/page") {
		t.Error("first CheckAndAdd() = false, want true")
	}
	if v.CheckAndAdd("https://example.com/page") {
		t.Error("second CheckAndAdd() = true, want false")
	}
	if v.Len() != 1 {
		t.Errorf("Len() = %d, want 1", v.Len())
	}
}

func TestVisitedSetCollapsesSpellings(t *testing.T) {
	t.Parallel()

	v := NewVisitedSet()

	if !v.CheckAndAdd("https://Example.COM") {
		t.Fatal("first spelling not claimed")
	}

	for _, dup := range []string{
		"https://example.com/",
		"https://example.com#section",
		"HTTPS://EXAMPLE.COM/",
	} {
		if v.CheckAndAdd(dup) {
			t.Errorf("CheckAndAdd(%q) = true, want false for a duplicate spelling", dup)
		}
	}
	if v.Len() != 1 {
		t.Errorf("Len() = %d, want 1", v.Len())
	}
}

func TestVisitedSetConcurrentClaim(t *testing.T) {
	t.Parallel()

	v := NewVisitedSet()
	var wins atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v.CheckAndAdd("https://example.com/contested") {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("%d workers claimed the same URL, want exactly 1", wins.Load())
	}
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "lowercases scheme and host",
			source: "HTTPS://Example.COM/Path",
			want:   "https://example.com/Path",
		},
		{
			name:   "drops fragment",
			source: "https://example.com/page#section",
			want:   "https://example.com/page",
		},
		{
			name:   "empty path becomes root",
			source: "https://example.com",
			want:   "https://example.com/",
		},
		{
			name:   "local path unchanged",
			source: "/notes/reading_list.txt",
			want:   "/notes/reading_list.txt",
		},
		{
			name:   "query preserved",
			source: "https://example.com/search?q=go",
			want:   "https://example.com/search?q=go",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeURL(tt.source); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}
