package crawler

import (
	"net/url"
	"strings"
	"sync"
)

// VisitedSet tracks which sources a session has already claimed.
// The set is keyed by normalized URL so different spellings of the same
// page collapse to one visit. Safe for concurrent use.
type VisitedSet struct {
	mu      sync.Mutex
	visited map[string]bool
}

// NewVisitedSet creates an empty visited set.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{visited: make(map[string]bool)}
}

// CheckAndAdd claims source for the caller. It returns true exactly once
// per normalized source: the first caller wins, every later caller gets
// false. Check and insert happen under one lock so two workers can never
// both claim the same URL.
func (v *VisitedSet) CheckAndAdd(source string) bool {
	key := NormalizeURL(source)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.visited[key] {
		return false
	}
	v.visited[key] = true
	return true
}

// Len returns the number of distinct sources claimed so far.
func (v *VisitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.visited)
}

// NormalizeURL normalizes a URL for deduplication.
//
// Design decision: We normalize because:
//  1. The same page can have different URL representations
//  2. Fragment (#anchor) doesn't change content
//  3. An empty path and "/" are the same page
//
// Unparseable sources (e.g. local file paths) are returned unchanged so
// they still deduplicate against identical spellings.
func NormalizeURL(source string) string {
	u, err := url.Parse(source)
	if err != nil {
		return source
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Host != "" && u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}
