package model

import (
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// CrawlSession identifies one crawl invocation. The session ID namespaces
// artifact filenames so that concurrent or repeated crawls over the same
// sources never collide on disk.
//
// Design decision: Sessions are ephemeral. We deliberately don't persist a
// session registry; the random ID alone makes filenames unique, and a
// registry would turn artifact writing into a stateful operation.
type CrawlSession struct {
	// ID is a short random identifier derived from a UUID.
	ID string

	// seq is the next artifact sequence number, advanced atomically so
	// concurrent workers never reuse a sequence.
	seq atomic.Int64
}

// NewCrawlSession creates a session with a fresh random ID.
// The ID is the first UUID block (8 hex chars), short enough for filenames
// while keeping the collision probability negligible per invocation.
func NewCrawlSession() *CrawlSession {
	id := uuid.NewString()
	if i := strings.IndexByte(id, '-'); i > 0 {
		id = id[:i]
	}
	return &CrawlSession{ID: id}
}

// Next returns the next artifact sequence number, starting at 1.
func (s *CrawlSession) Next() int64 {
	return s.seq.Add(1)
}
