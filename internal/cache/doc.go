// Package cache provides a persistent TTL cache backed by SQLite.
//
// # Overview
//
// The cache stores opaque payloads (search responses, fetched page
// metadata) keyed by a deterministic hash of the request that produced
// them. Entries expire after a per-entry TTL and the store enforces a
// maximum entry count by evicting the oldest entries in bulk.
//
// # Corruption handling
//
// The cache is an optimization, never a source of truth. Entries that
// fail to decode are deleted and reported as a miss rather than
// surfacing an error, so one corrupt row can never wedge the tool.
//
// # Concurrency
//
// A Store is safe for concurrent use. SQLite's WAL mode plus UPSERT
// writes give last-writer-wins semantics across goroutines and across
// processes sharing the same cache directory.
package cache
