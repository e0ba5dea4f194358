// Package crawler discovers and retrieves web content from seed sources.
//
// # Architecture
//
// The crawler is built around three pieces:
//
//   - Scheduler: runs a fixed pool of workers that drain a shared frontier
//   - frontier: a blocking FIFO of crawl tasks with drain detection
//   - VisitedSet: normalized-URL deduplication with atomic check-and-add
//
// Workers pop a task, fetch and parse the page, optionally gate the
// content on topic relevance, emit an artifact, and push the page's
// links back onto the frontier at depth+1. A task's links are enqueued
// only after the task itself was processed, so depth grows causally
// from the seeds.
//
// # Termination
//
// Every URL is fetched at most once per session (VisitedSet), so the
// frontier drains even on cyclic link graphs and even with unbounded
// depth. The frontier tracks in-flight tasks; when the queue is empty
// and nothing is in flight, all workers unblock and exit.
//
// # Failure handling
//
// A failing source is counted and logged, never fatal: the session
// continues and the final summary reports processed, skipped, and
// failed counts alongside the artifacts written.
package crawler
