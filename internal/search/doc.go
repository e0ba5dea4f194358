// Package search aggregates web search across multiple providers.
//
// # Architecture
//
// Providers implement the small Provider interface; the Engine owns an
// ordered provider list and layers the cross-cutting behavior on top:
//
//   - result caching with TTL (internal/cache)
//   - in-flight deduplication of identical queries (singleflight)
//   - primary/fallback provider ordering with result supplementation
//   - URL deduplication across providers
//   - junk-domain removal, preset domain filtering, and quality ranking
//
// # Failure semantics
//
// A provider failing is routine: the engine falls back to the next
// provider and only errors when no provider yields results. Batch search
// goes further and absorbs per-query failures into counts so one bad
// query never aborts its siblings. The only hard failures are validation
// errors (empty query, non-positive result count, unknown preset) and
// having no providers configured at all.
package search
