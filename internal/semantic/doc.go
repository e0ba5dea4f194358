// Package semantic scores text relevance using embedding similarity.
//
// # Overview
//
// An Analyzer embeds a topic phrase and candidate text through an
// Embedder (by default a local Ollama instance) and reports their cosine
// similarity clamped to [0,1].
//
// # Failing open
//
// Relevance scoring is advisory. When the embedding backend is down or
// errors, Score reports an explicit Unavailable result instead of an
// error or a misleading 0.0, and callers are expected to accept the
// content. A broken local model must never silently discard pages.
package semantic
