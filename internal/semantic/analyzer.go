package semantic

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"webscout/internal/cache"
)

// maxCachedEmbeddings bounds the in-memory embedding cache.
// Anchor texts repeat heavily within a site (navigation, footers), so a
// modest cache eliminates most repeat embedding calls without growing
// unbounded on long crawls.
const maxCachedEmbeddings = 1000

// maxExcerptLen is how much of a document is embedded for scoring.
// Embedding models truncate long inputs anyway; the opening of a page
// carries most of its topical signal.
const maxExcerptLen = 2000

// Relevance is the outcome of scoring text against a topic.
//
// Design decision: Unavailability is a distinct state, not a zero score.
// A 0.0 means "judged irrelevant" and gates content; Unavailable means
// "could not judge" and callers fail open. Conflating the two would make
// a downed embedding backend silently discard every page.
type Relevance struct {
	// Value is the similarity score in [0,1]. Meaningless when
	// Unavailable is true.
	Value float64

	// Unavailable reports that the score could not be computed.
	Unavailable bool
}

// Meets reports whether the relevance passes the given threshold.
// An unavailable score always passes: relevance filtering fails open.
func (r Relevance) Meets(threshold float64) bool {
	if r.Unavailable {
		return true
	}
	return r.Value >= threshold
}

// Analyzer scores text relevance against topics.
// It memoizes embeddings in a bounded FIFO cache keyed by text hash.
// Safe for concurrent use.
type Analyzer struct {
	// embedder produces vectors. Nil means the analyzer is unavailable.
	embedder Embedder

	// logger records embedding failures at debug level.
	logger *slog.Logger

	// mu guards the embedding cache.
	mu sync.Mutex

	// embeddings maps text hashes to cached vectors.
	embeddings map[string][]float64

	// order tracks cache insertion order for FIFO eviction.
	order []string
}

// NewAnalyzer creates an Analyzer over the given embedder.
// A nil embedder yields an analyzer whose scores are always Unavailable,
// which lets callers wire the analyzer unconditionally.
func NewAnalyzer(embedder Embedder, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		embedder:   embedder,
		logger:     logger,
		embeddings: make(map[string][]float64),
	}
}

// Available reports whether the analyzer can produce scores at all.
func (a *Analyzer) Available() bool {
	return a != nil && a.embedder != nil
}

// Score computes the similarity of text to topic.
// Long texts are truncated to their opening excerpt before embedding.
// Any embedding failure yields an Unavailable result, never an error.
func (a *Analyzer) Score(ctx context.Context, topic, text string) Relevance {
	if !a.Available() || topic == "" || text == "" {
		return Relevance{Unavailable: true}
	}

	if len(text) > maxExcerptLen {
		text = text[:maxExcerptLen]
	}

	topicVec, err := a.embed(ctx, topic)
	if err != nil {
		a.logger.Debug("topic embedding failed, scoring unavailable", "error", err)
		return Relevance{Unavailable: true}
	}

	textVec, err := a.embed(ctx, text)
	if err != nil {
		a.logger.Debug("text embedding failed, scoring unavailable", "error", err)
		return Relevance{Unavailable: true}
	}

	return Relevance{Value: CosineSimilarity(topicVec, textVec)}
}

// embed returns the embedding for text, using the cache when possible.
func (a *Analyzer) embed(ctx context.Context, text string) ([]float64, error) {
	key := cache.Key(text)

	a.mu.Lock()
	if vec, ok := a.embeddings[key]; ok {
		a.mu.Unlock()
		return vec, nil
	}
	a.mu.Unlock()

	vec, err := a.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.embeddings[key]; !ok {
		// FIFO eviction keeps the cache bounded; recency tracking isn't
		// worth the bookkeeping for short-lived CLI sessions
		if len(a.order) >= maxCachedEmbeddings {
			oldest := a.order[0]
			a.order = a.order[1:]
			delete(a.embeddings, oldest)
		}
		a.embeddings[key] = vec
		a.order = append(a.order, key)
	}

	return vec, nil
}

// CosineSimilarity returns the cosine similarity of two vectors clamped
// to [0,1]. Mismatched or zero-magnitude vectors score 0. Negative raw
// cosine values are clamped rather than rescaled: for natural-language
// embeddings they indicate irrelevance, which is what 0 means here.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(magA) * math.Sqrt(magB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
