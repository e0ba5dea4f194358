package crawler

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"webscout/internal/cache"
	"webscout/internal/config"
	"webscout/internal/fetch"
	"webscout/internal/model"
	"webscout/internal/search"
	"webscout/internal/semantic"
	"webscout/internal/storage"
)

// Scheduler coordinates a crawl session: a fixed worker pool draining a
// shared frontier of tasks seeded from URLs, local files, or search
// results.
type Scheduler struct {
	// fetcher retrieves remote pages.
	fetcher *fetch.Client

	// writer persists accepted artifacts.
	writer storage.ArtifactWriter

	// analyzer scores topic relevance. May be nil or unavailable, in
	// which case all relevance gates pass.
	analyzer *semantic.Analyzer

	// engine seeds discovery-mode crawls from search results.
	engine *search.Engine

	// store caches parsed pages across sessions. Nil disables caching.
	store *cache.Store

	// logger records per-source progress and failures.
	logger *slog.Logger

	// workers is the worker pool size.
	workers int

	// maxDepth bounds link following; model.UnboundedDepth disables it.
	maxDepth int

	// topic gates content when non-empty.
	topic string

	// topicThreshold is the minimum content relevance for persistence.
	topicThreshold float64

	// linkThreshold is the minimum anchor relevance when strict link
	// filtering is engaged (linkThreshold > config.StrictLinkThreshold).
	linkThreshold float64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithMaxDepth sets the link-following depth limit.
// 0 fetches only the seeds; model.UnboundedDepth removes the limit.
func WithMaxDepth(depth int) Option {
	return func(s *Scheduler) {
		s.maxDepth = depth
	}
}

// WithTopic enables content gating against topic with the given
// threshold. Pages scoring below the threshold are not persisted, but
// their links are still followed.
func WithTopic(topic string, threshold float64) Option {
	return func(s *Scheduler) {
		s.topic = topic
		s.topicThreshold = threshold
	}
}

// WithLinkThreshold sets the anchor-text relevance threshold.
// Link filtering engages only above config.StrictLinkThreshold.
func WithLinkThreshold(threshold float64) Option {
	return func(s *Scheduler) {
		s.linkThreshold = threshold
	}
}

// WithAnalyzer sets the relevance analyzer.
func WithAnalyzer(a *semantic.Analyzer) Option {
	return func(s *Scheduler) {
		s.analyzer = a
	}
}

// WithSearchEngine sets the search engine used by Discover.
func WithSearchEngine(e *search.Engine) Option {
	return func(s *Scheduler) {
		s.engine = e
	}
}

// WithPageCache caches parsed pages in the given store so repeated
// crawls within the TTL skip the network.
func WithPageCache(store *cache.Store) Option {
	return func(s *Scheduler) {
		s.store = store
	}
}

// WithSchedulerLogger sets a custom logger.
func WithSchedulerLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScheduler creates a Scheduler over the given fetcher and writer.
func NewScheduler(fetcher *fetch.Client, writer storage.ArtifactWriter, opts ...Option) *Scheduler {
	s := &Scheduler{
		fetcher:        fetcher,
		writer:         writer,
		logger:         slog.Default(),
		workers:        config.DefaultWorkers,
		maxDepth:       config.DefaultMaxDepth,
		topicThreshold: config.DefaultTopicThreshold,
		linkThreshold:  config.DefaultLinkThreshold,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// counters aggregates per-session outcomes across workers.
type counters struct {
	artifacts atomic.Int64
	processed atomic.Int64
	skipped   atomic.Int64
	failed    atomic.Int64
}

// summary converts the counters into a CrawlSummary.
func (c *counters) summary() model.CrawlSummary {
	return model.CrawlSummary{
		ArtifactsEmitted: int(c.artifacts.Load()),
		SourcesProcessed: int(c.processed.Load()),
		SourcesSkipped:   int(c.skipped.Load()),
		SourcesFailed:    int(c.failed.Load()),
	}
}

// Crawl processes the given seed sources and everything reachable from
// them within the depth limit. A summary is returned even on partial
// failure; the error is non-nil only for validation failures and
// context cancellation.
func (s *Scheduler) Crawl(ctx context.Context, seeds []string) (model.CrawlSummary, error) {
	if len(seeds) == 0 {
		return model.CrawlSummary{}, config.ErrNoSources
	}
	if s.workers <= 0 {
		return model.CrawlSummary{}, config.ErrInvalidWorkerCount
	}
	if s.topicThreshold < 0 || s.topicThreshold > 1 || s.linkThreshold < 0 || s.linkThreshold > 1 {
		return model.CrawlSummary{}, config.ErrInvalidThreshold
	}

	session := model.NewCrawlSession()
	visited := NewVisitedSet()
	front := newFrontier()
	var c counters

	for _, seed := range seeds {
		front.Push(model.CrawlTask{Source: seed, Depth: 0})
	}

	// Cancellation releases workers blocked in Pop
	stop := context.AfterFunc(ctx, front.Close)
	defer stop()

	s.logger.Info("starting crawl",
		"session", session.ID,
		"seeds", len(seeds),
		"workers", s.workers,
		"maxDepth", s.maxDepth,
		"topic", s.topic,
	)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				task, ok := front.Pop()
				if !ok {
					return
				}
				s.process(ctx, task, front, visited, session, &c)
				front.Done()
			}
		}()
	}
	wg.Wait()

	summary := c.summary()
	s.logger.Info("crawl finished",
		"session", session.ID,
		"artifacts", summary.ArtifactsEmitted,
		"processed", summary.SourcesProcessed,
		"skipped", summary.SourcesSkipped,
		"failed", summary.SourcesFailed,
	)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// Discover seeds a crawl from search results for query.
func (s *Scheduler) Discover(ctx context.Context, query string, maxResults int, preset string) (model.CrawlSummary, error) {
	if s.engine == nil || !s.engine.HasProviders() {
		return model.CrawlSummary{}, search.ErrNoProvider
	}

	results, err := s.engine.SearchOnly(ctx, query, maxResults, preset)
	if err != nil {
		return model.CrawlSummary{}, err
	}
	if len(results) == 0 {
		s.logger.Warn("discovery found no results", "query", query)
		return model.CrawlSummary{}, nil
	}

	seeds := make([]string, 0, len(results))
	for _, r := range results {
		seeds = append(seeds, r.URL)
	}

	s.logger.Info("discovery seeded crawl", "query", query, "seeds", len(seeds))
	return s.Crawl(ctx, seeds)
}

// process handles one task end to end: claim, load, gate, persist,
// and enqueue children. Failures are counted, never propagated.
func (s *Scheduler) process(ctx context.Context, task model.CrawlTask, front *frontier, visited *VisitedSet, session *model.CrawlSession, c *counters) {
	if ctx.Err() != nil {
		return
	}

	if !visited.CheckAndAdd(task.Source) {
		c.skipped.Add(1)
		return
	}

	if isLocalPath(task.Source) {
		s.processFile(ctx, task, session, c)
		return
	}

	page, err := s.loadPage(ctx, task.Source)
	if err != nil {
		c.failed.Add(1)
		s.logger.Warn("source failed", "source", task.Source, "depth", task.Depth, "error", err)
		return
	}
	c.processed.Add(1)

	relevance, emit := s.gateContent(ctx, page.Text)
	if emit {
		s.emitArtifact(session, task, page, relevance, c)
	} else {
		// Content gated out, but the page still contributes links:
		// an off-topic hub can link to on-topic material
		c.skipped.Add(1)
		s.logger.Debug("content below topic threshold, following links only",
			"source", task.Source,
			"relevance", derefOrNaN(relevance),
		)
	}

	s.enqueueLinks(ctx, task, page.Links, front)
}

// pageData is the parsed form of a fetched page, also the cache payload.
type pageData struct {
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	ContentType string    `json:"content_type"`
	Links       []Link    `json:"links,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// loadPage returns the parsed page for pageURL, from cache when fresh.
func (s *Scheduler) loadPage(ctx context.Context, pageURL string) (*pageData, error) {
	key := cache.Key("page", NormalizeURL(pageURL))

	if s.store != nil {
		var cached pageData
		hit, err := s.store.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("page cache read failed", "source", pageURL, "error", err)
		} else if hit {
			s.logger.Debug("page cache hit", "source", pageURL)
			return &cached, nil
		}
	}

	page, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	data := &pageData{
		ContentType: page.ContentType,
		FetchedAt:   page.FetchedAt,
	}

	if strings.Contains(page.ContentType, "text/html") {
		parser, err := NewParser(pageURL)
		if err == nil {
			if result, err := parser.Parse(bytes.NewReader(page.Body)); err == nil {
				data.Title = result.Title
				data.Text = result.Text
				data.Links = result.Links
			}
		}
	} else {
		// Non-HTML content is stored as-is; there is nothing to link-walk
		data.Text = strings.TrimSpace(string(page.Body))
	}

	if s.store != nil {
		if err := s.store.PutJSON(ctx, key, data); err != nil {
			s.logger.Warn("page cache write failed", "source", pageURL, "error", err)
		}
	}

	return data, nil
}

// processFile handles a local file seed. Files produce artifacts but
// never links: link graphs belong to the web, not the filesystem.
func (s *Scheduler) processFile(ctx context.Context, task model.CrawlTask, session *model.CrawlSession, c *counters) {
	data, err := os.ReadFile(task.Source)
	if err != nil {
		c.failed.Add(1)
		s.logger.Warn("file source failed", "source", task.Source, "error", err)
		return
	}
	c.processed.Add(1)

	page := &pageData{
		ContentType: contentTypeForFile(task.Source),
		Text:        strings.TrimSpace(string(data)),
		FetchedAt:   time.Now(),
	}

	if strings.Contains(page.ContentType, "text/html") {
		if parser, err := NewParser("file://" + task.Source); err == nil {
			if result, err := parser.Parse(bytes.NewReader(data)); err == nil {
				page.Title = result.Title
				page.Text = result.Text
			}
		}
	}

	relevance, emit := s.gateContent(ctx, page.Text)
	if emit {
		s.emitArtifact(session, task, page, relevance, c)
	} else {
		c.skipped.Add(1)
	}
}

// gateContent scores text against the topic and reports whether the
// content should be persisted. Without a topic, or with the analyzer
// unavailable, everything passes (fail open).
func (s *Scheduler) gateContent(ctx context.Context, text string) (*float64, bool) {
	if s.topic == "" || !s.analyzer.Available() {
		return nil, true
	}

	rel := s.analyzer.Score(ctx, s.topic, text)
	if rel.Unavailable {
		return nil, true
	}
	return &rel.Value, rel.Value >= s.topicThreshold
}

// emitArtifact writes one artifact and updates the counters.
func (s *Scheduler) emitArtifact(session *model.CrawlSession, task model.CrawlTask, page *pageData, relevance *float64, c *counters) {
	artifact := &model.Artifact{
		SessionID:   session.ID,
		Sequence:    session.Next(),
		Title:       page.Title,
		Source:      task.Source,
		ContentType: page.ContentType,
		Content:     page.Text,
		FetchedAt:   page.FetchedAt,
		Relevance:   relevance,
	}

	path, err := s.writer.WriteArtifact(artifact)
	if err != nil {
		c.failed.Add(1)
		s.logger.Warn("artifact write failed", "source", task.Source, "error", err)
		return
	}

	c.artifacts.Add(1)
	s.logger.Debug("artifact written", "source", task.Source, "path", path)
}

// enqueueLinks pushes a page's links onto the frontier at depth+1,
// respecting the depth limit and, in strict mode, the anchor relevance
// threshold.
func (s *Scheduler) enqueueLinks(ctx context.Context, task model.CrawlTask, links []Link, front *frontier) {
	childDepth := task.Depth + 1
	if s.maxDepth != model.UnboundedDepth && childDepth > s.maxDepth {
		return
	}

	// Strict link filtering is opt-in via a high threshold: scoring
	// every anchor multiplies embedding calls by the per-page link
	// count, so the common case stays in fast mode
	strict := s.linkThreshold > config.StrictLinkThreshold &&
		s.topic != "" && s.analyzer.Available()

	for _, link := range links {
		if strict && link.Anchor != "" {
			if !s.analyzer.Score(ctx, s.topic, link.Anchor).Meets(s.linkThreshold) {
				continue
			}
		}
		front.Push(model.CrawlTask{Source: link.URL, Depth: childDepth, Parent: task.Source})
	}
}

// isLocalPath reports whether source names a local file rather than a
// remote URL.
func isLocalPath(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return true
	}
	return u.Scheme != "http" && u.Scheme != "https"
}

// contentTypeForFile guesses a content type from the file extension.
func contentTypeForFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "text/html"
	case ".md":
		return "text/markdown"
	case ".json":
		return "application/json"
	default:
		return "text/plain"
	}
}

// derefOrNaN renders an optional score for logging.
func derefOrNaN(v *float64) float64 {
	if v == nil {
		return -1
	}
	return *v
}
