package model

// UnboundedDepth is the sentinel depth meaning "no depth limit".
// Termination is still guaranteed on finite link graphs because every
// URL is fetched at most once per session.
const UnboundedDepth = -1

// CrawlTask is a single unit of crawl work: one source at one depth.
//
// Design decision: Tasks are immutable values. The scheduler never mutates
// a task after enqueueing it; following a link creates a new task with
// Depth+1. This keeps the frontier free of shared mutable state.
type CrawlTask struct {
	// Source is the URL or local file path to process.
	Source string `json:"source"`

	// Depth is the distance from the seed that produced this task.
	// Seeds are depth 0.
	Depth int `json:"depth"`

	// Parent is the source that linked to this task, empty for seeds.
	Parent string `json:"parent,omitempty"`
}

// CrawlSummary reports the outcome of a crawl session.
// A summary is always produced, even when individual sources failed.
type CrawlSummary struct {
	// ArtifactsEmitted counts documents written by the artifact writer.
	ArtifactsEmitted int `json:"artifacts_emitted"`

	// SourcesProcessed counts sources fetched and parsed successfully,
	// whether or not they passed the topic gate.
	SourcesProcessed int `json:"sources_processed"`

	// SourcesSkipped counts duplicate sources and pages rejected by the
	// topic gate. Skipped is not an error condition.
	SourcesSkipped int `json:"sources_skipped"`

	// SourcesFailed counts sources that could not be fetched or parsed.
	SourcesFailed int `json:"sources_failed"`
}
