package model

import "time"

// Artifact is a retrieved document ready to be persisted.
// The crawler assembles one artifact per accepted page; the storage layer
// decides the on-disk representation.
type Artifact struct {
	// SessionID is the crawl session that produced this artifact.
	SessionID string `json:"session_id"`

	// Sequence is the per-session ordinal assigned by CrawlSession.Next.
	Sequence int64 `json:"sequence"`

	// Title is the document title. May be empty; the storage layer derives
	// a fallback from Source when it is.
	Title string `json:"title"`

	// Source is the URL or file path the content was retrieved from.
	Source string `json:"source"`

	// ContentType is the MIME type reported by the server, or a guess for
	// local files.
	ContentType string `json:"content_type"`

	// Content is the extracted plain text of the document.
	Content string `json:"content"`

	// FetchedAt is when the content was retrieved.
	FetchedAt time.Time `json:"fetched_at"`

	// Relevance is the topic similarity score in [0,1], nil when no topic
	// was set or the relevance service was unavailable.
	Relevance *float64 `json:"relevance,omitempty"`
}
