// Package model defines the shared data structures used across webscout.
//
// The types here are intentionally plain: no behavior beyond small helpers,
// no dependencies on other internal packages. They flow between the search,
// crawler, and storage layers and are safe to serialize as JSON.
//
// Design decision: We keep a dedicated model package rather than defining
// types next to their producers because:
//  1. SearchResult is produced by search providers and consumed by the crawler
//  2. CrawlTask and CrawlSummary cross the crawler/CLI boundary
//  3. A shared package avoids import cycles between those layers
package model
