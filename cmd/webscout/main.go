// Package main provides the entry point for the webscout CLI.
//
// webscout is a research assistant that crawls the web for content on a
// topic. It combines seeded crawling, search-engine discovery, and
// embedding-based relevance filtering, and writes what it finds as
// markdown documents.
//
// Usage:
//
//	webscout crawl https://example.com/docs
//	webscout crawl --search "go concurrency patterns" --topic "goroutines"
//	webscout search "sqlite write-ahead log"
//
// See --help for all available options.
package main

// main is the entry point for webscout.
func main() {
	Execute()
}
