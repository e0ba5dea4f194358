// Package storage persists crawl artifacts to disk.
//
// The MarkdownWriter renders each artifact as a standalone markdown
// document with a metadata section, named so that concurrent sessions
// and repeated crawls never collide:
//
//	<session>_<sequence>_<title>_<hash>.md
//
// The session ID namespaces the run, the sequence orders artifacts
// within it, and the content hash suffix disambiguates retries of the
// same source. Writers implement the ArtifactWriter interface so tests
// and future formats can swap the on-disk representation.
package storage
