package search

import (
	"strings"

	"webscout/internal/model"
)

// QualityScorer assigns a quality score to a search result.
// Scoring is a pluggable policy: the engine only requires that higher
// scores mean better results.
type QualityScorer interface {
	// Score returns the quality score for result.
	Score(result model.SearchResult) int
}

// skipDomains are content-farm and social domains whose results are
// noise for research queries. Results from these hosts are dropped
// entirely rather than down-ranked.
var skipDomains = []string{
	"pinterest.com",
	"youtube.com",
	"facebook.com",
	"instagram.com",
	"twitter.com",
	"x.com",
	"tiktok.com",
	"quora.com",
}

// authorityDomains are hosts and suffixes that reliably carry
// substantive technical or academic content.
var authorityDomains = []string{
	"github.com",
	"stackoverflow.com",
	"stackexchange.com",
	"readthedocs.io",
	"docs.python.org",
	"developer.mozilla.org",
	"wikipedia.org",
	"arxiv.org",
	".edu",
	".gov",
}

// HeuristicScorer is the default quality scorer.
// A result earns one point for coming from an authoritative domain and
// one point for complete metadata (both title and description present),
// yielding scores of 0, 1, or 2.
type HeuristicScorer struct{}

// Score implements QualityScorer.
func (HeuristicScorer) Score(result model.SearchResult) int {
	score := 0
	if domainMatchesAny(result.Domain, authorityDomains) {
		score++
	}
	if result.Title != "" && result.Description != "" {
		score++
	}
	return score
}

// isSkippedDomain reports whether the host belongs to the junk list.
func isSkippedDomain(domain string) bool {
	return domainMatchesAny(domain, skipDomains)
}

// domainMatchesAny reports whether domain equals or is a subdomain of
// any entry in the list. Entries starting with "." match as bare
// suffixes (".edu" matches "mit.edu").
func domainMatchesAny(domain string, list []string) bool {
	domain = strings.ToLower(domain)
	if domain == "" {
		return false
	}
	for _, entry := range list {
		if strings.HasPrefix(entry, ".") {
			if strings.HasSuffix(domain, entry) {
				return true
			}
			continue
		}
		if domain == entry || strings.HasSuffix(domain, "."+entry) {
			return true
		}
	}
	return false
}
