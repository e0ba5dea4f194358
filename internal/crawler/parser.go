package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Parser extracts the title, readable text, and links from HTML content.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because:
//  1. It correctly handles malformed HTML common on the web
//  2. Provides a proper DOM-like structure
//  3. More maintainable than complex regex patterns
type Parser struct {
	// baseURL is the URL of the page being parsed, used for resolving
	// relative links.
	baseURL *url.URL
}

// Link is a hyperlink discovered in a page.
type Link struct {
	// URL is the absolute link target.
	URL string

	// Anchor is the link's visible text, used for anchor-based relevance
	// filtering. May be empty for image links and icons.
	Anchor string
}

// ParseResult contains the information extracted from an HTML page.
//
// Design decision: We return a result struct from a single parsing pass
// rather than exposing per-field methods because the scheduler always
// needs title, text, and links together.
type ParseResult struct {
	// Title is the page title from the <title> tag, falling back to the
	// first <h1> when no title tag exists.
	Title string

	// Text is the page's readable text with scripts, styles, and markup
	// removed and whitespace collapsed.
	Text string

	// Links contains all resolved http(s) links found in the page.
	Links []Link
}

// NewParser creates an HTML parser with the given base URL.
// The base URL is used to resolve relative links.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// skipTextElements are elements whose text content is not page prose.
var skipTextElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// Parse parses HTML content and extracts title, text, and links.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{Links: make([]Link, 0)}

	var text strings.Builder
	var firstH1 string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipTextElements[n.Data] {
				return
			}
			switch n.Data {
			case "title":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					result.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "h1":
				if firstH1 == "" {
					firstH1 = strings.TrimSpace(textOf(n))
				}
			case "a":
				if href := getAttr(n, "href"); href != "" {
					if resolved := p.resolveURL(href); resolved != "" {
						result.Links = append(result.Links, Link{
							URL:    resolved,
							Anchor: strings.TrimSpace(textOf(n)),
						})
					}
				}
			}
		}

		if n.Type == html.TextNode {
			text.WriteString(n.Data)
			text.WriteString(" ")
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	if result.Title == "" {
		result.Title = firstH1
	}
	result.Text = strings.Join(strings.Fields(text.String()), " ")

	return result, nil
}

// resolveURL resolves a relative URL against the base URL.
// Non-navigable hrefs (javascript:, mailto:, fragments, ...) and
// non-http(s) targets resolve to the empty string.
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := p.baseURL.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// textOf returns the concatenated text content of a node's subtree.
func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
