package storage

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/markdown"
	"golang.org/x/crypto/sha3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"webscout/internal/model"
)

// maxTitleLen bounds the title portion of a filename. Long titles add
// nothing to uniqueness (the hash suffix handles that) and can push the
// full path over filesystem limits.
const maxTitleLen = 50

// ArtifactWriter persists one artifact and returns where it was written.
type ArtifactWriter interface {
	// WriteArtifact writes the artifact and returns its path.
	WriteArtifact(a *model.Artifact) (string, error)
}

// MarkdownWriter writes artifacts as markdown files in a directory.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. Consistent escaping of generated content
type MarkdownWriter struct {
	// dir is the output directory.
	dir string

	// titleCaser title-cases fallback titles derived from hostnames.
	titleCaser cases.Caser
}

// NewMarkdownWriter creates a writer that stores artifacts under dir,
// creating the directory if needed.
func NewMarkdownWriter(dir string) (*MarkdownWriter, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &MarkdownWriter{
		dir:        dir,
		titleCaser: cases.Title(language.English),
	}, nil
}

// WriteArtifact renders the artifact as markdown and writes it to a
// uniquely named file. Artifacts may contain fetched web content, so
// files are written owner-only like any other potentially sensitive
// local capture.
func (w *MarkdownWriter) WriteArtifact(a *model.Artifact) (string, error) {
	title := a.Title
	if title == "" {
		title = w.fallbackTitle(a.Source)
	}

	name := fmt.Sprintf("%s_%03d_%s_%s.md",
		a.SessionID, a.Sequence, safeFilename(title), contentHash(a.Source, a.Content))
	path := filepath.Join(w.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to create artifact file: %w", err)
	}
	defer f.Close()

	md := markdown.NewMarkdown(f)

	md.H1(title)
	md.PlainText("")

	md.H2("Metadata")
	md.PlainText("")

	rows := [][]string{
		{"Source", a.Source},
		{"Retrieved", a.FetchedAt.Format("2006-01-02 15:04:05 MST")},
		{"Content Type", orDash(a.ContentType)},
		{"Session", fmt.Sprintf("%s #%d", a.SessionID, a.Sequence)},
	}
	if a.Relevance != nil {
		rows = append(rows, []string{"Topic Relevance", fmt.Sprintf("%.2f", *a.Relevance)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	md.H2("Content")
	md.PlainText("")
	md.PlainText(a.Content)

	if err := md.Build(); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	return path, nil
}

// fallbackTitle derives a readable title from the artifact source when
// the page had none: the hostname for URLs, the base name for files.
func (w *MarkdownWriter) fallbackTitle(source string) string {
	if u, err := url.Parse(source); err == nil && u.Host != "" {
		host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
		return w.titleCaser.String(strings.ReplaceAll(host, ".", " "))
	}

	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return "Untitled"
	}
	return w.titleCaser.String(strings.ReplaceAll(base, "_", " "))
}

// safeFilename reduces a title to a filesystem-safe slug.
func safeFilename(title string) string {
	var sb strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && sb.Len() > 0 {
				sb.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	slug := strings.Trim(sb.String(), "_")
	if slug == "" {
		slug = "untitled"
	}
	if len(slug) > maxTitleLen {
		slug = strings.Trim(slug[:maxTitleLen], "_")
	}
	return slug
}

// contentHash returns a short hash over source and content, used as the
// filename disambiguator.
func contentHash(source, content string) string {
	h := sha3.Sum256([]byte(source + "\x00" + content))
	return fmt.Sprintf("%x", h[:4])
}

// orDash substitutes a dash for empty table values.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
