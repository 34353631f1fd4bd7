// Package blog parses the scraped blog archive and decides when it is stale.
package blog

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Post is one parsed archive entry. Immutable once parsed; lives for a
// single suggestion run.
type Post struct {
	Title       string
	URL         string
	Date        string
	Excerpt     string
	FullContent string
}

const excerptLen = 300

// Matches archive entry headers: ## Title\n\n*Source: URL | Date*\n\n
// The date segment is optional; the body runs until the \n\n--- delimiter.
var entryRe = regexp.MustCompile(`(?m)^## (.+)\n\n\*Source: (https?://[^\s|]+?)(?:\s*\|\s*([^*]+))?\*\n\n`)

// ParseArchive parses the combined markdown archive into posts.
// A missing file yields no posts and no error.
func ParseArchive(path string) ([]Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read archive: %w", err)
	}

	text := string(data)
	var posts []Post

	for _, m := range entryRe.FindAllStringSubmatchIndex(text, -1) {
		title := strings.TrimSpace(text[m[2]:m[3]])
		url := strings.TrimSpace(text[m[4]:m[5]])
		date := ""
		if m[6] >= 0 {
			date = strings.TrimSpace(text[m[6]:m[7]])
		}

		rest := text[m[1]:]
		end := strings.Index(rest, "\n\n---")
		if end < 0 {
			// Unterminated trailing entry; the archive writer always
			// closes entries with a horizontal rule.
			continue
		}
		full := strings.TrimSpace(rest[:end])

		excerpt := truncate(full, excerptLen)

		posts = append(posts, Post{
			Title:       title,
			URL:         url,
			Date:        date,
			Excerpt:     excerpt,
			FullContent: full,
		})
	}

	return posts, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Slug extracts the trailing URL path segment, matching the checkpoint
// key format the scraper uses.
func Slug(url string) string {
	trimmed := strings.TrimRight(url, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// ByURL indexes posts for tool dispatch.
func ByURL(posts []Post) map[string]Post {
	m := make(map[string]Post, len(posts))
	for _, p := range posts {
		m[p.URL] = p
	}
	return m
}
