package suggest

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainguard-dev/doc-suggester/core/blog"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("md")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	f, err = ParseFormat("email")
	require.NoError(t, err)
	assert.Equal(t, FormatEmail, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestBuildSystemPrompt(t *testing.T) {
	md := buildSystemPrompt(FormatMarkdown)
	assert.Contains(t, md, "No content conflicts detected")

	email := buildSystemPrompt(FormatEmail)
	assert.Contains(t, email, "Subject: ")
	assert.NotContains(t, email, "Content Conflicts")

	// Both share the workflow preamble.
	assert.Contains(t, md, "get_blog_post")
	assert.Contains(t, email, "get_blog_post")
}

func TestBlogIndexTextPrefersSynopsis(t *testing.T) {
	posts := []blog.Post{
		{
			Title:   "Zero CVEs",
			URL:     "https://chainguard.dev/unchained/zero-cves",
			Date:    "March 1, 2024",
			Excerpt: "raw excerpt text",
		},
	}
	synopses := map[string]string{"zero-cves": "curated synopsis"}

	out := BlogIndexText(posts, synopses)
	assert.Contains(t, out, "**Zero CVEs** | March 1, 2024")
	assert.Contains(t, out, "Synopsis: curated synopsis")
	assert.NotContains(t, out, "raw excerpt text")
}

func TestBlogIndexTextExcerptFallback(t *testing.T) {
	long := strings.Repeat("x", 450)
	posts := []blog.Post{
		{Title: "Untitled", URL: "https://chainguard.dev/unchained/untitled", Excerpt: long},
	}

	out := BlogIndexText(posts, nil)
	assert.Contains(t, out, "Synopsis: "+strings.Repeat("x", indexSynopsisLimit))
	assert.NotContains(t, out, strings.Repeat("x", indexSynopsisLimit+1))
	// No date, so no separator after the title.
	assert.Contains(t, out, "**Untitled**\n")
}

func TestBlogIndexTextExcerptKeepsRunesIntact(t *testing.T) {
	// Multibyte rune spanning the cutoff must not be split.
	excerpt := strings.Repeat("a", indexSynopsisLimit-1) + "— tail"
	posts := []blog.Post{
		{Title: "Multibyte", URL: "https://chainguard.dev/unchained/multibyte", Excerpt: excerpt},
	}

	out := BlogIndexText(posts, nil)
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, "Synopsis: "+strings.Repeat("a", indexSynopsisLimit-1)+"\n")
}
