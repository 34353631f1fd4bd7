package suggest

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/chainguard-dev/doc-suggester/core/blog"
)

// Format selects the shape of the final recommendation document.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatEmail    Format = "email"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMarkdown, FormatEmail:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (valid: md, email)", s)
	}
}

const systemPromptBase = `You are a technical content advisor for Chainguard sales engineers. Given notes about a prospect, you identify the most relevant Chainguard blog posts and documentation pages.

You have access to:
1. A blog index below (title, URL, date, short excerpt) — use get_blog_post to read a full post
2. Tools to fetch Chainguard product documentation
3. A Learning Labs index (hands-on video sessions) — use get_lab to read full lab details

Workflow:
- Scan the blog index for relevant posts based on title and excerpt
- Fetch full content for the most promising posts using get_blog_post
- Fetch relevant documentation using get_security_docs, get_tool_docs, or get_image_docs
- Use search_docs only as a fallback when other tools don't surface what you need
- Fetch full lab details using get_lab before recommending a lab
- Select the 5-10 most relevant resources before writing your final output

`

const outputFormatMarkdown = `Output format for each recommendation:
### N. [Type] Title
**URL**: <url>
**Date**: <date> (for blog posts)
**Lab page**: <url> (for Learning Labs)
**Recording**: <url> (for Learning Labs)
**Difficulty**: <level> (for Learning Labs)
**Why relevant**: 1-2 sentence explanation tied to the prospect's specific concerns

When a blog post and a documentation page conflict, prefer the more recently dated source. If conflicts exist, add a "## Content Conflicts" section at the end noting them.

If no conflicts: end with ` + "`*No content conflicts detected.*`" + `
`

const outputFormatEmail = `Write the recommendations as a ready-to-send follow-up email from a sales engineer to the prospect.

- Subject line first, on its own line: "Subject: ..."
- Short greeting, then one or two sentences tying the resources to the prospect's concerns
- One bullet per recommendation: linked title, one-line reason it is relevant
- For Learning Labs include the lab page or recording link
- Professional, concise, no hype; close with an offer to walk through any of the material

When a blog post and a documentation page conflict, prefer the more recently dated source and do not mention the conflict in the email.
`

func buildSystemPrompt(format Format) string {
	if format == FormatEmail {
		return systemPromptBase + outputFormatEmail
	}
	return systemPromptBase + outputFormatMarkdown
}

const indexSynopsisLimit = 200

// BlogIndexText builds the per-post index embedded in the initial user
// turn. A cached synopsis stands in for the raw excerpt when available.
func BlogIndexText(posts []blog.Post, synopses map[string]string) string {
	var sb strings.Builder
	sb.WriteString("## Blog Index\n\n")
	for _, post := range posts {
		sb.WriteString("- **" + post.Title + "**")
		if post.Date != "" {
			sb.WriteString(" | " + post.Date)
		}
		sb.WriteString("\n  URL: " + post.URL + "\n")

		blurb := synopses[blog.Slug(post.URL)]
		if blurb == "" {
			blurb = truncate(post.Excerpt, indexSynopsisLimit)
		}
		sb.WriteString("  Synopsis: " + blurb + "\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
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
