package suggest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainguard-dev/doc-suggester/core/blog"
	"github.com/chainguard-dev/doc-suggester/core/labs"
	"github.com/chainguard-dev/doc-suggester/core/providers"
)

// scriptedProvider replays a fixed sequence of responses and records
// every request it receives.
type scriptedProvider struct {
	responses []*providers.Response
	requests  []*providers.Request
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(_ context.Context, req *providers.Request) (*providers.Response, error) {
	p.requests = append(p.requests, req)
	if len(p.responses) == 0 {
		return &providers.Response{Content: "out of script", StopReason: providers.StopReasonEndTurn}, nil
	}
	resp := p.responses[0]
	p.responses = p.responses[1:]
	return resp, nil
}

type fakeDocs struct {
	err error
}

func (d *fakeDocs) Search(_ context.Context, query string, _ int) (string, error) {
	return "search results for " + query, d.err
}
func (d *fakeDocs) SecurityDocs(context.Context) (string, error)     { return "security docs", d.err }
func (d *fakeDocs) ToolDocs(_ context.Context, n string) (string, error) { return "docs for " + n, d.err }
func (d *fakeDocs) ImageDocs(_ context.Context, n string) (string, error) {
	return "image docs for " + n, d.err
}

func testEngine(p providers.Provider, d DocsService) *Engine {
	posts := []blog.Post{
		{
			Title:       "Java CVEs",
			URL:         "https://chainguard.dev/unchained/java-cves",
			Date:        "March 1, 2024",
			Excerpt:     "Java images with zero CVEs.",
			FullContent: "Java images with zero CVEs. Full detail here.",
		},
	}
	labEntries := []labs.Entry{
		{ID: "ll202509", Title: "Zero-CVE Kubernetes", URL: "https://courses.chainguard.dev/k8s", Difficulty: "intermediate"},
	}
	return NewEngine(p, d, posts, labEntries, map[string]string{})
}

func toolUse(calls ...providers.ToolCall) *providers.Response {
	return &providers.Response{StopReason: providers.StopReasonToolUse, ToolCalls: calls}
}

func endTurn(text string) *providers.Response {
	return &providers.Response{Content: text, StopReason: providers.StopReasonEndTurn}
}

func TestRunTerminatesOnNonToolUseReply(t *testing.T) {
	p := &scriptedProvider{responses: []*providers.Response{endTurn("Here are my recommendations.")}}
	e := testEngine(p, &fakeDocs{})

	result, err := e.Run(context.Background(), "prospect cares about CVEs", FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "Here are my recommendations.", result)
	require.Len(t, p.requests, 1)

	// Initial turn carries notes plus both indexes.
	first := p.requests[0]
	assert.Contains(t, first.Messages[0].Content, "prospect cares about CVEs")
	assert.Contains(t, first.Messages[0].Content, "## Blog Index")
	assert.Contains(t, first.Messages[0].Content, "## Learning Labs Index")
	assert.Len(t, first.Tools, 6)
}

func TestRunDispatchesBlogLookup(t *testing.T) {
	p := &scriptedProvider{responses: []*providers.Response{
		toolUse(providers.ToolCall{ID: "t1", Name: "get_blog_post", Arguments: `{"url":"https://chainguard.dev/unchained/java-cves"}`}),
		endTurn("done"),
	}}
	e := testEngine(p, &fakeDocs{})

	result, err := e.Run(context.Background(), "notes", FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "done", result)
	require.Len(t, p.requests, 2)

	// The second request carries the tool result.
	msgs := p.requests[1].Messages
	last := msgs[len(msgs)-1]
	assert.Equal(t, providers.RoleTool, last.Role)
	assert.Equal(t, "t1", last.ToolCallID)
	assert.Equal(t, "Java images with zero CVEs. Full detail here.", last.Content)
}

func TestRunNotFoundDoesNotAbort(t *testing.T) {
	p := &scriptedProvider{responses: []*providers.Response{
		toolUse(
			providers.ToolCall{ID: "t1", Name: "get_blog_post", Arguments: `{"url":"https://nope"}`},
			providers.ToolCall{ID: "t2", Name: "get_lab", Arguments: `{"lab_id":"ll999999"}`},
		),
		endTurn("done"),
	}}
	e := testEngine(p, &fakeDocs{})

	_, err := e.Run(context.Background(), "notes", FormatMarkdown)
	require.NoError(t, err)

	msgs := p.requests[1].Messages
	assert.Equal(t, "Blog post not found in archive: https://nope", msgs[len(msgs)-2].Content)
	assert.Equal(t, "Lab not found: ll999999", msgs[len(msgs)-1].Content)
}

func TestRunUnknownToolName(t *testing.T) {
	p := &scriptedProvider{responses: []*providers.Response{
		toolUse(providers.ToolCall{ID: "t1", Name: "delete_everything", Arguments: `{}`}),
		endTurn("done"),
	}}
	e := testEngine(p, &fakeDocs{})

	_, err := e.Run(context.Background(), "notes", FormatMarkdown)
	require.NoError(t, err)

	msgs := p.requests[1].Messages
	assert.Equal(t, "Unknown tool: delete_everything", msgs[len(msgs)-1].Content)
}

func TestRunDocsPassthrough(t *testing.T) {
	p := &scriptedProvider{responses: []*providers.Response{
		toolUse(
			providers.ToolCall{ID: "t1", Name: "get_security_docs", Arguments: `{}`},
			providers.ToolCall{ID: "t2", Name: "get_tool_docs", Arguments: `{"tool_name":"apko"}`},
			providers.ToolCall{ID: "t3", Name: "get_image_docs", Arguments: `{"image_name":"java"}`},
			providers.ToolCall{ID: "t4", Name: "search_docs", Arguments: `{"query":"sbom","max_results":3}`},
		),
		endTurn("done"),
	}}
	e := testEngine(p, &fakeDocs{})

	_, err := e.Run(context.Background(), "notes", FormatMarkdown)
	require.NoError(t, err)

	msgs := p.requests[1].Messages
	results := msgs[len(msgs)-4:]
	assert.Equal(t, "security docs", results[0].Content)
	assert.Equal(t, "docs for apko", results[1].Content)
	assert.Equal(t, "image docs for java", results[2].Content)
	assert.Equal(t, "search results for sbom", results[3].Content)
}

func TestRunDocsFailureAborts(t *testing.T) {
	p := &scriptedProvider{responses: []*providers.Response{
		toolUse(providers.ToolCall{ID: "t1", Name: "get_security_docs", Arguments: `{}`}),
	}}
	e := testEngine(p, &fakeDocs{err: errors.New("subprocess died")})

	_, err := e.Run(context.Background(), "notes", FormatMarkdown)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subprocess died")
}

func TestRunTurnLimitFallback(t *testing.T) {
	var responses []*providers.Response
	for range 3 {
		responses = append(responses, toolUse(
			providers.ToolCall{ID: "t", Name: "get_security_docs", Arguments: `{}`},
		))
	}
	p := &scriptedProvider{responses: responses}
	e := testEngine(p, &fakeDocs{})
	e.MaxTurns = 3

	result, err := e.Run(context.Background(), "notes", FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, Fallback, result)
	assert.Len(t, p.requests, 3)
}

func TestRunEmptyFinalTextFallback(t *testing.T) {
	p := &scriptedProvider{responses: []*providers.Response{endTurn("")}}
	e := testEngine(p, &fakeDocs{})

	result, err := e.Run(context.Background(), "notes", FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, Fallback, result)
}
