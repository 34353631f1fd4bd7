// Package suggest runs the multi-turn tool-use conversation that turns
// free-form SE notes into content recommendations.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/chainguard-dev/doc-suggester/core/blog"
	"github.com/chainguard-dev/doc-suggester/core/labs"
	"github.com/chainguard-dev/doc-suggester/core/providers"
)

// Fallback is returned when the turn limit is exhausted or the final
// reply carries no text.
const Fallback = "No recommendations generated."

// DocsService is the slice of the documentation client the engine
// dispatches passthrough tool calls to.
type DocsService interface {
	Search(ctx context.Context, query string, maxResults int) (string, error)
	SecurityDocs(ctx context.Context) (string, error)
	ToolDocs(ctx context.Context, toolName string) (string, error)
	ImageDocs(ctx context.Context, imageName string) (string, error)
}

// Engine holds the per-run indexes and collaborators for one suggestion
// conversation.
type Engine struct {
	Provider  providers.Provider
	Docs      DocsService
	Model     string
	MaxTurns  int
	MaxTokens int

	posts     []blog.Post
	postByURL map[string]blog.Post
	labEntries []labs.Entry
	labByID    map[string]labs.Entry
	synopses   map[string]string
}

func NewEngine(provider providers.Provider, docsService DocsService, posts []blog.Post, labEntries []labs.Entry, synopses map[string]string) *Engine {
	return &Engine{
		Provider:   provider,
		Docs:       docsService,
		MaxTurns:   20,
		MaxTokens:  4096,
		posts:      posts,
		postByURL:  blog.ByURL(posts),
		labEntries: labEntries,
		labByID:    labs.ByID(labEntries),
		synopses:   synopses,
	}
}

// Run drives the bounded tool-use loop: send conversation state, append
// the reply, dispatch any requested tool calls, feed results back, and
// stop on the first non-tool-use reply.
func (e *Engine) Run(ctx context.Context, notes string, format Format) (string, error) {
	runID := uuid.NewString()
	log := slog.With("run_id", runID)

	userContent := "SE notes about prospect:\n\n" + notes + "\n\n" + BlogIndexText(e.posts, e.synopses)
	if labsIndex := labs.IndexText(e.labEntries); labsIndex != "" {
		userContent += "\n\n" + labsIndex
	}

	messages := []providers.Message{
		{Role: providers.RoleUser, Content: userContent},
	}
	systemPrompt := buildSystemPrompt(format)
	tools := toolSchema()

	for turn := 0; turn < e.MaxTurns; turn++ {
		resp, err := e.Provider.Complete(ctx, &providers.Request{
			Model:        e.Model,
			MaxTokens:    e.MaxTokens,
			SystemPrompt: systemPrompt,
			Tools:        tools,
			Messages:     messages,
		})
		if err != nil {
			return "", fmt.Errorf("suggestion turn %d: %w", turn+1, err)
		}

		log.Debug("model reply",
			"turn", turn+1,
			"stop_reason", resp.StopReason,
			"tool_calls", len(resp.ToolCalls),
			"output_tokens", resp.Usage.OutputTokens,
		)

		messages = append(messages, providers.Message{
			Role:      providers.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		if resp.StopReason != providers.StopReasonToolUse {
			if resp.Content == "" {
				return Fallback, nil
			}
			return resp.Content, nil
		}

		for _, call := range resp.ToolCalls {
			result, err := e.dispatch(ctx, call)
			if err != nil {
				return "", err
			}
			messages = append(messages, providers.Message{
				Role:       providers.RoleTool,
				ToolCallID: call.ID,
				Content:    result,
			})
		}
	}

	log.Warn("turn limit exhausted without a final reply", "max_turns", e.MaxTurns)
	return Fallback, nil
}

// dispatch routes one model-requested tool call to its handler. Unknown
// tools and missing records answer with a textual "not found" rather
// than an error; only collaborator failures abort the run.
func (e *Engine) dispatch(ctx context.Context, call providers.ToolCall) (string, error) {
	var input map[string]any
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &input); err != nil {
			return "", fmt.Errorf("tool %s: decode arguments: %w", call.Name, err)
		}
	}

	str := func(key string) string {
		s, _ := input[key].(string)
		return s
	}

	switch call.Name {
	case "get_blog_post":
		url := str("url")
		if post, ok := e.postByURL[url]; ok {
			return post.FullContent, nil
		}
		return "Blog post not found in archive: " + url, nil

	case "get_lab":
		id := str("lab_id")
		if lab, ok := e.labByID[id]; ok {
			return labs.DetailText(lab), nil
		}
		return "Lab not found: " + id, nil

	case "search_docs":
		maxResults := 5
		if v, ok := input["max_results"].(float64); ok {
			maxResults = int(v)
		}
		return e.Docs.Search(ctx, str("query"), maxResults)

	case "get_security_docs":
		return e.Docs.SecurityDocs(ctx)

	case "get_tool_docs":
		return e.Docs.ToolDocs(ctx, str("tool_name"))

	case "get_image_docs":
		return e.Docs.ImageDocs(ctx, str("image_name"))

	default:
		return "Unknown tool: " + call.Name, nil
	}
}
