// Package docs wraps the subprocess-hosted documentation search service.
package docs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	// DefaultImage is the docs MCP server container.
	DefaultImage = "ghcr.io/chainguard-dev/ai-docs:latest"

	cacheSize = 64
)

// Client owns one docs server subprocess for the duration of a
// suggestion run. Open it once, Close it unconditionally on exit.
type Client struct {
	mcp   *client.Client
	cache *lru.Cache[string, string]
}

// Open launches the docs server under docker and performs the MCP
// initialize handshake.
func Open(ctx context.Context, image string) (*Client, error) {
	if image == "" {
		image = DefaultImage
	}

	mcpClient, err := client.NewStdioMCPClient("docker", nil, "run", "--rm", "-i", image, "serve-mcp")
	if err != nil {
		return nil, fmt.Errorf("start docs server: %w", err)
	}

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "doc-suggester",
		Version: "1.0.0",
	}

	if _, err := mcpClient.Initialize(ctx, initRequest); err != nil {
		mcpClient.Close()
		return nil, fmt.Errorf("initialize docs session: %w", err)
	}

	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		mcpClient.Close()
		return nil, err
	}

	return &Client{mcp: mcpClient, cache: cache}, nil
}

// Close tears down the session and subprocess.
func (c *Client) Close() error {
	return c.mcp.Close()
}

// Search queries the docs full-text index. Unreliable; the named getters
// below surface better results.
func (c *Client) Search(ctx context.Context, query string, maxResults int) (string, error) {
	if maxResults <= 0 {
		maxResults = 5
	}
	return c.call(ctx, "search_docs", map[string]any{
		"query":       query,
		"max_results": maxResults,
	})
}

// SecurityDocs fetches security documentation (CVEs, SBOMs, Cosign, signing).
func (c *Client) SecurityDocs(ctx context.Context) (string, error) {
	return c.call(ctx, "get_security_docs", map[string]any{})
}

// ToolDocs fetches documentation for a Chainguard tool
// (wolfi, apko, melange, chainctl).
func (c *Client) ToolDocs(ctx context.Context, toolName string) (string, error) {
	return c.call(ctx, "get_tool_docs", map[string]any{
		"tool_name": toolName,
	})
}

// ImageDocs fetches documentation for a specific container image.
func (c *Client) ImageDocs(ctx context.Context, imageName string) (string, error) {
	return c.call(ctx, "get_image_docs", map[string]any{
		"image_name": imageName,
	})
}

// ListImages lists all available container images.
func (c *Client) ListImages(ctx context.Context) (string, error) {
	return c.call(ctx, "list_images", map[string]any{})
}

func (c *Client) call(ctx context.Context, tool string, args map[string]any) (string, error) {
	key := cacheKey(tool, args)
	if text, ok := c.cache.Get(key); ok {
		slog.Debug("docs query served from cache", "tool", tool)
		return text, nil
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args

	result, err := c.mcp.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("docs %s: %w", tool, err)
	}

	// Tool-level errors flow back to the model as text so the
	// conversation can route around them; only transport failures abort.
	text, ok := resultText(result)
	if !ok {
		slog.Warn("docs tool returned an error", "tool", tool, "error", text)
		return text, nil
	}

	c.cache.Add(key, text)
	return text, nil
}

// resultText extracts a tool result's text; ok is false for tool-level
// errors, which must not be cached.
func resultText(result *mcp.CallToolResult) (string, bool) {
	return extractText(result.Content), !result.IsError
}

// extractText joins the text blocks of an MCP tool result.
func extractText(content []mcp.Content) string {
	var parts []string
	for _, item := range content {
		if tc, ok := item.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func cacheKey(tool string, args map[string]any) string {
	data, _ := json.Marshal(args)
	return tool + ":" + string(data)
}
