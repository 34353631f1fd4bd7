package suggest

import "github.com/chainguard-dev/doc-suggester/core/providers"

// toolSchema is the fixed tool surface offered to the model on every turn.
func toolSchema() []providers.Tool {
	return []providers.Tool{
		{
			Name:        "get_blog_post",
			Description: "Fetch the full content of a blog post by its URL.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "The URL of the blog post to fetch.",
					},
				},
				"required": []any{"url"},
			},
		},
		{
			Name:        "search_docs",
			Description: "Search Chainguard documentation. Unreliable — use get_security_docs, get_tool_docs, or get_image_docs first.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query":       map[string]any{"type": "string"},
					"max_results": map[string]any{"type": "integer", "default": 5},
				},
				"required": []any{"query"},
			},
		},
		{
			Name:        "get_security_docs",
			Description: "Fetch Chainguard security documentation (CVEs, SBOMs, Cosign, signing, etc.).",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "get_tool_docs",
			Description: "Fetch docs for a Chainguard tool. tool_name must be one of: wolfi, apko, melange, chainctl.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"tool_name": map[string]any{
						"type": "string",
						"enum": []any{"wolfi", "apko", "melange", "chainctl"},
					},
				},
				"required": []any{"tool_name"},
			},
		},
		{
			Name:        "get_image_docs",
			Description: "Fetch documentation for a specific Chainguard container image (e.g. 'java', 'python', 'nginx').",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"image_name": map[string]any{
						"type":        "string",
						"description": "Image name, e.g. 'java', 'python'.",
					},
				},
				"required": []any{"image_name"},
			},
		},
		{
			Name:        "get_lab",
			Description: "Get full details for a Chainguard Learning Lab by ID (e.g. 'll202509'). Use when the index shows a lab may be relevant.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"lab_id": map[string]any{"type": "string"},
				},
				"required": []any{"lab_id"},
			},
		},
	}
}
