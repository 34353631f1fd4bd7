package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropicProvider(t *testing.T) *AnthropicProvider {
	t.Helper()
	cfg := DefaultAnthropicConfig()
	cfg.APIKey = "test-key"
	p, err := NewAnthropicProvider(cfg)
	require.NoError(t, err)
	return p
}

func TestNewAnthropicProviderRequiresAPIKey(t *testing.T) {
	_, err := NewAnthropicProvider(AnthropicConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestAnthropicConvertMessages(t *testing.T) {
	p := newTestAnthropicProvider(t)

	messages := []Message{
		{Role: RoleUser, Content: "notes about a prospect"},
		{Role: RoleAssistant, Content: "let me check", ToolCalls: []ToolCall{
			{ID: "toolu_1", Name: "get_blog_post", Arguments: `{"url":"https://example.com/a"}`},
		}},
		{Role: RoleTool, ToolCallID: "toolu_1", Content: "post body"},
		{Role: RoleAssistant, Content: "final answer"},
	}

	converted := p.convertMessages(messages)
	require.Len(t, converted, 4)

	// Assistant turn with a tool call carries both a text and a tool_use block.
	assert.Len(t, converted[1].Content, 2)
	require.NotNil(t, converted[1].Content[1].OfToolUse)
	assert.Equal(t, "toolu_1", converted[1].Content[1].OfToolUse.ID)
	assert.Equal(t, "get_blog_post", converted[1].Content[1].OfToolUse.Name)

	// Tool results go back as user turns.
	assert.Equal(t, "user", string(converted[2].Role))
}

func TestAnthropicBatchesConsecutiveToolResults(t *testing.T) {
	p := newTestAnthropicProvider(t)

	messages := []Message{
		{Role: RoleUser, Content: "notes"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{
			{ID: "toolu_1", Name: "get_security_docs", Arguments: `{}`},
			{ID: "toolu_2", Name: "get_tool_docs", Arguments: `{"tool_name":"apko"}`},
		}},
		{Role: RoleTool, ToolCallID: "toolu_1", Content: "security docs"},
		{Role: RoleTool, ToolCallID: "toolu_2", Content: "apko docs"},
	}

	converted := p.convertMessages(messages)
	require.Len(t, converted, 3, "both tool results share one user message")
	assert.Len(t, converted[2].Content, 2)
}

func TestAnthropicConvertTools(t *testing.T) {
	p := newTestAnthropicProvider(t)

	tools := []Tool{
		{
			Name:        "get_lab",
			Description: "Get full details for a lab by ID.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"lab_id": map[string]any{"type": "string"},
				},
				"required": []any{"lab_id"},
			},
		},
	}

	converted := p.convertTools(tools)
	require.Len(t, converted, 1)
	require.NotNil(t, converted[0].OfTool)
	assert.Equal(t, "get_lab", converted[0].OfTool.Name)
	assert.Equal(t, []string{"lab_id"}, converted[0].OfTool.InputSchema.Required)
}

func TestExtractRequiredFields(t *testing.T) {
	assert.Nil(t, extractRequiredFields(map[string]any{}))
	assert.Equal(t,
		[]string{"url"},
		extractRequiredFields(map[string]any{"required": []any{"url"}}),
	)
}
