package agent

import (
	"context"
	"encoding/json"

	"omnibot/models"

	"github.com/invopop/jsonschema"
)

// ToolSpec is the provider-neutral description of a tool handed to the model.
type ToolSpec struct {
	Name        string
	Description string
	Schema      *jsonschema.Schema
}

// ModelResponse is what one model call produced: either a final text,
// or one or more tool calls (possibly alongside partial text).
type ModelResponse struct {
	Text      string
	ToolCalls []models.ToolCall
}

// ModelClient abstracts the hosted model boundary so the dispatch loop can
// run against OpenAI, Anthropic or a scripted fake in tests.
type ModelClient interface {
	Generate(ctx context.Context, system string, messages []models.AgentMessage, tools []ToolSpec) (*ModelResponse, error)
}

// schemaToMap converts a reflected schema into the generic map form the
// OpenAI function-calling API expects.
func schemaToMap(schema *jsonschema.Schema) (map[string]any, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	delete(m, "$schema")
	return m, nil
}
