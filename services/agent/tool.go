package agent

import (
	"context"

	"github.com/invopop/jsonschema"
)

// Tool is the contract every callable exposed to the model must implement.
// Call receives the JSON-encoded argument object produced by the model.
type Tool interface {
	Name() string
	Description() string
	InputSchema() *jsonschema.Schema
	Call(ctx context.Context, input string) (string, error)
}

// GenerateSchema reflects the JSON schema for a tool input struct.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}
