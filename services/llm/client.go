package llm

import (
	"context"
	"encoding/json"
)

type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`

	// Model overrides the client's default model for this call.
	Model string `json:"model,omitempty"`

	// Format constrains the output shape: "json", "json_schema" or "text".
	Format string `json:"format,omitempty"`

	// SchemaName and Schema carry the output schema when Format is
	// "json_schema". Backends that cannot enforce a schema natively fall
	// back to plain JSON mode.
	SchemaName string          `json:"schema_name,omitempty"`
	Schema     json.RawMessage `json:"schema,omitempty"`
}

// Client defines the standard interface for any generation backend.
type Client interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
}
