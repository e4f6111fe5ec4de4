package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"
)

// StaticClient is a deterministic offline backend. It never talks to a
// network and always succeeds, which makes it suitable for dry runs,
// CI, and air-gapped plan rehearsals.
type StaticClient struct{}

func NewStaticClient() *StaticClient {
	slog.Info("Initializing static (dry-run) generation backend")
	return &StaticClient{}
}

// Generate implements the Client interface. The response is a function of
// the prompt and the requested format only, so repeated runs over the same
// plan produce identical outputs.
func (s *StaticClient) Generate(_ context.Context, prompt string, params GenerationParams) (string, error) {
	h := fnv.New64a()
	h.Write([]byte(prompt))
	digest := fmt.Sprintf("%016x", h.Sum64())

	switch params.Format {
	case "json", "json_schema":
		out := map[string]any{
			"status":     "dry_run",
			"digest":     digest,
			"prompt_len": len(prompt),
		}
		if params.SchemaName != "" {
			out["schema"] = params.SchemaName
		}
		b, err := json.Marshal(out)
		if err != nil {
			return "", fmt.Errorf("failed to marshal static response: %w", err)
		}
		return string(b), nil
	default:
		return fmt.Sprintf("dry-run response %s (%d prompt bytes)", digest, len(prompt)), nil
	}
}
