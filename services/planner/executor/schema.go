// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package executor

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// SchemaResolver resolves a prompt config's schema reference to the schema
// body handed to the backend.
type SchemaResolver interface {
	// Resolve returns the schema name and raw JSON Schema body for ref.
	Resolve(ref string) (name string, schema json.RawMessage, err error)
}

// EmbeddedSchemas resolves schema references against the schema files baked
// into the binary. References look like "schemas/<task_type>_v1.json".
type EmbeddedSchemas struct{}

// Resolve implements SchemaResolver.
func (EmbeddedSchemas) Resolve(ref string) (string, json.RawMessage, error) {
	// Reject traversal; refs are registry-generated but arrive over a
	// serialized plan.
	clean := path.Clean(ref)
	if !strings.HasPrefix(clean, "schemas/") || strings.Contains(clean, "..") {
		return "", nil, fmt.Errorf("invalid schema ref %q", ref)
	}

	body, err := schemaFS.ReadFile(clean)
	if err != nil {
		return "", nil, fmt.Errorf("schema ref %q not found: %w", ref, err)
	}
	if !json.Valid(body) {
		return "", nil, fmt.Errorf("schema ref %q is not valid JSON", ref)
	}

	name := strings.TrimSuffix(path.Base(clean), ".json")
	return name, json.RawMessage(body), nil
}
