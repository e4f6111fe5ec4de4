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
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
)

// PromptRenderer turns one prompt node plus its run data into the final
// prompt string handed to the backend.
type PromptRenderer interface {
	Render(node datatypes.PromptNode, data PromptData) (string, error)
}

// PromptData is the data for prompt template rendering.
type PromptData struct {
	// TemplateID is the versioned template identifier for the node.
	TemplateID string

	// Lane and TaskType identify the work the prompt asks for.
	Lane     string
	TaskType datatypes.TaskType

	// Concern labels the clinical concern under review.
	Concern datatypes.ConcernDescriptor

	// SignalGroups is the plan's five-group evidence scaffold.
	SignalGroups []datatypes.SignalGroup

	// PatientPayload is the narrative patient record, empty when the task
	// does not require one.
	PatientPayload string

	// DependencyOutputs maps upstream task ids (wire form) to their raw
	// outputs.
	DependencyOutputs map[string]string
}

// taskPromptTemplate is the shared body for every task prompt. Per-task
// specialization comes from the task type line and the dependency outputs.
const taskPromptTemplate = `Template: {{.TemplateID}}

You are performing one step of a clinical quality review for concern {{.Concern.Concern}} ({{.Concern.Label}}) in the {{.Concern.Domain}} domain.

## Task
Perform the "{{.TaskType}}" task for the "{{.Lane}}" review lane.

## Evidence Categories
{{- range .SignalGroups}}
- {{.Name}}: {{.Description}}
{{- end}}
{{- if .DependencyOutputs}}

## Upstream Findings
{{- range $id, $out := .DependencyOutputs}}
### {{$id}}
{{$out}}
{{- end}}
{{- end}}
{{- if .PatientPayload}}

## Patient Record
{{.PatientPayload}}
{{- end}}
`

// TemplateRenderer is the default PromptRenderer.
//
// Thread Safety:
//
//	TemplateRenderer is safe for concurrent use.
type TemplateRenderer struct {
	tmpl *template.Template
}

// NewTemplateRenderer builds the default renderer.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	tmpl, err := template.New("task_prompt").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(taskPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing task prompt template: %w", err)
	}
	return &TemplateRenderer{tmpl: tmpl}, nil
}

// Render implements PromptRenderer.
func (r *TemplateRenderer) Render(node datatypes.PromptNode, data PromptData) (string, error) {
	if data.TemplateID == "" {
		data.TemplateID = node.Config.TemplateID
	}
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt for %s: %w", node.ID.String(), err)
	}
	return buf.String(), nil
}
