// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package promptplan attaches versioned prompt/model configuration to every
// node of a task graph. Attachment is a pure registry lookup keyed on
// (domain, lane, task type): no external call, deterministic on every run.
package promptplan

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
)

// RegistryVersion tags the prompt configuration snapshot baked into this
// build. It is embedded into every template id.
const RegistryVersion = "2025.08"

// Models used per task class. Structured extraction runs on the cheaper
// model; narrative synthesis gets the stronger one.
const (
	structuredModel = "gpt-4o-mini"
	narrativeModel  = "gpt-4o"
)

// taskClass fixes response format, temperature, model, and the patient
// context precondition per task type.
type taskClass struct {
	Format          datatypes.ResponseFormat
	Temperature     float32
	Model           string
	RequiresContext bool
}

// structured tasks use schema-validated JSON at low temperature; narrative
// tasks use plain JSON at higher temperature.
var taskClasses = map[datatypes.TaskType]taskClass{
	datatypes.TaskProtocolBaseline:        {datatypes.FormatJSONSchema, 0.1, structuredModel, false},
	datatypes.TaskTimelineReconstruction:  {datatypes.FormatJSON, 0.6, narrativeModel, true},
	datatypes.TaskComplianceAudit:         {datatypes.FormatJSONSchema, 0.1, structuredModel, false},
	datatypes.TaskEvidenceSweep:           {datatypes.FormatJSON, 0.6, narrativeModel, true},
	datatypes.TaskRiskFactorReview:        {datatypes.FormatJSONSchema, 0.2, structuredModel, true},
	datatypes.TaskPreventabilityReview:    {datatypes.FormatJSON, 0.7, narrativeModel, false},
	datatypes.TaskCriteriaExtraction:      {datatypes.FormatJSONSchema, 0.1, structuredModel, false},
	datatypes.TaskExclusionScreen:         {datatypes.FormatJSONSchema, 0.2, structuredModel, true},
	datatypes.TaskSourceInventory:         {datatypes.FormatJSONSchema, 0.1, structuredModel, false},
	datatypes.TaskGapScan:                 {datatypes.FormatJSON, 0.6, narrativeModel, true},
	datatypes.TaskMilestoneMapping:        {datatypes.FormatJSONSchema, 0.1, structuredModel, false},
	datatypes.TaskDelayAttribution:        {datatypes.FormatJSON, 0.6, narrativeModel, true},
	datatypes.TaskOutcomeBaseline:         {datatypes.FormatJSONSchema, 0.2, structuredModel, true},
	datatypes.TaskTrendProjection:         {datatypes.FormatJSON, 0.6, narrativeModel, false},
	datatypes.TaskMultiArchetypeSynthesis: {datatypes.FormatJSON, 0.7, narrativeModel, false},
}

// configFor builds the prompt config for one node.
//
// Outputs:
//
//	datatypes.PromptConfig - The deterministic configuration.
//	error - Non-nil only for a task type with no registry entry, which is a
//	        code defect (templates and this registry must stay in sync).
func configFor(domain string, id datatypes.TaskID) (datatypes.PromptConfig, error) {
	class, ok := taskClasses[id.Type]
	if !ok {
		return datatypes.PromptConfig{}, fmt.Errorf("task type %q has no prompt registry entry", id.Type)
	}

	cfg := datatypes.PromptConfig{
		TemplateID: fmt.Sprintf("%s/%s/%s@%s",
			strings.ToLower(domain), id.Lane, id.Type, RegistryVersion),
		Model:           class.Model,
		Temperature:     class.Temperature,
		Format:          class.Format,
		RequiresContext: class.RequiresContext,
	}
	if class.Format == datatypes.FormatJSONSchema {
		cfg.SchemaRef = fmt.Sprintf("schemas/%s_v1.json", id.Type)
	}
	return cfg, nil
}
