// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package promptplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
	"github.com/AleutianAI/CareFactory/services/planner/taskgraph"
)

func buildTestGraph(t *testing.T, archetypes ...datatypes.Archetype) datatypes.TaskGraph {
	t.Helper()
	graph, res := taskgraph.Build(datatypes.DomainContext{
		Domain:     datatypes.DomainSafety,
		Archetypes: archetypes,
	}, nil)
	require.True(t, res.Passed, "graph build failed: %v", res.Errors)
	return graph
}

func TestBuild_FullCoverage(t *testing.T) {
	graph := buildTestGraph(t,
		datatypes.ArchetypeExclusionHunter,
		datatypes.ArchetypePreventabilityDetective,
	)

	plan, res := Build("HAC", &graph, nil)
	require.True(t, res.Passed, "errors: %v", res.Errors)
	assert.Equal(t, graph.GraphID, plan.GraphID)
	require.Len(t, plan.Nodes, len(graph.Nodes))

	for _, n := range plan.Nodes {
		assert.NotEmpty(t, n.Config.TemplateID, "node %s", n.ID)
		assert.NotEmpty(t, n.Config.Model, "node %s", n.ID)
	}
}

func TestBuild_TemplateIDShape(t *testing.T) {
	graph := buildTestGraph(t, datatypes.ArchetypeExclusionHunter)

	plan, _ := Build("HAC", &graph, nil)
	id := datatypes.TaskID{Lane: "exclusion_hunter", Type: datatypes.TaskCriteriaExtraction}
	node, ok := plan.Node(id)
	require.True(t, ok)
	assert.Equal(t, "hac/exclusion_hunter/criteria_extraction@"+RegistryVersion, node.Config.TemplateID)
}

func TestBuild_SchemaRefOnlyForSchemaFormat(t *testing.T) {
	graph := buildTestGraph(t, datatypes.ArchetypePreventabilityDetective)

	plan, _ := Build("HAC", &graph, nil)
	for _, n := range plan.Nodes {
		switch n.Config.Format {
		case datatypes.FormatJSONSchema:
			assert.Equal(t, "schemas/"+string(n.Type)+"_v1.json", n.Config.SchemaRef,
				"node %s", n.ID)
		default:
			assert.Empty(t, n.Config.SchemaRef, "node %s", n.ID)
		}
	}
}

func TestBuild_SynthesisIsNarrative(t *testing.T) {
	graph := buildTestGraph(t, datatypes.ArchetypeOutcomeTracker)

	plan, _ := Build("HAC", &graph, nil)
	node, ok := plan.Node(datatypes.SynthesisTaskID)
	require.True(t, ok)
	assert.Equal(t, datatypes.FormatJSON, node.Config.Format)
	assert.Equal(t, "gpt-4o", node.Config.Model)
	assert.False(t, node.Config.RequiresContext)
}

// Build runs the coverage checks itself, so callers must not merge Validate
// on top of its result or every finding doubles in the halting output.
func TestBuild_CoverageFindingsReportedOnce(t *testing.T) {
	graph := buildTestGraph(t, datatypes.ArchetypeExclusionHunter)
	graph.Nodes = append(graph.Nodes, datatypes.TaskNode{
		ID:   datatypes.TaskID{Lane: "exclusion_hunter", Type: "unmapped_task"},
		Type: "unmapped_task",
	})

	_, res := Build("HAC", &graph, nil)
	assert.False(t, res.Passed)

	seen := make(map[string]int)
	for _, e := range res.Errors {
		seen[e]++
	}
	for msg, n := range seen {
		assert.Equal(t, 1, n, "error reported %d times: %s", n, msg)
	}
	assert.Contains(t, seen, `task graph node "exclusion_hunter:unmapped_task" has no prompt node`)
}

func TestValidate_MissingPromptNode(t *testing.T) {
	graph := buildTestGraph(t, datatypes.ArchetypeExclusionHunter)
	plan, _ := Build("HAC", &graph, nil)
	plan.Nodes = plan.Nodes[:len(plan.Nodes)-1]

	res := Validate(&graph, &plan)
	assert.False(t, res.Passed)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "no prompt node")
}

func TestValidate_OrphanPromptNode(t *testing.T) {
	graph := buildTestGraph(t, datatypes.ArchetypeExclusionHunter)
	plan, _ := Build("HAC", &graph, nil)
	plan.Nodes = append(plan.Nodes, datatypes.PromptNode{
		ID:   datatypes.TaskID{Lane: "ghost", Type: datatypes.TaskGapScan},
		Type: datatypes.TaskGapScan,
		Config: datatypes.PromptConfig{
			TemplateID: "hac/ghost/gap_scan@" + RegistryVersion,
			Model:      "gpt-4o",
			Format:     datatypes.FormatJSON,
		},
	})

	res := Validate(&graph, &plan)
	assert.False(t, res.Passed)
}

func TestValidate_SchemaFormatNeedsRef(t *testing.T) {
	graph := buildTestGraph(t, datatypes.ArchetypeExclusionHunter)
	plan, _ := Build("HAC", &graph, nil)
	for i := range plan.Nodes {
		plan.Nodes[i].Config.SchemaRef = ""
	}

	res := Validate(&graph, &plan)
	assert.False(t, res.Passed)
}

func TestValidate_GraphIDMismatch(t *testing.T) {
	graph := buildTestGraph(t, datatypes.ArchetypeExclusionHunter)
	plan, _ := Build("HAC", &graph, nil)
	plan.GraphID = "different"

	res := Validate(&graph, &plan)
	assert.False(t, res.Passed)
}
