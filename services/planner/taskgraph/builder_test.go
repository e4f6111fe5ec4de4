// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package taskgraph

import (
	"testing"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
)

func hasEdge(graph *datatypes.TaskGraph, from, to datatypes.TaskID) bool {
	for _, e := range graph.Edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

func countSynthesis(graph *datatypes.TaskGraph) int {
	n := 0
	for _, node := range graph.Nodes {
		if node.ID.IsSynthesis() {
			n++
		}
	}
	return n
}

func TestBuild_SingleLane(t *testing.T) {
	dc := datatypes.DomainContext{
		Domain:     datatypes.DomainSafety,
		Archetypes: []datatypes.Archetype{datatypes.ArchetypePreventabilityDetective},
	}
	graph, res := Build(dc, nil)

	if !res.Passed {
		t.Fatalf("expected passing result, got errors: %v", res.Errors)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", res.Warnings)
	}
	if got := len(graph.Nodes); got != 4 {
		t.Errorf("expected 3 lane nodes + synthesis, got %d nodes", got)
	}
	if countSynthesis(&graph) != 1 {
		t.Error("expected exactly one synthesis node")
	}

	final := datatypes.TaskID{Lane: "preventability_detective", Type: datatypes.TaskPreventabilityReview}
	if !hasEdge(&graph, final, datatypes.SynthesisTaskID) {
		t.Errorf("expected lane final %s to feed synthesis", final)
	}
	if graph.GraphID == "" {
		t.Error("expected a graph id")
	}
}

func TestBuild_TwoLanes(t *testing.T) {
	dc := datatypes.DomainContext{
		Domain: datatypes.DomainSafety,
		Archetypes: []datatypes.Archetype{
			datatypes.ArchetypeExclusionHunter,
			datatypes.ArchetypePreventabilityDetective,
		},
	}
	graph, res := Build(dc, nil)

	if !res.Passed {
		t.Fatalf("expected passing result, got errors: %v", res.Errors)
	}
	// 2 exclusion nodes + 3 preventability nodes + 1 synthesis.
	if got := len(graph.Nodes); got != 6 {
		t.Errorf("expected 6 nodes, got %d", got)
	}
	if countSynthesis(&graph) != 1 {
		t.Error("synthesis node must be added once, not per lane")
	}

	finals := []datatypes.TaskID{
		{Lane: "exclusion_hunter", Type: datatypes.TaskExclusionScreen},
		{Lane: "preventability_detective", Type: datatypes.TaskPreventabilityReview},
	}
	for _, f := range finals {
		if !hasEdge(&graph, f, datatypes.SynthesisTaskID) {
			t.Errorf("expected lane final %s to feed synthesis", f)
		}
	}
}

func TestBuild_NodesAreLaneNamespaced(t *testing.T) {
	dc := datatypes.DomainContext{
		Archetypes: []datatypes.Archetype{
			datatypes.ArchetypeProcessAuditor,
			datatypes.ArchetypeDelayDriverProfiler,
		},
	}
	graph, _ := Build(dc, nil)

	for _, n := range graph.Nodes {
		if n.ID.IsSynthesis() {
			if n.ID.Lane != datatypes.SynthesisLane {
				t.Errorf("synthesis node carries lane %q", n.ID.Lane)
			}
			continue
		}
		if n.ID.Lane != "process_auditor" && n.ID.Lane != "delay_driver_profiler" {
			t.Errorf("node %s is outside its archetype lane", n.ID)
		}
	}
}

func TestBuild_SynthesisAlwaysMustRun(t *testing.T) {
	dc := datatypes.DomainContext{
		Archetypes: []datatypes.Archetype{datatypes.ArchetypeOutcomeTracker},
	}
	graph, _ := Build(dc, nil)

	found := false
	for _, id := range graph.Constraints.MustRun {
		if id.IsSynthesis() {
			found = true
		}
	}
	if !found {
		t.Error("synthesis node missing from must_run")
	}
}

func TestBuild_OptionalFinalStillFeedsSynthesis(t *testing.T) {
	// The data scavenger lane ends in an optional node; it must still be the
	// edge into synthesis.
	dc := datatypes.DomainContext{
		Archetypes: []datatypes.Archetype{datatypes.ArchetypeDataScavenger},
	}
	graph, res := Build(dc, nil)

	if !res.Passed {
		t.Fatalf("expected passing result, got errors: %v", res.Errors)
	}
	gapScan := datatypes.TaskID{Lane: "data_scavenger", Type: datatypes.TaskGapScan}
	if !hasEdge(&graph, gapScan, datatypes.SynthesisTaskID) {
		t.Error("expected gap_scan to feed synthesis")
	}

	optional := false
	for _, id := range graph.Constraints.Optional {
		if id == gapScan {
			optional = true
		}
	}
	if !optional {
		t.Error("expected gap_scan to be optional")
	}
}

func TestBuild_UnknownArchetypeFallsBack(t *testing.T) {
	dc := datatypes.DomainContext{
		Archetypes: []datatypes.Archetype{datatypes.Archetype("Chart_Whisperer")},
	}
	graph, res := Build(dc, nil)

	if !res.Passed {
		t.Fatalf("expected passing result, got errors: %v", res.Errors)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a fallback warning")
	}
	// Fallback uses the process auditor template shape under the unknown lane.
	want := datatypes.TaskID{Lane: "chart_whisperer", Type: datatypes.TaskComplianceAudit}
	if _, ok := graph.Node(want); !ok {
		t.Errorf("expected fallback node %s", want)
	}
}

func TestValidate_EmptyGraph(t *testing.T) {
	graph := datatypes.TaskGraph{GraphID: "abc123def456"}
	res := Validate(&graph)
	if res.Passed {
		t.Error("expected empty graph to fail")
	}
}

func TestValidate_DuplicateNode(t *testing.T) {
	id := datatypes.TaskID{Lane: "process_auditor", Type: datatypes.TaskProtocolBaseline}
	graph := datatypes.TaskGraph{
		GraphID: "abc123def456",
		Nodes: []datatypes.TaskNode{
			{ID: id, Type: datatypes.TaskProtocolBaseline},
			{ID: id, Type: datatypes.TaskProtocolBaseline},
			{ID: datatypes.SynthesisTaskID, Type: datatypes.TaskMultiArchetypeSynthesis},
		},
		Constraints: datatypes.RunConstraints{
			MustRun: []datatypes.TaskID{datatypes.SynthesisTaskID},
		},
	}
	res := Validate(&graph)
	if res.Passed {
		t.Error("expected duplicate node id to fail")
	}
}

func TestValidate_DanglingEdge(t *testing.T) {
	graph := datatypes.TaskGraph{
		GraphID: "abc123def456",
		Nodes: []datatypes.TaskNode{
			{ID: datatypes.SynthesisTaskID, Type: datatypes.TaskMultiArchetypeSynthesis},
		},
		Edges: []datatypes.TaskEdge{
			{From: datatypes.TaskID{Lane: "ghost", Type: datatypes.TaskGapScan}, To: datatypes.SynthesisTaskID},
		},
		Constraints: datatypes.RunConstraints{
			MustRun: []datatypes.TaskID{datatypes.SynthesisTaskID},
		},
	}
	res := Validate(&graph)
	if res.Passed {
		t.Error("expected dangling edge to fail")
	}
}

func TestValidate_SynthesisNotMustRun(t *testing.T) {
	graph := datatypes.TaskGraph{
		GraphID: "abc123def456",
		Nodes: []datatypes.TaskNode{
			{ID: datatypes.SynthesisTaskID, Type: datatypes.TaskMultiArchetypeSynthesis},
		},
	}
	res := Validate(&graph)
	if res.Passed {
		t.Error("expected synthesis outside must_run to fail")
	}
}

func TestValidate_MissingSynthesis(t *testing.T) {
	id := datatypes.TaskID{Lane: "process_auditor", Type: datatypes.TaskProtocolBaseline}
	graph := datatypes.TaskGraph{
		GraphID: "abc123def456",
		Nodes:   []datatypes.TaskNode{{ID: id, Type: datatypes.TaskProtocolBaseline}},
	}
	res := Validate(&graph)
	if res.Passed {
		t.Error("expected graph without synthesis to fail")
	}
}

func TestValidate_MissingGraphID(t *testing.T) {
	graph := datatypes.TaskGraph{
		Nodes: []datatypes.TaskNode{
			{ID: datatypes.SynthesisTaskID, Type: datatypes.TaskMultiArchetypeSynthesis},
		},
		Constraints: datatypes.RunConstraints{
			MustRun: []datatypes.TaskID{datatypes.SynthesisTaskID},
		},
	}
	res := Validate(&graph)
	if res.Passed {
		t.Error("expected missing graph id to fail")
	}
}
