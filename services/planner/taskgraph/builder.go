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
	"log/slog"

	"github.com/google/uuid"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
	"github.com/AleutianAI/CareFactory/services/planner/validation"
)

// Build expands the resolved archetype list into one combined task graph.
//
// Description:
//
//	For each archetype, in the already priority-sorted order from domain
//	resolution, the lane template is instantiated with every node id and
//	edge endpoint namespaced by the archetype's lane tag. Each lane's final
//	node — the node that is never the source of a lane-internal edge — is
//	connected to the single synthesis node, which is added once, globally,
//	un-prefixed, and always placed in must_run. An archetype with no
//	template falls back to the Process_Auditor template with a warning; a
//	structurally broken result is caught by Validate, never repaired.
//
// Inputs:
//
//	dc - The resolved domain context (ordered archetypes).
//	logger - Logger. If nil, uses slog.Default().
//
// Outputs:
//
//	datatypes.TaskGraph - The combined graph.
//	validation.Result - Structural checks plus archetype advisory findings.
func Build(dc datatypes.DomainContext, logger *slog.Logger) (datatypes.TaskGraph, validation.Result) {
	if logger == nil {
		logger = slog.Default()
	}

	graph := datatypes.TaskGraph{GraphID: uuid.NewString()[:12]}
	res := validation.NewResult()

	for _, arch := range dc.Archetypes {
		tmpl, ok := templateFor(arch)
		if !ok {
			res.AddWarning("archetype %q has no lane template; using the Process_Auditor template", arch)
			tmpl = processAuditorTemplate
		}
		buildLane(&graph, arch.Lane(), tmpl)
	}

	// Single synthesis join. Always present, always must-run, even for a
	// single-lane graph.
	graph.Nodes = append(graph.Nodes, datatypes.TaskNode{
		ID:   datatypes.SynthesisTaskID,
		Type: datatypes.TaskMultiArchetypeSynthesis,
	})
	graph.Constraints.MustRun = append(graph.Constraints.MustRun, datatypes.SynthesisTaskID)

	result := Validate(&graph)
	res.Merge(result)
	validation.CheckGraphForArchetypes(&res, dc.Archetypes, &graph)

	logger.Debug("task graph built",
		slog.String("graph_id", graph.GraphID),
		slog.Int("lanes", len(dc.Archetypes)),
		slog.Int("nodes", len(graph.Nodes)),
		slog.Int("edges", len(graph.Edges)),
	)
	return graph, res
}

// buildLane instantiates one namespaced lane and joins its final node to the
// synthesis node.
func buildLane(graph *datatypes.TaskGraph, lane string, tmpl laneTemplate) {
	id := func(t datatypes.TaskType) datatypes.TaskID {
		return datatypes.TaskID{Lane: lane, Type: t}
	}

	for _, t := range tmpl.Nodes {
		graph.Nodes = append(graph.Nodes, datatypes.TaskNode{ID: id(t), Type: t})
	}
	hasOutgoing := make(map[datatypes.TaskType]bool, len(tmpl.Edges))
	for _, e := range tmpl.Edges {
		graph.Edges = append(graph.Edges, datatypes.TaskEdge{From: id(e[0]), To: id(e[1])})
		hasOutgoing[e[0]] = true
	}
	for _, t := range tmpl.MustRun {
		graph.Constraints.MustRun = append(graph.Constraints.MustRun, id(t))
	}
	for _, t := range tmpl.Optional {
		graph.Constraints.Optional = append(graph.Constraints.Optional, id(t))
	}

	// The lane's final node is the one with no outgoing lane-internal edge.
	// Templates are authored so exactly one such node exists.
	for _, t := range tmpl.Nodes {
		if !hasOutgoing[t] {
			graph.Edges = append(graph.Edges, datatypes.TaskEdge{
				From: id(t),
				To:   datatypes.SynthesisTaskID,
			})
			break
		}
	}
}
