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
	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
	"github.com/AleutianAI/CareFactory/services/planner/validation"
)

// Validate checks the structural invariants of a combined task graph.
//
// Fatal findings: zero nodes, a missing or duplicated synthesis node, a
// synthesis node absent from must_run, any edge endpoint or constraint
// entry referencing a node id that does not exist, and duplicate node ids.
func Validate(graph *datatypes.TaskGraph) validation.Result {
	res := validation.NewResult()

	if len(graph.Nodes) == 0 {
		res.AddError("task graph has no nodes")
		return res
	}

	ids := make(map[datatypes.TaskID]bool, len(graph.Nodes))
	synthCount := 0
	for _, n := range graph.Nodes {
		if ids[n.ID] {
			res.AddError("duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
		if n.ID.IsSynthesis() {
			synthCount++
		}
	}
	if synthCount != 1 {
		res.AddError("task graph has %d synthesis nodes, want exactly 1", synthCount)
	}

	for _, e := range graph.Edges {
		if !ids[e.From] {
			res.AddError("edge references unknown source node %q", e.From)
		}
		if !ids[e.To] {
			res.AddError("edge references unknown target node %q", e.To)
		}
	}

	synthMustRun := false
	for _, id := range graph.Constraints.MustRun {
		if !ids[id] {
			res.AddError("must_run references unknown node %q", id)
		}
		if id.IsSynthesis() {
			synthMustRun = true
		}
	}
	for _, id := range graph.Constraints.Optional {
		if !ids[id] {
			res.AddError("optional references unknown node %q", id)
		}
	}
	if synthCount == 1 && !synthMustRun {
		res.AddError("synthesis node is not in must_run")
	}

	if graph.GraphID == "" {
		res.AddError("task graph is missing a graph id")
	}
	return res
}
