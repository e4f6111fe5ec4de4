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
	"log/slog"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
	"github.com/AleutianAI/CareFactory/services/planner/validation"
)

// Build attaches prompt configuration to every node of the task graph.
//
// Inputs:
//
//	domain - The resolved domain (part of the template id key).
//	graph - The validated task graph.
//	logger - Logger. If nil, uses slog.Default().
//
// Outputs:
//
//	datatypes.PromptPlan - One prompt node per graph node, same order.
//	validation.Result - Coverage and schema-reference checks.
func Build(domain string, graph *datatypes.TaskGraph, logger *slog.Logger) (datatypes.PromptPlan, validation.Result) {
	if logger == nil {
		logger = slog.Default()
	}

	plan := datatypes.PromptPlan{GraphID: graph.GraphID}
	res := validation.NewResult()

	for _, n := range graph.Nodes {
		cfg, err := configFor(domain, n.ID)
		if err != nil {
			res.AddError("node %q: %v", n.ID, err)
			continue
		}
		plan.Nodes = append(plan.Nodes, datatypes.PromptNode{
			ID:     n.ID,
			Type:   n.Type,
			Config: cfg,
		})
	}

	coverage := Validate(graph, &plan)
	res.Merge(coverage)

	logger.Debug("prompt plan built",
		slog.String("graph_id", plan.GraphID),
		slog.Int("nodes", len(plan.Nodes)),
	)
	return plan, res
}

// Validate checks the 1:1 correspondence between graph and prompt nodes and
// that every json_schema config carries a schema reference.
func Validate(graph *datatypes.TaskGraph, plan *datatypes.PromptPlan) validation.Result {
	res := validation.NewResult()

	if plan.GraphID != graph.GraphID {
		res.AddError("prompt plan graph id %q does not match task graph %q",
			plan.GraphID, graph.GraphID)
	}

	planned := make(map[datatypes.TaskID]bool, len(plan.Nodes))
	for _, n := range plan.Nodes {
		if planned[n.ID] {
			res.AddError("duplicate prompt node %q", n.ID)
		}
		planned[n.ID] = true

		if _, ok := graph.Node(n.ID); !ok {
			res.AddError("prompt node %q has no task graph node", n.ID)
		}
		if n.Config.Format == datatypes.FormatJSONSchema && n.Config.SchemaRef == "" {
			res.AddError("prompt node %q uses json_schema with no schema reference", n.ID)
		}
		if n.Config.TemplateID == "" {
			res.AddError("prompt node %q is missing a template id", n.ID)
		}
		if n.Config.Model == "" {
			res.AddError("prompt node %q is missing a model", n.ID)
		}
	}
	for _, n := range graph.Nodes {
		if !planned[n.ID] {
			res.AddError("task graph node %q has no prompt node", n.ID)
		}
	}
	return res
}
