// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/CareFactory/pkg/ux"
	"github.com/AleutianAI/CareFactory/pkg/validation"
	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
)

var graphCmd = &cobra.Command{
	Use:   "graph [concern]",
	Short: "Prints the task graph a concern would produce",
	Long: `Assembles the plan without executing it and prints the lanes, task
nodes, and dependency edges of the resulting task graph.`,
	Args: cobra.ExactArgs(1),
	Run:  runGraphCommand,
}

func runGraphCommand(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	concern, err := validation.SanitizeConcernID(args[0])
	if err != nil {
		fatal("Invalid concern id", err)
	}

	p, _, err := buildPipeline(ctx, true)
	if err != nil {
		fatal("Failed to build the pipeline", err)
	}

	result, err := p.Run(ctx, &datatypes.PlanningInput{ConcernID: concern})
	if err != nil {
		fatal("Plan assembly failed", err)
	}

	graph := result.Graph
	ux.Title(fmt.Sprintf("Plan %s  concern=%s  domain=%s",
		result.PlanID, result.Routed.Concern, result.Domain.Domain))

	// Group nodes by lane for readable output.
	byLane := make(map[string][]datatypes.TaskNode)
	lanes := make([]string, 0)
	for _, n := range graph.Nodes {
		if _, ok := byLane[n.ID.Lane]; !ok {
			lanes = append(lanes, n.ID.Lane)
		}
		byLane[n.ID.Lane] = append(byLane[n.ID.Lane], n)
	}
	sort.Strings(lanes)

	for _, lane := range lanes {
		fmt.Println()
		ux.Subtitle("lane " + lane + ":")
		for _, n := range byLane[lane] {
			status, note := ux.IconBullet, ""
			for _, id := range graph.Constraints.Optional {
				if id == n.ID {
					status, note = ux.IconOptional, "optional"
				}
			}
			ux.TaskStatus(n.ID.String(), status, note)
		}
	}

	fmt.Println()
	ux.Subtitle("edges:")
	for _, e := range graph.Edges {
		ux.Muted(fmt.Sprintf("  %s %s %s", e.From.String(), ux.IconArrow, e.To.String()))
	}

	for _, w := range result.Warnings {
		ux.Warning(w)
	}
	ux.Summary(len(lanes), len(graph.Nodes), len(result.Warnings))
}
