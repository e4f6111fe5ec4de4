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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/CareFactory/pkg/ux"
	"github.com/AleutianAI/CareFactory/pkg/validation"
	"github.com/AleutianAI/CareFactory/services/planner/registry"
)

var concernsCmd = &cobra.Command{
	Use:   "concerns [concern]",
	Short: "Shows how a concern id routes",
	Long: `Looks the concern id up in the loaded registry and prints its domain,
primary archetype, and ranking tier when one applies.`,
	Args: cobra.ExactArgs(1),
	Run:  runConcernsCommand,
}

func runConcernsCommand(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := registry.Load(ctx, registryDir, cliLogger.Slog())
	if err != nil {
		fatal("Failed to load the registry", err)
	}

	concern, err := validation.SanitizeConcernID(args[0])
	if err != nil {
		fatal("Invalid concern id", err)
	}

	mapping, ok := store.ResolveConcern(concern)
	if !ok {
		ux.Warning(fmt.Sprintf("%s: no domain mapping (would fall back to HAC with a warning)", concern))
		return
	}

	ux.Success(fmt.Sprintf("%s: domain=%s archetype=%s", concern, mapping.Domain, mapping.Archetype))
	if entry, ok := store.Ranking(concern); ok {
		ux.Muted(fmt.Sprintf("ranking: specialty=%s rank=%d emphasis=%v",
			entry.Specialty, entry.Rank, entry.SignalEmphasis))
	}
}
