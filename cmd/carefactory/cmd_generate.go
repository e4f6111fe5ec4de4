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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/CareFactory/pkg/ux"
	cliv "github.com/AleutianAI/CareFactory/pkg/validation"
	"github.com/AleutianAI/CareFactory/services/llm"
	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
	"github.com/AleutianAI/CareFactory/services/planner/executor"
	"github.com/AleutianAI/CareFactory/services/planner/pipeline"
	"github.com/AleutianAI/CareFactory/services/planner/registry"
	"github.com/AleutianAI/CareFactory/services/planner/validation"
)

var (
	genConcern     string
	genConcernText string
	genDomainHint  string
	genPatientFile string
	genBackend     string
	genPlanOnly    bool
	genFailAction  string
	registryDir    string
	genOutput      string

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Builds a review plan for a concern and runs it",
		Long: `Resolves the concern, builds the signal-group skeleton, task graph,
and prompt plan, then executes the plan against the selected backend.
Use --plan-only to stop before execution.`,
		Run: runGenerateCommand,
	}
)

func init() {
	generateCmd.Flags().StringVar(&genConcern, "concern", "", "explicit concern id (e.g. CLABSI, I25)")
	generateCmd.Flags().StringVar(&genConcernText, "text", "", "free-text concern description")
	generateCmd.Flags().StringVar(&genDomainHint, "domain", "", "optional domain hint")
	generateCmd.Flags().StringVar(&genPatientFile, "patient-file", "", "file holding the narrative patient payload")
	generateCmd.Flags().StringVar(&genBackend, "backend", "static", "generation backend: static, openai, or anthropic")
	generateCmd.Flags().BoolVar(&genPlanOnly, "plan-only", false, "assemble the plan without executing it")
	generateCmd.Flags().StringVar(&genFailAction, "fail-action", "warn", "gate behavior for warnings: warn or block")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "write the plan result to a file instead of stdout")
}

func newCLIBackend(name string) (llm.Client, error) {
	switch name {
	case "openai":
		return llm.NewOpenAIClient()
	case "claude", "anthropic":
		return llm.NewAnthropicClient()
	case "static", "dry-run":
		return llm.NewStaticClient(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

func buildPipeline(ctx context.Context, planOnly bool) (*pipeline.Pipeline, registry.Store, error) {
	store, err := registry.Load(ctx, registryDir, cliLogger.Slog())
	if err != nil {
		return nil, nil, fmt.Errorf("loading registry: %w", err)
	}

	var opts []pipeline.Option
	if genFailAction == "block" {
		opts = append(opts, pipeline.WithFailAction(validation.FailActionBlock))
	}

	var exec *executor.Executor
	if planOnly {
		opts = append(opts, pipeline.WithoutExecution())
	} else {
		backend, err := newCLIBackend(genBackend)
		if err != nil {
			return nil, nil, err
		}
		exec, err = executor.NewExecutor(backend, cliLogger.Slog())
		if err != nil {
			return nil, nil, err
		}
	}

	p, err := pipeline.New(store, exec, cliLogger.Slog(), opts...)
	if err != nil {
		return nil, nil, err
	}
	return p, store, nil
}

func runGenerateCommand(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if genConcern != "" {
		sanitized, err := cliv.SanitizeConcernID(genConcern)
		if err != nil {
			fatal("Invalid concern id", err)
		}
		genConcern = sanitized
	}

	input := &datatypes.PlanningInput{
		ConcernID:   genConcern,
		ConcernText: genConcernText,
		DomainHint:  genDomainHint,
	}
	if genPatientFile != "" {
		payload, err := os.ReadFile(genPatientFile)
		if err != nil {
			fatal("Failed to read the patient file", err)
		}
		input.PatientPayload = string(payload)
	}

	p, _, err := buildPipeline(ctx, genPlanOnly)
	if err != nil {
		fatal("Failed to build the pipeline", err)
	}

	result, err := p.Run(ctx, input)
	if err != nil {
		// Warnings collected before the halt still matter for diagnosis.
		if result != nil {
			for _, w := range result.Warnings {
				ux.Warning(w)
			}
		}
		fatal("Plan failed", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fatal("Failed to serialize the plan result", err)
	}

	if genOutput != "" {
		if err := os.WriteFile(genOutput, out, 0644); err != nil {
			fatal("Failed to write the output file", err)
		}
		ux.Success(fmt.Sprintf("Plan %s written to %s", result.PlanID, genOutput))
		return
	}
	fmt.Println(string(out))
}
