// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pipeline composes the planning stages into one run: concern
// resolution, domain/archetype resolution, skeleton construction, task
// graph construction, prompt plan attachment, and execution.
//
// Gating happens in exactly one place (gate). Every stage emits a
// validation result; a HALT decision stops the run with a StageError that
// names the stage. Warnings accumulate across stages and ride on the final
// result.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
	"github.com/AleutianAI/CareFactory/services/planner/executor"
	"github.com/AleutianAI/CareFactory/services/planner/promptplan"
	"github.com/AleutianAI/CareFactory/services/planner/registry"
	"github.com/AleutianAI/CareFactory/services/planner/resolve"
	"github.com/AleutianAI/CareFactory/services/planner/skeleton"
	"github.com/AleutianAI/CareFactory/services/planner/taskgraph"
	"github.com/AleutianAI/CareFactory/services/planner/validation"
)

var tracer = otel.Tracer("carefactory.pipeline")

// Stage names used in StageError and timing maps.
const (
	StageInput      = "input_validation"
	StageConcern    = "concern_resolution"
	StageDomain     = "domain_resolution"
	StageSkeleton   = "skeleton"
	StageTaskGraph  = "task_graph"
	StagePromptPlan = "prompt_plan"
	StageExecution  = "execution"
)

// PlanResult is the assembled output of one pipeline run.
type PlanResult struct {
	PlanID   string                       `json:"plan_id"`
	Routed   datatypes.RoutedInput        `json:"routed"`
	Domain   datatypes.DomainContext      `json:"domain"`
	Skeleton datatypes.StructuralSkeleton `json:"skeleton"`
	Graph    datatypes.TaskGraph          `json:"graph"`
	Prompts  datatypes.PromptPlan         `json:"prompts"`

	// Execution is nil for plan-only runs.
	Execution *executor.Result `json:"execution,omitempty"`

	// Warnings aggregates the WARN-level findings of every stage.
	Warnings []string `json:"warnings,omitempty"`

	StageDurations map[string]time.Duration `json:"stage_durations"`
}

// Pipeline wires the stages to one registry and one executor.
//
// Thread Safety:
//
//	Pipeline is safe for concurrent use once constructed.
type Pipeline struct {
	resolver *resolve.Resolver
	exec     *executor.Executor
	logger   *slog.Logger

	failAction    validation.FailAction
	skipExecution bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithFailAction sets how warning-only validation results gate. The default
// is validation.FailActionWarn.
func WithFailAction(a validation.FailAction) Option {
	return func(p *Pipeline) { p.failAction = a }
}

// WithoutExecution makes runs stop after prompt plan assembly (plan-only
// mode). The executor may then be nil.
func WithoutExecution() Option {
	return func(p *Pipeline) { p.skipExecution = true }
}

// New creates a pipeline.
//
// Inputs:
//
//	store - Lookup tables for concern/domain resolution. Must not be nil.
//	exec - Task executor. May be nil only with WithoutExecution.
//	logger - Logger for stage logs. If nil, uses slog.Default().
func New(store registry.Store, exec *executor.Executor, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrNilInput
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pipeline{
		resolver:   resolve.NewResolver(store, logger),
		exec:       exec,
		logger:     logger,
		failAction: validation.FailActionWarn,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.exec == nil && !p.skipExecution {
		return nil, ErrNilInput
	}
	return p, nil
}

// Run executes the full planning pipeline for one input.
//
// Outputs:
//
//	*PlanResult - The assembled plan. Partial on halt: stages that completed
//	              before the halting stage are populated.
//	error - A *StageError naming the halting stage, or nil.
func (p *Pipeline) Run(ctx context.Context, input *datatypes.PlanningInput) (*PlanResult, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if input == nil {
		return nil, ErrNilInput
	}

	ctx, span := tracer.Start(ctx, "pipeline.Run")
	defer span.End()

	result := &PlanResult{
		StageDurations: make(map[string]time.Duration),
	}

	// S0: input validation.
	stageStart := time.Now()
	if err := input.Validate(); err != nil {
		res := validation.NewResult()
		res.AddError("input validation failed: %v", err)
		return p.halt(span, result, StageInput, res, err)
	}
	result.StageDurations[StageInput] = time.Since(stageStart)

	// S1: concern resolution.
	stageStart = time.Now()
	routed, res, err := p.resolver.Concern(input)
	result.StageDurations[StageConcern] = time.Since(stageStart)
	if err != nil || p.gate(span, result, StageConcern, res) == validation.PolicyHalt {
		return p.halt(span, result, StageConcern, res, err)
	}
	result.Routed = routed

	// S2: domain and archetype resolution.
	stageStart = time.Now()
	dc, res, err := p.resolver.Domain(routed)
	result.StageDurations[StageDomain] = time.Since(stageStart)
	if err != nil || p.gate(span, result, StageDomain, res) == validation.PolicyHalt {
		return p.halt(span, result, StageDomain, res, err)
	}
	result.Domain = dc

	// S3: structural skeleton.
	stageStart = time.Now()
	skel, res := skeleton.Build(routed, dc, p.logger)
	result.StageDurations[StageSkeleton] = time.Since(stageStart)
	if p.gate(span, result, StageSkeleton, res) == validation.PolicyHalt {
		return p.halt(span, result, StageSkeleton, res, nil)
	}
	result.Skeleton = skel
	result.PlanID = skel.PlanID

	// S4: task graph.
	stageStart = time.Now()
	graph, res := taskgraph.Build(dc, p.logger)
	result.StageDurations[StageTaskGraph] = time.Since(stageStart)
	if p.gate(span, result, StageTaskGraph, res) == validation.PolicyHalt {
		return p.halt(span, result, StageTaskGraph, res, nil)
	}
	result.Graph = graph

	// S4.5: prompt plan attachment.
	stageStart = time.Now()
	prompts, res := promptplan.Build(dc.Domain, &graph, p.logger)
	result.StageDurations[StagePromptPlan] = time.Since(stageStart)
	if p.gate(span, result, StagePromptPlan, res) == validation.PolicyHalt {
		return p.halt(span, result, StagePromptPlan, res, nil)
	}
	result.Prompts = prompts

	span.SetAttributes(
		attribute.String("plan.id", result.PlanID),
		attribute.String("plan.concern", routed.Concern),
		attribute.String("plan.domain", dc.Domain),
		attribute.Int("plan.task_count", len(graph.Nodes)),
	)

	if p.skipExecution {
		span.SetStatus(codes.Ok, "")
		p.logger.Info("plan assembled (execution skipped)",
			slog.String("plan_id", result.PlanID),
			slog.String("concern", routed.Concern),
			slog.Int("warnings", len(result.Warnings)),
		)
		return result, nil
	}

	// S5: execution.
	stageStart = time.Now()
	execResult, err := p.exec.Run(ctx, executor.Request{
		PlanID:         result.PlanID,
		Skeleton:       skel,
		Graph:          graph,
		Plan:           prompts,
		PatientPayload: input.ResolvePatientPayload(),
	})
	result.StageDurations[StageExecution] = time.Since(stageStart)
	result.Execution = execResult
	if err != nil {
		res := validation.NewResult()
		res.AddError("execution failed: %v", err)
		return p.halt(span, result, StageExecution, res, err)
	}

	span.SetStatus(codes.Ok, "")
	p.logger.Info("plan completed",
		slog.String("plan_id", result.PlanID),
		slog.String("concern", routed.Concern),
		slog.Int("tasks_executed", len(execResult.Outputs)),
		slog.Int("warnings", len(result.Warnings)),
	)

	return result, nil
}

// gate is the single gating location for every stage. Warnings accumulate
// on the result; the returned policy decides whether the caller halts.
func (p *Pipeline) gate(span trace.Span, result *PlanResult, stage string, res validation.Result) validation.Policy {
	policy := validation.GateWith(res, p.failAction)

	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, stage+": "+w)
		p.logger.Warn("stage warning",
			slog.String("stage", stage),
			slog.String("warning", w),
		)
	}

	span.AddEvent("stage_gated", trace.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("policy", string(policy)),
	))
	return policy
}

// halt finalizes a halted run.
func (p *Pipeline) halt(span trace.Span, result *PlanResult, stage string, res validation.Result, cause error) (*PlanResult, error) {
	err := newStageError(stage, res, cause)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	p.logger.Error("pipeline halted",
		slog.String("stage", stage),
		slog.String("error", err.Error()),
	)
	return result, err
}
