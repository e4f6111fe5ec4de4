// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package executor dispatches a prompt plan against a generation backend.
//
// Execution respects the task graph's dependency edges, runs independent
// tasks in parallel, and records every output exactly once. Tasks that
// require a patient payload fail before any backend call when none was
// provided.
package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/CareFactory/services/llm"
	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
)

var (
	tracer = otel.Tracer("carefactory.executor")
	meter  = otel.Meter("carefactory.executor")
)

const (
	// DefaultTaskTimeout bounds a single backend call.
	DefaultTaskTimeout = 90 * time.Second

	// DefaultRateLimit is the default backend call rate.
	DefaultRateLimit = rate.Limit(2)

	// DefaultBurst is the default rate limiter burst.
	DefaultBurst = 4
)

// Request carries everything one execution run needs.
type Request struct {
	PlanID   string
	Skeleton datatypes.StructuralSkeleton
	Graph    datatypes.TaskGraph
	Plan     datatypes.PromptPlan

	// PatientPayload is the resolved narrative patient record. Empty means
	// no patient context was provided.
	PatientPayload string
}

// Result is the outcome of one execution run.
type Result struct {
	PlanID  string `json:"plan_id"`
	Success bool   `json:"success"`

	// FailedTask and Error are set when the run aborted.
	FailedTask string `json:"failed_task,omitempty"`
	Error      string `json:"error,omitempty"`

	// Outputs holds the write-once output per completed task.
	Outputs map[datatypes.TaskID]TaskOutput `json:"outputs"`

	// SkippedOptional lists optional tasks that failed; their dependents ran
	// without their outputs.
	SkippedOptional []datatypes.TaskID `json:"skipped_optional,omitempty"`

	Duration      time.Duration            `json:"duration"`
	TaskDurations map[string]time.Duration `json:"task_durations,omitempty"`
}

// Executor runs prompt plans with parallelism and observability.
//
// Thread Safety:
//
//	Executor is safe for concurrent use. Multiple runs can share one
//	Executor and one rate limiter.
type Executor struct {
	backend  llm.Client
	renderer PromptRenderer
	schemas  SchemaResolver
	limiter  *rate.Limiter
	logger   *slog.Logger

	taskTimeout time.Duration

	// Metrics (initialized lazily)
	metricsOnce   sync.Once
	taskLatency   metric.Float64Histogram
	taskSuccesses metric.Int64Counter
	taskFailures  metric.Int64Counter
	activeTasks   metric.Int64UpDownCounter
	runLatency    metric.Float64Histogram
}

// Option configures an Executor.
type Option func(*Executor)

// WithTaskTimeout overrides the per-task backend timeout.
func WithTaskTimeout(d time.Duration) Option {
	return func(e *Executor) { e.taskTimeout = d }
}

// WithRateLimit overrides the backend call rate limiter.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(e *Executor) { e.limiter = rate.NewLimiter(limit, burst) }
}

// WithSchemaResolver overrides the embedded schema set.
func WithSchemaResolver(r SchemaResolver) Option {
	return func(e *Executor) { e.schemas = r }
}

// WithRenderer overrides the default prompt renderer.
func WithRenderer(r PromptRenderer) Option {
	return func(e *Executor) { e.renderer = r }
}

// NewExecutor creates an executor bound to one generation backend.
//
// Inputs:
//
//	backend - The generation backend. Must not be nil.
//	logger - Logger for execution logs. If nil, uses slog.Default().
//
// Outputs:
//
//	*Executor - The configured executor.
//	error - Non-nil if initialization fails.
func NewExecutor(backend llm.Client, logger *slog.Logger, opts ...Option) (*Executor, error) {
	if backend == nil {
		return nil, ErrInvalidInput
	}
	if logger == nil {
		logger = slog.Default()
	}

	renderer, err := NewTemplateRenderer()
	if err != nil {
		return nil, err
	}

	e := &Executor{
		backend:     backend,
		renderer:    renderer,
		schemas:     EmbeddedSchemas{},
		limiter:     rate.NewLimiter(DefaultRateLimit, DefaultBurst),
		logger:      logger,
		taskTimeout: DefaultTaskTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// initMetrics lazily initializes metrics.
// Logs errors if metric creation fails but continues execution.
func (e *Executor) initMetrics() {
	e.metricsOnce.Do(func() {
		var initErrors []string

		var err error
		e.taskLatency, err = meter.Float64Histogram("executor_task_duration_seconds",
			metric.WithDescription("Time spent executing each task"),
			metric.WithUnit("s"),
		)
		if err != nil {
			initErrors = append(initErrors, "task_latency: "+err.Error())
		}

		e.taskSuccesses, err = meter.Int64Counter("executor_task_success_total",
			metric.WithDescription("Number of successful task executions"),
		)
		if err != nil {
			initErrors = append(initErrors, "task_successes: "+err.Error())
		}

		e.taskFailures, err = meter.Int64Counter("executor_task_failure_total",
			metric.WithDescription("Number of failed task executions"),
		)
		if err != nil {
			initErrors = append(initErrors, "task_failures: "+err.Error())
		}

		e.activeTasks, err = meter.Int64UpDownCounter("executor_active_tasks",
			metric.WithDescription("Number of currently executing tasks"),
		)
		if err != nil {
			initErrors = append(initErrors, "active_tasks: "+err.Error())
		}

		e.runLatency, err = meter.Float64Histogram("executor_run_duration_seconds",
			metric.WithDescription("Total execution run time"),
			metric.WithUnit("s"),
		)
		if err != nil {
			initErrors = append(initErrors, "run_latency: "+err.Error())
		}

		if len(initErrors) > 0 {
			e.logger.Error("failed to initialize some executor metrics (observability degraded)",
				slog.Int("failed_count", len(initErrors)),
				slog.Any("errors", initErrors),
			)
		}
	})
}

// runState tracks per-run progress. A task is settled when it completed or
// when it failed and was optional; dependents of a settled task may run.
type runState struct {
	mu              sync.Mutex
	settled         map[datatypes.TaskID]bool
	running         map[datatypes.TaskID]bool
	skippedOptional []datatypes.TaskID
}

func newRunState() *runState {
	return &runState{
		settled: make(map[datatypes.TaskID]bool),
		running: make(map[datatypes.TaskID]bool),
	}
}

func (s *runState) settle(id datatypes.TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, id)
	s.settled[id] = true
}

func (s *runState) skipOptional(id datatypes.TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, id)
	s.settled[id] = true
	s.skippedOptional = append(s.skippedOptional, id)
}

func (s *runState) isSettled(id datatypes.TaskID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settled[id]
}

func (s *runState) settledCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.settled)
}

// Run executes the prompt plan from start to completion.
//
// Description:
//
//	Executes every task in dependency order, running independent tasks in
//	parallel. The synthesis task runs last because every lane's final task
//	edges into it. A must-run task failure aborts the run; an optional task
//	failure is recorded and skipped.
//
// Inputs:
//
//	ctx - Context for cancellation. Must not be nil.
//	req - The plan to execute.
//
// Outputs:
//
//	*Result - Execution result including outputs and timing.
//	error - Non-nil on abort. The result is still populated with partial
//	        outputs for diagnostics.
func (e *Executor) Run(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if len(req.Graph.Nodes) == 0 {
		return nil, fmt.Errorf("%w: graph has no nodes", ErrInvalidInput)
	}
	if req.Plan.GraphID != req.Graph.GraphID {
		return nil, fmt.Errorf("%w: prompt plan %q does not match graph %q",
			ErrInvalidInput, req.Plan.GraphID, req.Graph.GraphID)
	}

	e.initMetrics()

	ctx, span := tracer.Start(ctx, "executor.Run",
		trace.WithAttributes(
			attribute.String("plan.id", req.PlanID),
			attribute.String("plan.concern", req.Skeleton.Concern.Concern),
			attribute.Int("plan.task_count", len(req.Graph.Nodes)),
		),
	)
	defer span.End()

	start := time.Now()

	e.logger.Info("execution started",
		slog.String("plan_id", req.PlanID),
		slog.String("concern", req.Skeleton.Concern.Concern),
		slog.Int("tasks", len(req.Graph.Nodes)),
	)

	// Preflight: every node needs a prompt config, and tasks that require
	// patient context must fail before any dispatch when none was resolved.
	if err := e.preflight(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return e.buildResult(req, newRunState(), newOutputStore(), start, nil, err), err
	}

	optional := make(map[datatypes.TaskID]bool, len(req.Graph.Constraints.Optional))
	for _, id := range req.Graph.Constraints.Optional {
		optional[id] = true
	}

	state := newRunState()
	outputs := newOutputStore()
	taskDurations := make(map[string]time.Duration)
	var durMu sync.Mutex

	for state.settledCount() < len(req.Graph.Nodes) {
		select {
		case <-ctx.Done():
			span.RecordError(ctx.Err())
			span.SetStatus(codes.Error, "context canceled")
			return e.buildResult(req, state, outputs, start, taskDurations, ctx.Err()), ctx.Err()
		default:
		}

		ready := e.findReadyTasks(req.Graph, state)
		if len(ready) == 0 {
			err := ErrNoProgress
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return e.buildResult(req, state, outputs, start, taskDurations, err), err
		}

		var wg sync.WaitGroup
		errCh := make(chan error, len(ready))

		for _, node := range ready {
			state.mu.Lock()
			state.running[node.ID] = true
			state.mu.Unlock()

			wg.Add(1)
			go func(n datatypes.TaskNode) {
				defer wg.Done()

				taskStart := time.Now()
				err := e.executeTask(ctx, req, n, outputs)
				durMu.Lock()
				taskDurations[n.ID.String()] = time.Since(taskStart)
				durMu.Unlock()

				if err == nil {
					state.settle(n.ID)
					return
				}
				if optional[n.ID] {
					e.logger.Warn("optional task failed, continuing",
						slog.String("task", n.ID.String()),
						slog.String("error", err.Error()),
					)
					state.skipOptional(n.ID)
					return
				}
				errCh <- err
			}(node)
		}

		wg.Wait()
		close(errCh)

		if err := <-errCh; err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return e.buildResult(req, state, outputs, start, taskDurations, err), err
		}
	}

	// Every must-run task needs a recorded output; a skipped optional task
	// must never appear in the must-run set.
	for _, id := range req.Graph.Constraints.MustRun {
		if !outputs.has(id) {
			err := NewTaskError(id, ErrMustRunIncomplete)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return e.buildResult(req, state, outputs, start, taskDurations, err), err
		}
	}

	duration := time.Since(start)
	if e.runLatency != nil {
		e.runLatency.Record(ctx, duration.Seconds(),
			metric.WithAttributes(attribute.String("domain", req.Skeleton.Concern.Domain)),
		)
	}
	span.SetStatus(codes.Ok, "")

	result := e.buildResult(req, state, outputs, start, taskDurations, nil)

	e.logger.Info("execution completed",
		slog.String("plan_id", req.PlanID),
		slog.Duration("duration", duration),
		slog.Int("tasks_executed", len(result.Outputs)),
		slog.Int("optional_skipped", len(result.SkippedOptional)),
	)

	return result, nil
}

// preflight rejects a run before any backend dispatch.
func (e *Executor) preflight(req Request) error {
	for _, node := range req.Graph.Nodes {
		pn, ok := req.Plan.Node(node.ID)
		if !ok {
			return NewTaskError(node.ID, ErrMissingPromptConfig)
		}
		if pn.Config.RequiresContext && req.PatientPayload == "" {
			return NewTaskError(node.ID, ErrMissingPatientContext)
		}
	}
	return nil
}

// findReadyTasks returns tasks whose dependencies are all settled.
func (e *Executor) findReadyTasks(graph datatypes.TaskGraph, state *runState) []datatypes.TaskNode {
	ready := make([]datatypes.TaskNode, 0)

	for _, node := range graph.Nodes {
		state.mu.Lock()
		skip := state.settled[node.ID] || state.running[node.ID]
		state.mu.Unlock()
		if skip {
			continue
		}

		allSettled := true
		for _, dep := range graph.Dependencies(node.ID) {
			if !state.isSettled(dep) {
				allSettled = false
				break
			}
		}
		if allSettled {
			ready = append(ready, node)
		}
	}

	return ready
}

// executeTask runs a single task against the backend with observability.
func (e *Executor) executeTask(
	ctx context.Context,
	req Request,
	node datatypes.TaskNode,
	outputs *outputStore,
) error {
	ctx, span := tracer.Start(ctx, "executor."+string(node.Type),
		trace.WithAttributes(
			attribute.String("task.id", node.ID.String()),
			attribute.String("task.lane", node.ID.Lane),
			attribute.String("plan.id", req.PlanID),
		),
	)
	defer span.End()

	if e.activeTasks != nil {
		e.activeTasks.Add(ctx, 1)
		defer e.activeTasks.Add(ctx, -1)
	}

	pn, ok := req.Plan.Node(node.ID)
	if !ok {
		return NewTaskError(node.ID, ErrMissingPromptConfig)
	}

	// Gather upstream outputs. A skipped optional dependency simply leaves
	// no entry.
	depOutputs := make(map[string]string)
	for _, dep := range req.Graph.Dependencies(node.ID) {
		if out, ok := outputs.get(dep); ok {
			depOutputs[dep.String()] = out.Raw
		}
	}

	payload := ""
	if pn.Config.RequiresContext {
		payload = req.PatientPayload
	}

	prompt, err := e.renderer.Render(pn, PromptData{
		TemplateID:        pn.Config.TemplateID,
		Lane:              node.ID.Lane,
		TaskType:          node.Type,
		Concern:           req.Skeleton.Concern,
		SignalGroups:      req.Skeleton.SignalGroups,
		PatientPayload:    payload,
		DependencyOutputs: depOutputs,
	})
	if err != nil {
		e.recordFailure(ctx, span, node, err)
		return NewTaskError(node.ID, err)
	}

	params := llm.GenerationParams{
		Model:  pn.Config.Model,
		Format: string(pn.Config.Format),
	}
	temp := pn.Config.Temperature
	params.Temperature = &temp

	if pn.Config.Format == datatypes.FormatJSONSchema {
		name, schema, err := e.schemas.Resolve(pn.Config.SchemaRef)
		if err != nil {
			e.recordFailure(ctx, span, node, err)
			return NewTaskError(node.ID, err)
		}
		params.SchemaName = name
		params.Schema = schema
	}

	if err := e.limiter.Wait(ctx); err != nil {
		e.recordFailure(ctx, span, node, err)
		return NewTaskError(node.ID, err)
	}

	e.logger.Debug("task dispatching",
		slog.String("task", node.ID.String()),
		slog.String("model", pn.Config.Model),
	)

	start := time.Now()
	taskCtx, cancel := context.WithTimeout(ctx, e.taskTimeout)
	defer cancel()

	raw, err := e.backend.Generate(taskCtx, prompt, params)
	duration := time.Since(start)

	if e.taskLatency != nil {
		e.taskLatency.Record(ctx, duration.Seconds(),
			metric.WithAttributes(attribute.String("task_type", string(node.Type))),
		)
	}

	if err != nil {
		if taskCtx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("%w: %s", ErrTaskTimeout, node.ID.String())
		}
		e.recordFailure(ctx, span, node, err)
		e.logger.Error("task failed",
			slog.String("task", node.ID.String()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		)
		return NewTaskError(node.ID, err)
	}

	if err := checkFormat(pn.Config.Format, raw); err != nil {
		e.recordFailure(ctx, span, node, err)
		return NewTaskError(node.ID, err)
	}

	if err := outputs.put(TaskOutput{
		ID:          node.ID,
		Type:        node.Type,
		Raw:         raw,
		Model:       pn.Config.Model,
		Duration:    duration,
		CompletedAt: time.Now().UTC(),
	}); err != nil {
		e.recordFailure(ctx, span, node, err)
		return err
	}

	if e.taskSuccesses != nil {
		e.taskSuccesses.Add(ctx, 1,
			metric.WithAttributes(attribute.String("task_type", string(node.Type))),
		)
	}
	span.SetStatus(codes.Ok, "")

	e.logger.Info("task completed",
		slog.String("task", node.ID.String()),
		slog.Duration("duration", duration),
	)

	return nil
}

func (e *Executor) recordFailure(ctx context.Context, span trace.Span, node datatypes.TaskNode, err error) {
	if e.taskFailures != nil {
		e.taskFailures.Add(ctx, 1,
			metric.WithAttributes(attribute.String("task_type", string(node.Type))),
		)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// checkFormat validates the backend output against the declared response
// format. Schema validation proper happens server side for json_schema;
// locally the output must at least be valid JSON.
func checkFormat(format datatypes.ResponseFormat, raw string) error {
	switch format {
	case datatypes.FormatJSON, datatypes.FormatJSONSchema:
		if !json.Valid([]byte(raw)) {
			return fmt.Errorf("%w: not valid JSON", ErrMalformedOutput)
		}
	}
	return nil
}

// buildResult constructs the execution result.
func (e *Executor) buildResult(
	req Request,
	state *runState,
	outputs *outputStore,
	start time.Time,
	taskDurations map[string]time.Duration,
	err error,
) *Result {
	result := &Result{
		PlanID:        req.PlanID,
		Outputs:       outputs.snapshot(),
		Duration:      time.Since(start),
		TaskDurations: taskDurations,
	}

	state.mu.Lock()
	result.SkippedOptional = append(result.SkippedOptional, state.skippedOptional...)
	state.mu.Unlock()

	if err != nil {
		result.Success = false
		result.Error = err.Error()
		var taskErr *TaskError
		if errors.As(err, &taskErr) {
			result.FailedTask = taskErr.TaskID.String()
		}
	} else {
		result.Success = true
	}

	return result
}
