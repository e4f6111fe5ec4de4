// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the planner service.
//
// # Description
//
// This package implements Prometheus metrics for monitoring plan generation
// and execution. Metrics include:
//   - Plan counters (by outcome)
//   - Halt counters (by pipeline stage)
//   - Plan duration histograms
//   - Active plan gauges
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const metricsNamespace = "carefactory"

// Subsystem for planning metrics
const planningSubsystem = "planning"

// Outcome labels a finished plan run for metrics.
type Outcome string

const (
	// OutcomeSuccess indicates the pipeline completed all stages.
	OutcomeSuccess Outcome = "success"

	// OutcomeHalted indicates a validation gate stopped the pipeline.
	OutcomeHalted Outcome = "halted"

	// OutcomeError indicates an infrastructure failure, not a gate.
	OutcomeError Outcome = "error"
)

// PlanningMetrics holds all Prometheus metrics for plan operations.
//
// # Description
//
// Provides counters, histograms, and gauges for monitoring planning
// throughput and latency. Initialize once at startup via InitMetrics().
//
// # Thread Safety
//
// All operations are thread-safe.
type PlanningMetrics struct {
	// PlansTotal counts plan requests by outcome.
	// Labels: outcome (success, halted, error)
	PlansTotal *prometheus.CounterVec

	// HaltsTotal counts pipeline halts by stage.
	// Labels: stage (concern_resolution, plan_skeleton, execution, etc.)
	HaltsTotal *prometheus.CounterVec

	// WarningsTotal counts gate warnings by stage.
	// Labels: stage
	WarningsTotal *prometheus.CounterVec

	// PlanDurationSeconds measures end-to-end pipeline duration.
	// Labels: outcome (success, halted, error)
	PlanDurationSeconds *prometheus.HistogramVec

	// ActivePlans tracks plan requests currently in flight.
	ActivePlans prometheus.Gauge
}

// DefaultMetrics is the singleton instance of PlanningMetrics.
// Initialized by InitMetrics(). Handlers must tolerate nil so tests
// can run without touching the default registry.
var DefaultMetrics *PlanningMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics on the default registry.
// Should be called once at application startup.
//
// # Outputs
//
//   - *PlanningMetrics: The initialized metrics instance.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *PlanningMetrics {
	DefaultMetrics = NewPlanningMetrics(prometheus.DefaultRegisterer)
	return DefaultMetrics
}

// NewPlanningMetrics creates a metrics instance on an explicit registerer.
// Tests use this with prometheus.NewRegistry() to stay isolated.
func NewPlanningMetrics(reg prometheus.Registerer) *PlanningMetrics {
	factory := promauto.With(reg)

	return &PlanningMetrics{
		PlansTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: planningSubsystem,
				Name:      "plans_total",
				Help:      "Total number of plan requests by outcome",
			},
			[]string{"outcome"},
		),

		HaltsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: planningSubsystem,
				Name:      "halts_total",
				Help:      "Total pipeline halts by stage",
			},
			[]string{"stage"},
		),

		WarningsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: planningSubsystem,
				Name:      "warnings_total",
				Help:      "Total gate warnings by stage",
			},
			[]string{"stage"},
		),

		PlanDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: planningSubsystem,
				Name:      "plan_duration_seconds",
				Help:      "End-to-end pipeline duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
			},
			[]string{"outcome"},
		),

		ActivePlans: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: planningSubsystem,
				Name:      "active_plans",
				Help:      "Number of plan requests currently in flight",
			},
		),
	}
}

// RecordPlan records a finished plan run.
//
// # Inputs
//
//   - outcome: How the run ended.
//   - seconds: End-to-end duration in seconds.
func (m *PlanningMetrics) RecordPlan(outcome Outcome, seconds float64) {
	if m == nil {
		return
	}
	m.PlansTotal.WithLabelValues(string(outcome)).Inc()
	m.PlanDurationSeconds.WithLabelValues(string(outcome)).Observe(seconds)
}

// RecordHalt records a gate halt at the given pipeline stage.
func (m *PlanningMetrics) RecordHalt(stage string) {
	if m == nil {
		return
	}
	m.HaltsTotal.WithLabelValues(stage).Inc()
}

// RecordWarning records a gate warning attributed to its stage.
// Warnings carry a "stage: message" prefix from the pipeline.
func (m *PlanningMetrics) RecordWarning(stage string) {
	if m == nil {
		return
	}
	m.WarningsTotal.WithLabelValues(stage).Inc()
}

// PlanStarted increments the in-flight gauge.
func (m *PlanningMetrics) PlanStarted() {
	if m == nil {
		return
	}
	m.ActivePlans.Inc()
}

// PlanEnded decrements the in-flight gauge.
func (m *PlanningMetrics) PlanEnded() {
	if m == nil {
		return
	}
	m.ActivePlans.Dec()
}
