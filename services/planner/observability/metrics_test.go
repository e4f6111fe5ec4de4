// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestMetrics(t *testing.T) *PlanningMetrics {
	t.Helper()
	return NewPlanningMetrics(prometheus.NewRegistry())
}

func TestRecordPlan(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordPlan(OutcomeSuccess, 1.2)
	m.RecordPlan(OutcomeSuccess, 0.4)
	m.RecordPlan(OutcomeHalted, 0.1)

	success := testutil.ToFloat64(m.PlansTotal.WithLabelValues("success"))
	if success != 2 {
		t.Errorf("success plans = %v, want 2", success)
	}
	halted := testutil.ToFloat64(m.PlansTotal.WithLabelValues("halted"))
	if halted != 1 {
		t.Errorf("halted plans = %v, want 1", halted)
	}
}

func TestRecordHaltAndWarning(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordHalt("concern_resolution")
	m.RecordHalt("concern_resolution")
	m.RecordWarning("domain_resolution")

	halts := testutil.ToFloat64(m.HaltsTotal.WithLabelValues("concern_resolution"))
	if halts != 2 {
		t.Errorf("halts = %v, want 2", halts)
	}
	warns := testutil.ToFloat64(m.WarningsTotal.WithLabelValues("domain_resolution"))
	if warns != 1 {
		t.Errorf("warnings = %v, want 1", warns)
	}
}

func TestActivePlansGauge(t *testing.T) {
	m := newTestMetrics(t)

	m.PlanStarted()
	m.PlanStarted()
	m.PlanEnded()

	active := testutil.ToFloat64(m.ActivePlans)
	if active != 1 {
		t.Errorf("active plans = %v, want 1", active)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *PlanningMetrics

	m.RecordPlan(OutcomeError, 0)
	m.RecordHalt("execution")
	m.RecordWarning("plan_skeleton")
	m.PlanStarted()
	m.PlanEnded()
}
