// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"strings"
	"testing"
)

func TestPlanningInput_Validate_PayloadTooLarge(t *testing.T) {
	in := &PlanningInput{
		ConcernID:      "CLABSI",
		PatientPayload: strings.Repeat("x", MaxPatientPayloadBytes+1),
	}
	if err := in.Validate(); err == nil {
		t.Error("Validate() should reject an oversized patient payload")
	}
}

func TestPlanningInput_Validate_OK(t *testing.T) {
	in := &PlanningInput{ConcernID: "CLABSI", PatientPayload: "short note"}
	if err := in.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestResolvePatientPayload_FallbackChain(t *testing.T) {
	in := &PlanningInput{
		PatientPayload: "explicit",
		ClinicalContext: &ClinicalContext{
			Payload: "nested",
		},
		Metadata: map[string]string{"notes": "metadata"},
	}
	if got := in.ResolvePatientPayload(); got != "explicit" {
		t.Errorf("explicit payload should win, got %q", got)
	}

	in.PatientPayload = "  "
	if got := in.ResolvePatientPayload(); got != "nested" {
		t.Errorf("clinical context payload should be second, got %q", got)
	}

	in.ClinicalContext.Payload = ""
	if got := in.ResolvePatientPayload(); got != "metadata" {
		t.Errorf("notes metadata should be last, got %q", got)
	}

	in.Metadata = nil
	if got := in.ResolvePatientPayload(); got != "" {
		t.Errorf("empty chain should yield empty string, got %q", got)
	}
}
