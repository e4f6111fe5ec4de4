// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validation

import "testing"

func TestGate_Pass(t *testing.T) {
	if got := Gate(NewResult()); got != PolicyPass {
		t.Errorf("Gate(clean) = %v, want PASS", got)
	}
}

func TestGate_WarningsDoNotHalt(t *testing.T) {
	r := NewResult()
	r.AddWarning("advisory only")
	if got := Gate(r); got != PolicyWarn {
		t.Errorf("Gate(warnings) = %v, want WARN", got)
	}
	if !r.Passed {
		t.Error("warnings must not flip Passed")
	}
}

func TestGate_ErrorsHalt(t *testing.T) {
	r := NewResult()
	r.AddWarning("advisory")
	r.AddError("structural violation")
	if got := Gate(r); got != PolicyHalt {
		t.Errorf("Gate(errors) = %v, want HALT", got)
	}
	if r.Passed {
		t.Error("errors must flip Passed")
	}
}

func TestGateWith_BlockEscalatesWarnings(t *testing.T) {
	r := NewResult()
	r.AddWarning("advisory")
	if got := GateWith(r, FailActionBlock); got != PolicyHalt {
		t.Errorf("GateWith(block, warnings) = %v, want HALT", got)
	}

	// Block must never loosen: a clean result still passes.
	if got := GateWith(NewResult(), FailActionBlock); got != PolicyPass {
		t.Errorf("GateWith(block, clean) = %v, want PASS", got)
	}
}

func TestResult_Merge(t *testing.T) {
	a := NewResult()
	a.AddWarning("w1")

	b := NewResult()
	b.AddError("e1")
	b.SetMetadata("key", "value")

	a.Merge(b)
	if a.Passed {
		t.Error("merging an errored result must flip Passed")
	}
	if len(a.Warnings) != 1 || len(a.Errors) != 1 {
		t.Errorf("Merge() errors=%v warnings=%v", a.Errors, a.Warnings)
	}
	if a.Metadata["key"] != "value" {
		t.Error("Merge() should carry metadata over")
	}
}
