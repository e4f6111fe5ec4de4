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

// Policy is the gate decision for one stage's validation result.
type Policy string

const (
	// PolicyHalt stops the pipeline and surfaces the errors to the caller.
	PolicyHalt Policy = "HALT"

	// PolicyWarn lets the pipeline continue; warnings are surfaced for
	// observability.
	PolicyWarn Policy = "WARN"

	// PolicyPass reports no findings.
	PolicyPass Policy = "PASS"
)

// FailAction tunes how the gate treats warning-only results.
type FailAction string

const (
	// FailActionWarn is the default: warnings never halt.
	FailActionWarn FailAction = "warn"

	// FailActionBlock escalates warning-only results to HALT. Structural
	// errors halt under either action; this knob only tightens, never
	// loosens.
	FailActionBlock FailAction = "block"
)

// Gate maps a validation result to a policy under the default fail action.
func Gate(r Result) Policy {
	return GateWith(r, FailActionWarn)
}

// GateWith maps a validation result to a policy under the given fail action.
func GateWith(r Result, action FailAction) Policy {
	switch {
	case len(r.Errors) > 0:
		return PolicyHalt
	case len(r.Warnings) > 0:
		if action == FailActionBlock {
			return PolicyHalt
		}
		return PolicyWarn
	default:
		return PolicyPass
	}
}
