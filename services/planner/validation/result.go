// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation is the cross-cutting validation framework for the
// planner pipeline. Every stage produces a Result; the gate converts a
// Result into a HALT/WARN/PASS policy in exactly one place, keeping
// halt/continue logic out of each stage's core algorithm.
//
// The two tiers are deliberate: errors mark structural impossibilities
// (wrong signal-group count, dangling graph edges, missing config fields)
// and always halt; warnings mark substantively suspicious but structurally
// valid output and never halt.
package validation

import "fmt"

// Result is the outcome of validating one stage output. A fresh Result is
// produced for every stage; Results are never mutated by later stages.
type Result struct {
	Passed   bool           `json:"passed"`
	Errors   []string       `json:"errors,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewResult returns a passing Result with no findings.
func NewResult() Result {
	return Result{Passed: true}
}

// AddError records a structural error and marks the Result failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Passed = false
}

// AddWarning records an advisory finding. Warnings never affect Passed.
func (r *Result) AddWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// SetMetadata attaches a metadata entry, allocating the map on first use.
func (r *Result) SetMetadata(key string, value any) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]any)
	}
	r.Metadata[key] = value
}

// Merge folds other into r: errors and warnings are appended and Passed is
// the conjunction of both results.
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Passed = r.Passed && other.Passed
	for k, v := range other.Metadata {
		r.SetMetadata(k, v)
	}
}
