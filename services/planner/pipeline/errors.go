// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AleutianAI/CareFactory/services/planner/validation"
)

// Sentinel errors for the pipeline package.
var (
	// ErrNilContext is returned when a nil context is passed.
	ErrNilContext = errors.New("context must not be nil")

	// ErrNilInput is returned when no planning input is provided.
	ErrNilInput = errors.New("planning input must not be nil")

	// ErrStageHalted is the sentinel wrapped by every StageError.
	ErrStageHalted = errors.New("pipeline stage halted")
)

// StageError reports which stage halted the pipeline and why.
type StageError struct {
	Stage  string
	Result validation.Result
	Err    error
}

// Error returns the error message, including the stage's structural errors.
func (e *StageError) Error() string {
	if len(e.Result.Errors) > 0 {
		return fmt.Sprintf("stage %s halted: %s", e.Stage, strings.Join(e.Result.Errors, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("stage %s halted: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("stage %s halted", e.Stage)
}

// Unwrap returns the underlying error, or ErrStageHalted when the halt came
// from validation findings alone.
func (e *StageError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrStageHalted
}

func newStageError(stage string, result validation.Result, err error) *StageError {
	return &StageError{Stage: stage, Result: result, Err: err}
}
