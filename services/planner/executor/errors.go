// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package executor

import (
	"errors"
	"fmt"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
)

// Sentinel errors for the executor package.
var (
	// ErrNilContext is returned when a nil context is passed.
	ErrNilContext = errors.New("context must not be nil")

	// ErrInvalidInput is returned when the request fails basic checks.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingPatientContext is returned before any dispatch when a task
	// requires a patient payload and none was resolved.
	ErrMissingPatientContext = errors.New("task requires patient context but none was provided")

	// ErrMissingPromptConfig is returned when a graph node has no
	// corresponding prompt plan entry.
	ErrMissingPromptConfig = errors.New("task has no prompt configuration")

	// ErrTaskTimeout is returned when a backend call exceeds its timeout.
	ErrTaskTimeout = errors.New("task execution timed out")

	// ErrMalformedOutput is returned when a backend response violates the
	// task's response format.
	ErrMalformedOutput = errors.New("backend output violates response format")

	// ErrDuplicateOutput is returned on a second write for the same task id.
	ErrDuplicateOutput = errors.New("output already recorded for task")

	// ErrNoProgress is returned when no pending task can be dispatched
	// (deadlock or dangling dependency).
	ErrNoProgress = errors.New("no progress possible: deadlock or missing dependency")

	// ErrMustRunIncomplete is returned when execution finishes without an
	// output for every must-run task.
	ErrMustRunIncomplete = errors.New("must-run task did not complete")
)

// TaskError wraps an error with the task that caused it.
type TaskError struct {
	TaskID datatypes.TaskID
	Err    error
}

// Error returns the error message.
func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q: %v", e.TaskID.String(), e.Err)
}

// Unwrap returns the underlying error.
func (e *TaskError) Unwrap() error {
	return e.Err
}

// NewTaskError creates a TaskError.
func NewTaskError(id datatypes.TaskID, err error) *TaskError {
	return &TaskError{
		TaskID: id,
		Err:    err,
	}
}
