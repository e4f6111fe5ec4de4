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
	"sync"
	"time"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
)

// TaskOutput is the recorded result of one executed task.
type TaskOutput struct {
	ID       datatypes.TaskID   `json:"id"`
	Type     datatypes.TaskType `json:"type"`
	Raw      string             `json:"raw"`
	Model    string             `json:"model"`
	Duration time.Duration      `json:"duration"`

	CompletedAt time.Time `json:"completed_at"`
}

// outputStore is the write-once output map for one run.
//
// Thread Safety:
//
//	Safe for concurrent use.
type outputStore struct {
	mu      sync.RWMutex
	outputs map[datatypes.TaskID]TaskOutput
}

func newOutputStore() *outputStore {
	return &outputStore{
		outputs: make(map[datatypes.TaskID]TaskOutput),
	}
}

// put records an output. A second write for the same id is an invariant
// violation and is rejected.
func (s *outputStore) put(out TaskOutput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.outputs[out.ID]; exists {
		return NewTaskError(out.ID, ErrDuplicateOutput)
	}
	s.outputs[out.ID] = out
	return nil
}

func (s *outputStore) get(id datatypes.TaskID) (TaskOutput, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out, ok := s.outputs[id]
	return out, ok
}

func (s *outputStore) has(id datatypes.TaskID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.outputs[id]
	return ok
}

func (s *outputStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.outputs)
}

// snapshot copies the map for the final result.
func (s *outputStore) snapshot() map[datatypes.TaskID]TaskOutput {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(map[datatypes.TaskID]TaskOutput, len(s.outputs))
	for id, out := range s.outputs {
		snap[id] = out
	}
	return snap
}
