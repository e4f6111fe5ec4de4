// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"sync"
	"time"
)

// AuditEvent records one compliance-relevant event in the plan lifecycle.
//
// Review plans are built over clinical records, so the audit trail answers
// who requested which plan for which concern and what came of it. Event
// types follow the "category.action" convention:
//
//   - "plan.create", "plan.halt", "plan.execute"
//   - "auth.failed", "authz.denied"
//   - "registry.reload"
type AuditEvent struct {
	// EventType categorizes the event, e.g. "plan.create".
	EventType string

	// Timestamp is when the event occurred, always UTC. Implementations set
	// it to time.Now().UTC() when zero.
	Timestamp time.Time

	// UserID identifies who performed the action. "system" for automated
	// actions.
	UserID string

	// Action describes the operation: "create", "read", "execute".
	Action string

	// ResourceType is the category of resource: "plan", "concern".
	ResourceType string

	// ResourceID is the specific resource instance, e.g. a plan id.
	ResourceID string

	// Outcome is "success", "failure", "blocked" or "error".
	Outcome string

	// Metadata holds event-specific data: "concern", "domain", "stage",
	// "duration_ms", "error".
	Metadata map[string]any
}

// AuditFilter selects audit events. All fields are optional; non-zero fields
// combine with AND logic.
type AuditFilter struct {
	EventTypes   []string
	UserID       string
	StartTime    time.Time
	EndTime      time.Time
	ResourceType string
	ResourceID   string
	Outcome      string

	// Limit caps the number of returned events. Zero means the
	// implementation default.
	Limit int
}

// AuditLogger records plan-lifecycle events for compliance and analysis.
//
// Implementations must be safe for concurrent use, and Log should return
// quickly; hosted deployments that ship events to a SIEM should buffer and
// rely on Flush at shutdown.
type AuditLogger interface {
	// Log records one event. Implementations set Timestamp when zero.
	Log(ctx context.Context, event AuditEvent) error

	// Query retrieves events matching the filter, newest first.
	Query(ctx context.Context, filter AuditFilter) ([]AuditEvent, error)

	// Flush persists any buffered events. Call before shutdown.
	Flush(ctx context.Context) error
}

// NopAuditLogger discards every event. This is the open source default for
// deployments without compliance requirements.
type NopAuditLogger struct{}

func (l *NopAuditLogger) Log(_ context.Context, _ AuditEvent) error {
	return nil
}

func (l *NopAuditLogger) Query(_ context.Context, _ AuditFilter) ([]AuditEvent, error) {
	return []AuditEvent{}, nil
}

func (l *NopAuditLogger) Flush(_ context.Context) error {
	return nil
}

// MemoryAuditLogger keeps events in memory with a bounded buffer. Suitable
// for local deployments that want an inspectable trail without an external
// sink, and for tests.
//
// Thread Safety:
//
//	Safe for concurrent use.
type MemoryAuditLogger struct {
	mu     sync.Mutex
	events []AuditEvent
	cap    int
}

// NewMemoryAuditLogger creates a logger retaining at most capacity events.
// The oldest events are dropped first. capacity <= 0 means 1024.
func NewMemoryAuditLogger(capacity int) *MemoryAuditLogger {
	if capacity <= 0 {
		capacity = 1024
	}
	return &MemoryAuditLogger{cap: capacity}
}

// Log implements AuditLogger.
func (l *MemoryAuditLogger) Log(_ context.Context, event AuditEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	if len(l.events) > l.cap {
		l.events = l.events[len(l.events)-l.cap:]
	}
	return nil
}

// Query implements AuditLogger. Events return newest first.
func (l *MemoryAuditLogger) Query(_ context.Context, filter AuditFilter) ([]AuditEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]AuditEvent, 0)
	for i := len(l.events) - 1; i >= 0; i-- {
		e := l.events[i]
		if !matchesFilter(e, filter) {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

// Flush implements AuditLogger. Nothing is buffered externally.
func (l *MemoryAuditLogger) Flush(_ context.Context) error {
	return nil
}

func matchesFilter(e AuditEvent, f AuditFilter) bool {
	if len(f.EventTypes) > 0 {
		found := false
		for _, t := range f.EventTypes {
			if e.EventType == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if f.ResourceType != "" && e.ResourceType != f.ResourceType {
		return false
	}
	if f.ResourceID != "" && e.ResourceID != f.ResourceID {
		return false
	}
	if f.Outcome != "" && e.Outcome != f.Outcome {
		return false
	}
	if !f.StartTime.IsZero() && e.Timestamp.Before(f.StartTime) {
		return false
	}
	if !f.EndTime.IsZero() && !e.Timestamp.Before(f.EndTime) {
		return false
	}
	return true
}

var (
	_ AuditLogger = (*NopAuditLogger)(nil)
	_ AuditLogger = (*MemoryAuditLogger)(nil)
)
