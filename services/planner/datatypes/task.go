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
	"fmt"
	"strings"
)

// TaskType identifies one kind of generation task within a lane.
type TaskType string

const (
	TaskProtocolBaseline        TaskType = "protocol_baseline"
	TaskTimelineReconstruction  TaskType = "timeline_reconstruction"
	TaskComplianceAudit         TaskType = "compliance_audit"
	TaskEvidenceSweep           TaskType = "evidence_sweep"
	TaskRiskFactorReview        TaskType = "risk_factor_review"
	TaskPreventabilityReview    TaskType = "preventability_assessment"
	TaskCriteriaExtraction      TaskType = "criteria_extraction"
	TaskExclusionScreen         TaskType = "exclusion_screen"
	TaskSourceInventory         TaskType = "source_inventory"
	TaskGapScan                 TaskType = "gap_scan"
	TaskMilestoneMapping        TaskType = "milestone_mapping"
	TaskDelayAttribution        TaskType = "delay_attribution"
	TaskOutcomeBaseline         TaskType = "outcome_baseline"
	TaskTrendProjection         TaskType = "trend_projection"
	TaskMultiArchetypeSynthesis TaskType = "multi_archetype_synthesis"
)

// SynthesisLane is the reserved lane name for the single synthesis node.
// No archetype label lowercases to it, so the synthesis id can never
// collide with a lane-namespaced task id.
const SynthesisLane = "synthesis"

// TaskID is the structured identifier for a task node: a lane tag plus the
// task type local to that lane. The wire form is "<lane>:<task_type>"; the
// struct form exists so lane isolation never depends on string splitting.
// TaskID serializes as its wire form, including as a JSON map key.
type TaskID struct {
	Lane string
	Type TaskType
}

// SynthesisTaskID is the id of the single synthesis node present in every
// task graph.
var SynthesisTaskID = TaskID{Lane: SynthesisLane, Type: TaskMultiArchetypeSynthesis}

// String returns the wire form "<lane>:<task_type>".
func (id TaskID) String() string {
	return id.Lane + ":" + string(id.Type)
}

// IsSynthesis reports whether id names the synthesis node.
func (id TaskID) IsSynthesis() bool {
	return id == SynthesisTaskID
}

// IsZero reports whether id is the zero value.
func (id TaskID) IsZero() bool {
	return id.Lane == "" && id.Type == ""
}

// MarshalText implements encoding.TextMarshaler with the wire form.
func (id TaskID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *TaskID) UnmarshalText(text []byte) error {
	parsed, err := ParseTaskID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseTaskID parses the wire form back into a TaskID.
//
// Outputs:
//
//	TaskID - The parsed id.
//	error - Non-nil if s is not "<lane>:<task_type>".
func ParseTaskID(s string) (TaskID, error) {
	lane, local, ok := strings.Cut(s, ":")
	if !ok || lane == "" || local == "" {
		return TaskID{}, fmt.Errorf("malformed task id %q", s)
	}
	return TaskID{Lane: lane, Type: TaskType(local)}, nil
}

// TaskNode is one node of a task graph.
type TaskNode struct {
	ID   TaskID   `json:"id"`
	Type TaskType `json:"type"`
}

// TaskEdge is a directed dependency: From must complete before To starts.
type TaskEdge struct {
	From TaskID `json:"from"`
	To   TaskID `json:"to"`
}

// RunConstraints partitions graph nodes into tasks that must complete for
// the plan to be usable and tasks whose failure is tolerable.
type RunConstraints struct {
	MustRun  []TaskID `json:"must_run"`
	Optional []TaskID `json:"optional"`
}

// TaskGraph is the combined multi-lane task graph for one plan.
type TaskGraph struct {
	GraphID     string         `json:"graph_id"`
	Nodes       []TaskNode     `json:"nodes"`
	Edges       []TaskEdge     `json:"edges"`
	Constraints RunConstraints `json:"constraints"`
}

// Node returns the node with the given id.
func (g *TaskGraph) Node(id TaskID) (TaskNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return TaskNode{}, false
}

// Dependencies returns the ids of the direct predecessors of id.
func (g *TaskGraph) Dependencies(id TaskID) []TaskID {
	deps := make([]TaskID, 0, 2)
	for _, e := range g.Edges {
		if e.To == id {
			deps = append(deps, e.From)
		}
	}
	return deps
}
