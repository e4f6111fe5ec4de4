// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides the shared data structures for the planner
// service: planning inputs, resolved domain context, structural skeletons,
// task graphs, and prompt plans.
//
// All types in this package are value types created once per pipeline run
// and never mutated by a later stage.
package datatypes

import (
	"sort"
	"strings"
)

// Archetype is an analytical lens applied to a clinical concern. Each
// archetype expands into its own namespaced lane of tasks in the task graph.
type Archetype string

const (
	// ArchetypeProcessAuditor audits protocol and timing compliance.
	ArchetypeProcessAuditor Archetype = "Process_Auditor"

	// ArchetypeDelayDriverProfiler profiles drivers of care delays.
	ArchetypeDelayDriverProfiler Archetype = "Delay_Driver_Profiler"

	// ArchetypeExclusionHunter screens for exclusion/contraindication criteria.
	ArchetypeExclusionHunter Archetype = "Exclusion_Hunter"

	// ArchetypePreventabilityDetective investigates preventability of an event.
	ArchetypePreventabilityDetective Archetype = "Preventability_Detective"

	// ArchetypePreventabilityDetectiveMetric is the ranked-metric variant of
	// Preventability_Detective. The label is distinct; the task-graph lane
	// template is shared.
	ArchetypePreventabilityDetectiveMetric Archetype = "Preventability_Detective_Metric"

	// ArchetypeOutcomeTracker tracks outcome baselines and trends.
	ArchetypeOutcomeTracker Archetype = "Outcome_Tracker"

	// ArchetypeDataScavenger inventories data sources and gaps.
	ArchetypeDataScavenger Archetype = "Data_Scavenger"
)

// archetypePriority is the fixed ordering table. Lane construction and
// synthesis ordering are reproducible because every derivation path sorts
// by this table before building lanes.
var archetypePriority = map[Archetype]int{
	ArchetypeProcessAuditor:                0,
	ArchetypeDelayDriverProfiler:           1,
	ArchetypeExclusionHunter:               2,
	ArchetypePreventabilityDetective:       3,
	ArchetypePreventabilityDetectiveMetric: 4,
	ArchetypeOutcomeTracker:                5,
	ArchetypeDataScavenger:                 6,
}

// Known reports whether a is one of the fixed archetype labels.
func (a Archetype) Known() bool {
	_, ok := archetypePriority[a]
	return ok
}

// Lane returns the lane namespace for this archetype (lowercased label).
func (a Archetype) Lane() string {
	return strings.ToLower(string(a))
}

// Priority returns the position of a in the fixed ordering table.
// Unknown archetypes sort after all known ones.
func (a Archetype) Priority() int {
	if p, ok := archetypePriority[a]; ok {
		return p
	}
	return len(archetypePriority)
}

// SortArchetypes orders archetypes by the fixed priority table, in place.
// Ties (only possible between unknown labels) break lexicographically so
// the result is still deterministic.
func SortArchetypes(archetypes []Archetype) {
	sort.SliceStable(archetypes, func(i, j int) bool {
		pi, pj := archetypes[i].Priority(), archetypes[j].Priority()
		if pi != pj {
			return pi < pj
		}
		return archetypes[i] < archetypes[j]
	})
}

// DedupeArchetypes returns archetypes with duplicates removed, preserving
// first occurrence order.
func DedupeArchetypes(archetypes []Archetype) []Archetype {
	seen := make(map[Archetype]bool, len(archetypes))
	out := make([]Archetype, 0, len(archetypes))
	for _, a := range archetypes {
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// ParseArchetype maps a raw label to an Archetype.
//
// Outputs:
//
//	Archetype - The parsed archetype.
//	bool - False if the label is not one of the fixed archetypes.
func ParseArchetype(label string) (Archetype, bool) {
	a := Archetype(strings.TrimSpace(label))
	if a.Known() {
		return a, true
	}
	return "", false
}
