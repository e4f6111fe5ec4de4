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

import (
	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
)

// Context-aware validators. These encode substantive expectations per domain
// and per archetype. They only ever produce warnings: content quality is
// advisory, structural integrity is mandatory and checked elsewhere.

// domainExpectedGroups lists signal-group ids a domain's skeleton is
// expected to carry. Absence is suspicious, not invalid.
var domainExpectedGroups = map[string][]string{
	datatypes.DomainSafety: {"exclusion_criteria", "bundle_gaps"},
	"Cardiology":           {"timeliness_of_care"},
	"Orthopedics":          {"complication_signals"},
	"Oncology":             {"treatment_selection"},
}

// archetypeExpectedTasks lists the task expected in an archetype's lane.
// The lane templates always include it; a graph missing it was assembled
// outside the normal path and is worth flagging.
var archetypeExpectedTasks = map[datatypes.Archetype]datatypes.TaskType{
	datatypes.ArchetypeProcessAuditor:                datatypes.TaskComplianceAudit,
	datatypes.ArchetypeDelayDriverProfiler:           datatypes.TaskDelayAttribution,
	datatypes.ArchetypeExclusionHunter:               datatypes.TaskExclusionScreen,
	datatypes.ArchetypePreventabilityDetective:       datatypes.TaskPreventabilityReview,
	datatypes.ArchetypePreventabilityDetectiveMetric: datatypes.TaskPreventabilityReview,
	datatypes.ArchetypeOutcomeTracker:                datatypes.TaskTrendProjection,
	datatypes.ArchetypeDataScavenger:                 datatypes.TaskGapScan,
}

// CheckSkeletonForDomain appends domain-specific advisory findings for a
// skeleton to r. Never adds errors.
func CheckSkeletonForDomain(r *Result, domain string, skel *datatypes.StructuralSkeleton) {
	expected, ok := domainExpectedGroups[domain]
	if !ok {
		return
	}
	have := make(map[string]bool, len(skel.SignalGroups))
	for _, g := range skel.SignalGroups {
		have[g.GroupID] = true
	}
	for _, id := range expected {
		if !have[id] {
			r.AddWarning("domain %s: skeleton missing expected signal group %q", domain, id)
		}
	}
}

// CheckGraphForArchetypes appends archetype-specific advisory findings for a
// task graph to r. Never adds errors.
func CheckGraphForArchetypes(r *Result, archetypes []datatypes.Archetype, graph *datatypes.TaskGraph) {
	for _, arch := range archetypes {
		want, ok := archetypeExpectedTasks[arch]
		if !ok {
			continue
		}
		id := datatypes.TaskID{Lane: arch.Lane(), Type: want}
		if _, found := graph.Node(id); !found {
			r.AddWarning("archetype %s: lane missing expected task %q", arch, want)
		}
	}
}
