// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package taskgraph expands a resolved archetype set into one combined task
// graph: a namespaced lane per archetype, joined into a single synthesis
// node.
package taskgraph

import "github.com/AleutianAI/CareFactory/services/planner/datatypes"

// laneTemplate is the immutable per-archetype task template. Node names are
// local task types; namespacing happens at build time.
type laneTemplate struct {
	Nodes    []datatypes.TaskType
	Edges    [][2]datatypes.TaskType
	MustRun  []datatypes.TaskType
	Optional []datatypes.TaskType
}

var (
	processAuditorTemplate = laneTemplate{
		Nodes: []datatypes.TaskType{
			datatypes.TaskProtocolBaseline,
			datatypes.TaskTimelineReconstruction,
			datatypes.TaskComplianceAudit,
		},
		Edges: [][2]datatypes.TaskType{
			{datatypes.TaskProtocolBaseline, datatypes.TaskComplianceAudit},
			{datatypes.TaskTimelineReconstruction, datatypes.TaskComplianceAudit},
		},
		MustRun: []datatypes.TaskType{
			datatypes.TaskProtocolBaseline,
			datatypes.TaskComplianceAudit,
		},
		Optional: []datatypes.TaskType{
			datatypes.TaskTimelineReconstruction,
		},
	}

	preventabilityTemplate = laneTemplate{
		Nodes: []datatypes.TaskType{
			datatypes.TaskEvidenceSweep,
			datatypes.TaskRiskFactorReview,
			datatypes.TaskPreventabilityReview,
		},
		Edges: [][2]datatypes.TaskType{
			{datatypes.TaskEvidenceSweep, datatypes.TaskPreventabilityReview},
			{datatypes.TaskRiskFactorReview, datatypes.TaskPreventabilityReview},
		},
		MustRun: []datatypes.TaskType{
			datatypes.TaskEvidenceSweep,
			datatypes.TaskPreventabilityReview,
		},
		Optional: []datatypes.TaskType{
			datatypes.TaskRiskFactorReview,
		},
	}

	exclusionHunterTemplate = laneTemplate{
		Nodes: []datatypes.TaskType{
			datatypes.TaskCriteriaExtraction,
			datatypes.TaskExclusionScreen,
		},
		Edges: [][2]datatypes.TaskType{
			{datatypes.TaskCriteriaExtraction, datatypes.TaskExclusionScreen},
		},
		MustRun: []datatypes.TaskType{
			datatypes.TaskCriteriaExtraction,
			datatypes.TaskExclusionScreen,
		},
	}

	dataScavengerTemplate = laneTemplate{
		Nodes: []datatypes.TaskType{
			datatypes.TaskSourceInventory,
			datatypes.TaskGapScan,
		},
		Edges: [][2]datatypes.TaskType{
			{datatypes.TaskSourceInventory, datatypes.TaskGapScan},
		},
		MustRun: []datatypes.TaskType{
			datatypes.TaskSourceInventory,
		},
		Optional: []datatypes.TaskType{
			datatypes.TaskGapScan,
		},
	}

	delayDriverTemplate = laneTemplate{
		Nodes: []datatypes.TaskType{
			datatypes.TaskMilestoneMapping,
			datatypes.TaskDelayAttribution,
		},
		Edges: [][2]datatypes.TaskType{
			{datatypes.TaskMilestoneMapping, datatypes.TaskDelayAttribution},
		},
		MustRun: []datatypes.TaskType{
			datatypes.TaskMilestoneMapping,
			datatypes.TaskDelayAttribution,
		},
	}

	outcomeTrackerTemplate = laneTemplate{
		Nodes: []datatypes.TaskType{
			datatypes.TaskOutcomeBaseline,
			datatypes.TaskTrendProjection,
		},
		Edges: [][2]datatypes.TaskType{
			{datatypes.TaskOutcomeBaseline, datatypes.TaskTrendProjection},
		},
		MustRun: []datatypes.TaskType{
			datatypes.TaskOutcomeBaseline,
			datatypes.TaskTrendProjection,
		},
	}
)

// templateFor selects the lane template for an archetype.
//
// The switch is exhaustive over the fixed archetype set; adding an archetype
// is a compile-visible change here. Preventability_Detective_Metric shares
// the Preventability_Detective template: the distinction is carried in
// prompt content, not graph shape.
func templateFor(a datatypes.Archetype) (laneTemplate, bool) {
	switch a {
	case datatypes.ArchetypeProcessAuditor:
		return processAuditorTemplate, true
	case datatypes.ArchetypeDelayDriverProfiler:
		return delayDriverTemplate, true
	case datatypes.ArchetypeExclusionHunter:
		return exclusionHunterTemplate, true
	case datatypes.ArchetypePreventabilityDetective:
		return preventabilityTemplate, true
	case datatypes.ArchetypePreventabilityDetectiveMetric:
		return preventabilityTemplate, true
	case datatypes.ArchetypeOutcomeTracker:
		return outcomeTrackerTemplate, true
	case datatypes.ArchetypeDataScavenger:
		return dataScavengerTemplate, true
	default:
		return laneTemplate{}, false
	}
}
