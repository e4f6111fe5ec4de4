// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package skeleton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
)

func groupIDs(skel datatypes.StructuralSkeleton) []string {
	ids := make([]string, 0, len(skel.SignalGroups))
	for _, g := range skel.SignalGroups {
		ids = append(ids, g.GroupID)
	}
	return ids
}

func TestBuild_SafetyDomainFixedSet(t *testing.T) {
	routed := datatypes.RoutedInput{Concern: "CLABSI"}
	dc := datatypes.DomainContext{
		Domain:     datatypes.DomainSafety,
		Archetypes: []datatypes.Archetype{datatypes.ArchetypePreventabilityDetective},
	}

	skel, res := Build(routed, dc, nil)
	assert.True(t, res.Passed)
	assert.Empty(t, res.Warnings)

	assert.Equal(t, []string{
		"confirmation_evidence",
		"exclusion_criteria",
		"delay_analysis",
		"documentation_gaps",
		"bundle_gaps",
	}, groupIDs(skel))
	assert.Len(t, skel.PlanID, 12)
	assert.Equal(t, "HAC CLABSI", skel.Concern.Label)

	for _, g := range skel.SignalGroups {
		assert.NotEmpty(t, g.Name, "group %s needs a display name", g.GroupID)
		assert.Empty(t, g.Signals, "groups start without signals")
	}
}

func TestBuild_PacketGroupsPaddedFromDomainDefaults(t *testing.T) {
	routed := datatypes.RoutedInput{Concern: "M17"}
	dc := datatypes.DomainContext{
		Domain:     "Orthopedics",
		Archetypes: []datatypes.Archetype{datatypes.ArchetypeOutcomeTracker},
		Semantic: datatypes.SemanticContext{
			Packet: &datatypes.PacketContext{
				Domain: "Orthopedics",
				SignalGroups: []string{
					"complication_signals",
					"mobility_recovery",
					"discharge_disposition",
					"documentation_gaps",
				},
			},
		},
	}

	skel, res := Build(routed, dc, nil)
	assert.True(t, res.Passed)
	assert.Equal(t, []string{
		"complication_signals",
		"mobility_recovery",
		"discharge_disposition",
		"documentation_gaps",
		"readmission_risk",
	}, groupIDs(skel))
}

func TestBuild_RankingEmphasisPaddedFromGeneric(t *testing.T) {
	routed := datatypes.RoutedInput{Concern: "J44"}
	dc := datatypes.DomainContext{
		Domain:     "Pulmonology",
		Archetypes: []datatypes.Archetype{datatypes.ArchetypeOutcomeTracker},
		Semantic: datatypes.SemanticContext{
			Ranking: &datatypes.RankingContext{
				Specialty: "Pulmonology & Lung Surgery",
				Rank:      17,
				SignalEmphasis: []string{
					"readmission_risk",
					"oxygenation_management",
					"inhaler_reconciliation",
				},
			},
		},
	}

	skel, res := Build(routed, dc, nil)
	assert.True(t, res.Passed)
	assert.Equal(t, []string{
		"readmission_risk",
		"oxygenation_management",
		"inhaler_reconciliation",
		"confirmation_evidence",
		"timeliness_of_care",
	}, groupIDs(skel))

	// Ids outside the display dictionary get humanized labels.
	assert.Equal(t, "Oxygenation Management", skel.SignalGroups[1].Name)
	assert.Equal(t, "Pulmonology & Lung Surgery J44", skel.Concern.Label)
}

func TestBuild_DomainDefaultsFallback(t *testing.T) {
	routed := datatypes.RoutedInput{Concern: "I21"}
	dc := datatypes.DomainContext{
		Domain:     "Cardiology",
		Archetypes: []datatypes.Archetype{datatypes.ArchetypeProcessAuditor},
	}

	skel, res := Build(routed, dc, nil)
	assert.True(t, res.Passed)
	assert.Equal(t, []string{
		"timeliness_of_care",
		"guideline_adherence",
		"medication_optimization",
		"procedural_outcomes",
		"readmission_risk",
	}, groupIDs(skel))
}

func TestBuild_DomainAdvisoryWarning(t *testing.T) {
	// A full Cardiology packet without timeliness coverage leaves nothing to
	// pad, so the domain check fires an advisory.
	routed := datatypes.RoutedInput{Concern: "I25"}
	dc := datatypes.DomainContext{
		Domain:     "Cardiology",
		Archetypes: []datatypes.Archetype{datatypes.ArchetypeProcessAuditor},
		Semantic: datatypes.SemanticContext{
			Packet: &datatypes.PacketContext{
				Domain: "Cardiology",
				SignalGroups: []string{
					"guideline_adherence",
					"medication_optimization",
					"procedural_outcomes",
					"readmission_risk",
					"documentation_gaps",
				},
			},
		},
	}

	skel, res := Build(routed, dc, nil)
	assert.True(t, res.Passed, "advisory findings never fail the result")
	require.NotEmpty(t, res.Warnings)
	assert.NotContains(t, groupIDs(skel), "timeliness_of_care")
}

func TestValidate_StructuralErrors(t *testing.T) {
	skel := &datatypes.StructuralSkeleton{
		PlanID: "abc123def456",
		SignalGroups: []datatypes.SignalGroup{
			{GroupID: "a", Name: "A", Signals: []string{}},
			{GroupID: "a", Name: "A", Signals: []string{}},
			{GroupID: "", Name: "B", Signals: []string{}},
			{GroupID: "c", Name: "", Signals: []string{}},
			{GroupID: "d", Name: "D", Signals: []string{"already populated"}},
		},
	}
	res := Validate(skel)
	assert.False(t, res.Passed)
	assert.Len(t, res.Errors, 4)
}

func TestValidate_WrongGroupCount(t *testing.T) {
	skel := &datatypes.StructuralSkeleton{
		PlanID: "abc123def456",
		SignalGroups: []datatypes.SignalGroup{
			{GroupID: "a", Name: "A", Signals: []string{}},
		},
	}
	res := Validate(skel)
	assert.False(t, res.Passed)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "signal groups")
}

func TestValidate_MissingPlanID(t *testing.T) {
	skel := &datatypes.StructuralSkeleton{
		SignalGroups: []datatypes.SignalGroup{
			{GroupID: "a", Name: "A", Signals: []string{}},
			{GroupID: "b", Name: "B", Signals: []string{}},
			{GroupID: "c", Name: "C", Signals: []string{}},
			{GroupID: "d", Name: "D", Signals: []string{}},
			{GroupID: "e", Name: "E", Signals: []string{}},
		},
	}
	res := Validate(skel)
	assert.False(t, res.Passed)
}
