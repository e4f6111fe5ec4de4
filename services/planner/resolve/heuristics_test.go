// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
)

func TestDeriveArchetypes_NilPacket(t *testing.T) {
	got := DeriveArchetypes(datatypes.ArchetypeOutcomeTracker, nil)
	assert.Equal(t, []datatypes.Archetype{datatypes.ArchetypeOutcomeTracker}, got)
}

func TestDeriveArchetypes_PacketListIsVerbatim(t *testing.T) {
	packet := &datatypes.PacketContext{
		// Keyword-bearing text must be ignored when the explicit list is set.
		RiskFactors: []string{"contraindication screening", "bundle compliance"},
		Archetypes: []datatypes.Archetype{
			datatypes.ArchetypeDelayDriverProfiler,
			datatypes.ArchetypeProcessAuditor,
			datatypes.ArchetypeDelayDriverProfiler,
		},
	}
	got := DeriveArchetypes(datatypes.ArchetypeOutcomeTracker, packet)
	assert.Equal(t, []datatypes.Archetype{
		datatypes.ArchetypeProcessAuditor,
		datatypes.ArchetypeDelayDriverProfiler,
	}, got)
}

func TestDeriveArchetypes_KeywordFamilies(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		expect []datatypes.Archetype
	}{
		{
			name: "exclusion keywords",
			text: "patient excluded by contraindication",
			expect: []datatypes.Archetype{
				datatypes.ArchetypeExclusionHunter,
				datatypes.ArchetypeOutcomeTracker,
			},
		},
		{
			name: "process keywords",
			text: "door-to-needle delay beyond protocol",
			expect: []datatypes.Archetype{
				datatypes.ArchetypeProcessAuditor,
				datatypes.ArchetypeOutcomeTracker,
			},
		},
		{
			name: "preventability keywords",
			text: "bundle compliance lapse preceded infection",
			expect: []datatypes.Archetype{
				datatypes.ArchetypePreventabilityDetective,
				datatypes.ArchetypeOutcomeTracker,
			},
		},
		{
			name:   "no keywords",
			text:   "routine recovery milestones",
			expect: []datatypes.Archetype{datatypes.ArchetypeOutcomeTracker},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			packet := &datatypes.PacketContext{RiskFactors: []string{tc.text}}
			got := DeriveArchetypes(datatypes.ArchetypeOutcomeTracker, packet)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func TestDeriveArchetypes_SignalGroupsScanned(t *testing.T) {
	packet := &datatypes.PacketContext{
		SignalGroups: []string{"exclusion_criteria", "documentation_gaps"},
	}
	got := DeriveArchetypes(datatypes.ArchetypePreventabilityDetective, packet)
	assert.Equal(t, []datatypes.Archetype{
		datatypes.ArchetypeExclusionHunter,
		datatypes.ArchetypePreventabilityDetective,
	}, got)
}

func TestDeriveArchetypes_PrimaryNeverDuplicated(t *testing.T) {
	packet := &datatypes.PacketContext{
		RiskFactors: []string{"preventable infection after bundle lapse"},
	}
	got := DeriveArchetypes(datatypes.ArchetypePreventabilityDetective, packet)
	assert.Equal(t, []datatypes.Archetype{datatypes.ArchetypePreventabilityDetective}, got)
}
