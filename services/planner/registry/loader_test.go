// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
)

func loadEmbedded(t *testing.T) *Registry {
	t.Helper()
	reg, err := Load(context.Background(), "", nil)
	require.NoError(t, err, "embedded tables must always load")
	return reg
}

func TestLoad_EmbeddedTables(t *testing.T) {
	reg := loadEmbedded(t)
	assert.NotEmpty(t, reg.Version())
}

func TestResolveConcern_ExactMatch(t *testing.T) {
	reg := loadEmbedded(t)

	m, ok := reg.ResolveConcern("CLABSI")
	require.True(t, ok)
	assert.Equal(t, datatypes.DomainSafety, m.Domain)
	assert.Equal(t, datatypes.ArchetypePreventabilityDetective, m.Archetype)
}

func TestResolveConcern_PatternMatch(t *testing.T) {
	reg := loadEmbedded(t)

	cases := []struct {
		concern   string
		domain    string
		archetype datatypes.Archetype
	}{
		{"I25", "Cardiology", datatypes.ArchetypeProcessAuditor},
		{"I25.1", "Cardiology", datatypes.ArchetypeProcessAuditor},
		{"I63", "Neurology", datatypes.ArchetypeProcessAuditor},
		{"J44", "Pulmonology", datatypes.ArchetypeOutcomeTracker},
		{"M17", "Orthopedics", datatypes.ArchetypeOutcomeTracker},
		{"C34", "Oncology", datatypes.ArchetypePreventabilityDetectiveMetric},
		{"PSI-12", datatypes.DomainSafety, datatypes.ArchetypePreventabilityDetective},
	}
	for _, tc := range cases {
		m, ok := reg.ResolveConcern(tc.concern)
		require.True(t, ok, "concern %s should resolve", tc.concern)
		assert.Equal(t, tc.domain, m.Domain, "concern %s", tc.concern)
		assert.Equal(t, tc.archetype, m.Archetype, "concern %s", tc.concern)
	}
}

func TestResolveConcern_Unknown(t *testing.T) {
	reg := loadEmbedded(t)

	_, ok := reg.ResolveConcern("Z99")
	assert.False(t, ok)
	assert.False(t, reg.KnownConcern("Z99"))
}

func TestRanking_Lookup(t *testing.T) {
	reg := loadEmbedded(t)

	entry, ok := reg.Ranking("I25")
	require.True(t, ok)
	assert.Equal(t, 14, entry.Rank)
	assert.Len(t, entry.SignalEmphasis, 5)

	// Outside the cutoff is still returned; tier policy is the resolver's.
	entry, ok = reg.Ranking("C34")
	require.True(t, ok)
	assert.Equal(t, 45, entry.Rank)

	_, ok = reg.Ranking("CLABSI")
	assert.False(t, ok, "safety concerns carry no ranking entry")
}

func TestPacketContext_Lookup(t *testing.T) {
	reg := loadEmbedded(t)

	p, ok := reg.PacketContext(datatypes.DomainSafety, "CLABSI")
	require.True(t, ok)
	assert.Equal(t, datatypes.DomainSafety, p.Domain)
	assert.NotEmpty(t, p.Definition)
	assert.Empty(t, p.Archetypes, "CLABSI packet derives archetypes heuristically")

	p, ok = reg.PacketContext("Cardiology", "I25")
	require.True(t, ok)
	assert.Equal(t, []datatypes.Archetype{
		datatypes.ArchetypeProcessAuditor,
		datatypes.ArchetypeDelayDriverProfiler,
	}, p.Archetypes)

	_, ok = reg.PacketContext("Cardiology", "CLABSI")
	assert.False(t, ok, "packet lookup is keyed by domain and concern together")
}

func TestReload_KeepsOldSnapshotOnFailure(t *testing.T) {
	dir := t.TempDir()

	// Start from the embedded defaults, then break one table on disk.
	reg, err := Load(context.Background(), dir, nil)
	require.NoError(t, err)
	require.True(t, reg.KnownConcern("CLABSI"))

	bad := filepath.Join(dir, "concerns.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("concerns: [:::"), 0644))

	err = reg.Reload(context.Background())
	assert.Error(t, err)

	// The previous snapshot must stay active.
	assert.True(t, reg.KnownConcern("CLABSI"))
}

func TestReload_PicksUpNewTables(t *testing.T) {
	dir := t.TempDir()

	reg, err := Load(context.Background(), dir, nil)
	require.NoError(t, err)
	_, ok := reg.ResolveConcern("X99")
	require.False(t, ok)

	custom := []byte("version: \"test\"\nconcerns:\n  - match: X99\n    domain: HAC\n    archetype: Preventability_Detective\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "concerns.yaml"), custom, 0644))

	require.NoError(t, reg.Reload(context.Background()))
	m, ok := reg.ResolveConcern("X99")
	require.True(t, ok)
	assert.Equal(t, datatypes.DomainSafety, m.Domain)
}

func TestLoad_RejectsInvalidPattern(t *testing.T) {
	dir := t.TempDir()

	custom := []byte("version: \"test\"\nconcerns:\n  - pattern: \"([\"\n    domain: HAC\n    archetype: Preventability_Detective\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "concerns.yaml"), custom, 0644))

	_, err := Load(context.Background(), dir, nil)
	assert.Error(t, err)
}
