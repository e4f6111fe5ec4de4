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

import "testing"

func TestTaskID_String(t *testing.T) {
	id := TaskID{Lane: "process_auditor", Type: TaskComplianceAudit}
	if got := id.String(); got != "process_auditor:compliance_audit" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseTaskID(t *testing.T) {
	id, err := ParseTaskID("exclusion_hunter:exclusion_screen")
	if err != nil {
		t.Fatalf("ParseTaskID() error = %v", err)
	}
	if id.Lane != "exclusion_hunter" || id.Type != TaskExclusionScreen {
		t.Errorf("ParseTaskID() = %+v", id)
	}

	for _, bad := range []string{"", "nolane", ":gap_scan", "lane:"} {
		if _, err := ParseTaskID(bad); err == nil {
			t.Errorf("ParseTaskID(%q) should fail", bad)
		}
	}
}

func TestSynthesisTaskID(t *testing.T) {
	if !SynthesisTaskID.IsSynthesis() {
		t.Error("SynthesisTaskID.IsSynthesis() = false")
	}
	if SynthesisTaskID.String() != "synthesis:multi_archetype_synthesis" {
		t.Errorf("SynthesisTaskID.String() = %q", SynthesisTaskID.String())
	}
	other := TaskID{Lane: "process_auditor", Type: TaskMultiArchetypeSynthesis}
	if other.IsSynthesis() {
		t.Error("lane-namespaced synthesis type must not be the synthesis node")
	}
}

func TestTaskGraph_Dependencies(t *testing.T) {
	a := TaskID{Lane: "l", Type: TaskProtocolBaseline}
	b := TaskID{Lane: "l", Type: TaskTimelineReconstruction}
	c := TaskID{Lane: "l", Type: TaskComplianceAudit}
	g := TaskGraph{
		Nodes: []TaskNode{{ID: a, Type: a.Type}, {ID: b, Type: b.Type}, {ID: c, Type: c.Type}},
		Edges: []TaskEdge{{From: a, To: c}, {From: b, To: c}},
	}

	deps := g.Dependencies(c)
	if len(deps) != 2 {
		t.Fatalf("Dependencies() = %v, want 2 entries", deps)
	}
	if len(g.Dependencies(a)) != 0 {
		t.Error("root node should have no dependencies")
	}
}
