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
	"strings"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
)

// Keyword families for heuristic archetype derivation. This is a closed
// classifier over the archetype label set; extend a family's keyword list
// here without touching resolver control flow.
var keywordFamilies = []struct {
	archetype datatypes.Archetype
	keywords  []string
}{
	{datatypes.ArchetypeExclusionHunter, []string{
		"exclusion", "excluded", "contraindication", "contraindicated", "ineligible",
	}},
	{datatypes.ArchetypeProcessAuditor, []string{
		"timing", "delay", "delayed", "protocol", "door-to", "turnaround",
	}},
	{datatypes.ArchetypePreventabilityDetective, []string{
		"bundle", "compliance", "preventable", "preventability", "infection",
	}},
}

// DeriveArchetypes computes the final ordered archetype set for a domain.
//
// Description:
//
//	If the packet explicitly lists archetypes, that list is the source of
//	truth and is taken verbatim (deduplicated and sorted). Otherwise the
//	set starts from the primary archetype and grows by scanning the
//	packet's risk-factor and signal-group text for the keyword families.
//	The result is always sorted by the fixed priority table, which is what
//	makes lane construction reproducible across runs.
//
// Inputs:
//
//	primary - The primary archetype from the concern registry.
//	packet - The semantic-packet slice for the concern. May be nil.
//
// Outputs:
//
//	[]datatypes.Archetype - Non-empty, duplicate-free, priority-ordered.
func DeriveArchetypes(primary datatypes.Archetype, packet *datatypes.PacketContext) []datatypes.Archetype {
	if packet != nil && len(packet.Archetypes) > 0 {
		out := datatypes.DedupeArchetypes(packet.Archetypes)
		datatypes.SortArchetypes(out)
		return out
	}

	set := []datatypes.Archetype{primary}
	if packet != nil {
		corpus := strings.ToLower(strings.Join(packet.RiskFactors, " ") + " " +
			strings.Join(packet.SignalGroups, " "))
		for _, family := range keywordFamilies {
			for _, kw := range family.keywords {
				if strings.Contains(corpus, kw) {
					set = append(set, family.archetype)
					break
				}
			}
		}
	}

	out := datatypes.DedupeArchetypes(set)
	datatypes.SortArchetypes(out)
	return out
}
