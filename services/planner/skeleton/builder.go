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
	"log/slog"

	"github.com/google/uuid"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
	"github.com/AleutianAI/CareFactory/services/planner/validation"
)

// Build constructs the structural skeleton for a resolved domain context.
//
// Description:
//
//	Group selection is strict priority, first source wins: the fixed safety
//	set for the safety domain, then the packet's signal-group ids, then the
//	ranking signal-emphasis list, then domain defaults. Whatever the
//	source, the result is padded from the domain defaults (skipping
//	duplicates) and truncated so the skeleton always carries exactly five
//	groups — count correctness takes precedence over source fidelity.
//
// Inputs:
//
//	routed - The routed input (concern identity for the descriptor).
//	dc - The resolved domain context.
//	logger - Logger. If nil, uses slog.Default().
//
// Outputs:
//
//	datatypes.StructuralSkeleton - The five-group skeleton.
//	validation.Result - Structural checks plus domain advisory findings.
func Build(routed datatypes.RoutedInput, dc datatypes.DomainContext, logger *slog.Logger) (datatypes.StructuralSkeleton, validation.Result) {
	if logger == nil {
		logger = slog.Default()
	}

	ids, source := selectGroupIDs(dc)
	ids = padToCount(ids, defaultsFor(dc.Domain))

	groups := make([]datatypes.SignalGroup, 0, datatypes.SignalGroupCount)
	for _, id := range ids {
		info, ok := displayDictionary[id]
		if !ok {
			info = groupInfo{Name: humanize(id)}
		}
		groups = append(groups, datatypes.SignalGroup{
			GroupID:     id,
			Name:        info.Name,
			Description: info.Description,
			Signals:     []string{},
		})
	}

	skel := datatypes.StructuralSkeleton{
		PlanID: uuid.NewString()[:12],
		Concern: datatypes.ConcernDescriptor{
			Concern: routed.Concern,
			Domain:  dc.Domain,
			Label:   concernLabel(routed, dc),
		},
		SignalGroups: groups,
	}

	res := Validate(&skel)
	validation.CheckSkeletonForDomain(&res, dc.Domain, &skel)

	logger.Debug("skeleton built",
		slog.String("plan_id", skel.PlanID),
		slog.String("source", source),
		slog.Int("groups", len(skel.SignalGroups)),
	)
	return skel, res
}

// selectGroupIDs picks the raw group-id list and names its source.
func selectGroupIDs(dc datatypes.DomainContext) ([]string, string) {
	if dc.Domain == datatypes.DomainSafety {
		return append([]string(nil), safetyGroupIDs...), "safety_defaults"
	}
	if p := dc.Semantic.Packet; p != nil && len(p.SignalGroups) > 0 {
		return append([]string(nil), p.SignalGroups...), "semantic_packet"
	}
	if r := dc.Semantic.Ranking; r != nil && len(r.SignalEmphasis) > 0 {
		return append([]string(nil), r.SignalEmphasis...), "ranking_emphasis"
	}
	return append([]string(nil), defaultsFor(dc.Domain)...), "domain_defaults"
}

// padToCount pads ids from the defaults (skipping duplicates) and truncates
// to exactly the required count.
func padToCount(ids []string, defaults []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, datatypes.SignalGroupCount)
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	for _, id := range defaults {
		if len(out) >= datatypes.SignalGroupCount {
			break
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	// Generic fallback covers the pathological case of short defaults.
	for _, id := range genericGroupIDs {
		if len(out) >= datatypes.SignalGroupCount {
			break
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) > datatypes.SignalGroupCount {
		out = out[:datatypes.SignalGroupCount]
	}
	return out
}

// concernLabel derives a display label for the concern descriptor.
func concernLabel(routed datatypes.RoutedInput, dc datatypes.DomainContext) string {
	if r := dc.Semantic.Ranking; r != nil && r.Specialty != "" {
		return r.Specialty + " " + routed.Concern
	}
	return dc.Domain + " " + routed.Concern
}

// Validate checks the skeleton's structural invariants: exactly five groups,
// unique group ids, non-empty display names, and not-yet-populated signal
// lists. Violations are errors, never silently repaired.
func Validate(skel *datatypes.StructuralSkeleton) validation.Result {
	res := validation.NewResult()

	if len(skel.SignalGroups) != datatypes.SignalGroupCount {
		res.AddError("skeleton has %d signal groups, want exactly %d",
			len(skel.SignalGroups), datatypes.SignalGroupCount)
	}
	seen := make(map[string]bool, len(skel.SignalGroups))
	for _, g := range skel.SignalGroups {
		if g.GroupID == "" {
			res.AddError("signal group with empty group_id")
			continue
		}
		if seen[g.GroupID] {
			res.AddError("duplicate signal group id %q", g.GroupID)
		}
		seen[g.GroupID] = true
		if g.Name == "" {
			res.AddError("signal group %q has an empty display name", g.GroupID)
		}
		if len(g.Signals) != 0 {
			res.AddError("signal group %q already carries signals before generation", g.GroupID)
		}
	}
	if skel.PlanID == "" {
		res.AddError("skeleton is missing a plan id")
	}
	return res
}
