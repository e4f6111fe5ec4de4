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
	"log/slog"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
	"github.com/AleutianAI/CareFactory/services/planner/validation"
)

// RankCutoff is the top-tier boundary. Ranking context is attached only when
// a specialty's rank is at or inside this tier.
const RankCutoff = 20

// Domain resolves a RoutedInput into a DomainContext.
//
// Description:
//
//	Looks up (domain, primary archetype) from the concern registry. When no
//	entry matches, falls back to the domain hint (or the safety domain) with
//	the default detective archetype and records a warning — the fallback
//	deliberately swallows a possible input error, so the warning names the
//	concern for observability. The archetype set is then derived from the
//	semantic packet, and ranking context is attached for non-safety domains
//	within the top tier.
//
// Outputs:
//
//	datatypes.DomainContext - The resolved context.
//	validation.Result - Warnings for fallbacks and missing context data.
//	error - ErrNoDomainMapping only when the archetype set comes up empty.
func (r *Resolver) Domain(routed datatypes.RoutedInput) (datatypes.DomainContext, validation.Result, error) {
	res := validation.NewResult()

	domain, primary := r.lookupDomain(routed, &res)

	packet, ok := r.store.PacketContext(domain, routed.Concern)
	if !ok {
		// Absence of a packet is expected for many concerns; downstream
		// stages degrade to registry and default data.
		packet = nil
	}

	archetypes := DeriveArchetypes(primary, packet)
	if len(archetypes) == 0 {
		res.AddError("archetype derivation produced an empty set for concern %q", routed.Concern)
		return datatypes.DomainContext{}, res, ErrNoDomainMapping
	}

	dc := datatypes.DomainContext{
		Domain:     domain,
		Primary:    primary,
		Archetypes: archetypes,
		Semantic:   datatypes.SemanticContext{Packet: packet},
	}

	// The safety domain never receives ranking context: it is a patient
	// safety construct, not a competitive-ranking one.
	if domain != datatypes.DomainSafety {
		if entry, ok := r.store.Ranking(routed.Concern); ok {
			if entry.Rank > 0 && entry.Rank <= RankCutoff {
				dc.Semantic.Ranking = &datatypes.RankingContext{
					Specialty:       entry.Specialty,
					Rank:            entry.Rank,
					SignalEmphasis:  entry.SignalEmphasis,
					Differentiators: entry.Differentiators,
				}
			} else {
				res.AddWarning("concern %q ranked %d, outside the top tier; ranking context dropped",
					routed.Concern, entry.Rank)
			}
		}
	}

	r.logger.Info("domain resolved",
		slog.String("concern", routed.Concern),
		slog.String("domain", dc.Domain),
		slog.Int("archetypes", len(dc.Archetypes)),
		slog.Bool("packet", dc.Semantic.Packet != nil),
		slog.Bool("ranking", dc.Semantic.Ranking != nil),
	)
	return dc, res, nil
}

// lookupDomain consults the registry, falling back to hint or safety domain.
func (r *Resolver) lookupDomain(routed datatypes.RoutedInput, res *validation.Result) (string, datatypes.Archetype) {
	if m, ok := r.store.ResolveConcern(routed.Concern); ok {
		return m.Domain, m.Archetype
	}

	domain := routed.DomainHint
	if domain == "" {
		domain = datatypes.DomainSafety
	}
	res.AddWarning("concern %q has no registry mapping; falling back to domain %q with %s",
		routed.Concern, domain, datatypes.ArchetypePreventabilityDetective)
	return domain, datatypes.ArchetypePreventabilityDetective
}
