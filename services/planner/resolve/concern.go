// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package resolve implements the first two pipeline stages: extracting a
// canonical concern from raw input, and resolving the concern into a domain
// context with a derived archetype set.
package resolve

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
	"github.com/AleutianAI/CareFactory/services/planner/registry"
	"github.com/AleutianAI/CareFactory/services/planner/validation"
)

// Code-pattern families, in priority order. Ranked-specialty codes are
// tried before surveillance acronyms; the first match anywhere in the text
// wins within a family.
var (
	// rankedCodePattern matches alphanumeric ranked-specialty codes such as
	// "I25" or "M17.1".
	rankedCodePattern = regexp.MustCompile(`\b([A-Z]\d{2}(?:\.\d{1,2})?)\b`)

	// safetyAcronymPattern matches the fixed set of safety-surveillance
	// acronyms with exact word boundaries.
	safetyAcronymPattern = regexp.MustCompile(`\b(CLABSI|CAUTI|SSI|VAP|CDI|MRSA|PSI-?\d{1,2})\b`)

	// concernShapePattern is the broad structural check applied after
	// resolution. It bounds length and character set, nothing more.
	concernShapePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)
)

// Resolver implements concern and domain resolution against injected lookup
// tables.
//
// Thread Safety:
//
//	Safe for concurrent use.
type Resolver struct {
	store  registry.Store
	logger *slog.Logger
}

// NewResolver creates a Resolver.
//
// Inputs:
//
//	store - Lookup tables. Must not be nil.
//	logger - Logger. If nil, uses slog.Default().
func NewResolver(store registry.Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, logger: logger}
}

// Concern resolves a canonical concern from the planning input.
//
// Description:
//
//	Priority order: the explicit id field if present, then the first match
//	of the ordered code-pattern families against the free text. A domain
//	hint alone never produces a concern; if nothing matches, resolution
//	fails rather than guessing.
//
// Outputs:
//
//	datatypes.RoutedInput - The routed input carrying the concern.
//	validation.Result - Structural check plus known-concern advisory.
//	error - ErrUnresolvedConcern when no concern can be extracted.
func (r *Resolver) Concern(input *datatypes.PlanningInput) (datatypes.RoutedInput, validation.Result, error) {
	res := validation.NewResult()

	concern := strings.TrimSpace(input.ConcernID)
	if concern == "" {
		concern = extractConcern(input.ConcernText)
	}
	if concern == "" {
		if strings.TrimSpace(input.DomainHint) != "" {
			// A hint steers domain fallback but is not a concern. The next
			// stage never runs without one, so this stays a hard failure.
			r.logger.Info("no concern extracted; domain hint alone cannot resolve one",
				slog.String("hint", input.DomainHint),
			)
		}
		res.AddError("no concern could be resolved from input")
		return datatypes.RoutedInput{}, res, ErrUnresolvedConcern
	}

	routed := datatypes.RoutedInput{
		Source:     input.ConcernText,
		Concern:    concern,
		DomainHint: strings.TrimSpace(input.DomainHint),
	}

	if !concernShapePattern.MatchString(concern) {
		res.AddError("concern %q does not match the expected identifier shape", concern)
		return routed, res, nil
	}
	if !r.store.KnownConcern(concern) {
		res.AddWarning("concern %q is not in the known-concern registry", concern)
	}
	res.SetMetadata("concern", concern)

	r.logger.Debug("concern resolved",
		slog.String("concern", concern),
		slog.Bool("explicit", input.ConcernID != ""),
	)
	return routed, res, nil
}

// extractConcern applies the ordered pattern families to free text.
func extractConcern(text string) string {
	if text == "" {
		return ""
	}
	if m := rankedCodePattern.FindString(text); m != "" {
		return m
	}
	if m := safetyAcronymPattern.FindString(text); m != "" {
		return m
	}
	return ""
}
