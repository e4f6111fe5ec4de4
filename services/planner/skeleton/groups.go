// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package skeleton builds the structural skeleton of a plan: exactly five
// signal groups selected for the resolved domain.
package skeleton

import "strings"

// groupInfo is the shared display dictionary entry for a signal-group id.
type groupInfo struct {
	Name        string
	Description string
}

// displayDictionary maps known signal-group ids to display names and
// descriptions. Identifiers missing here get a humanized fallback label
// instead of failing the build.
var displayDictionary = map[string]groupInfo{
	"confirmation_evidence": {
		Name:        "Confirmation Evidence",
		Description: "Signals confirming the condition or metric event actually occurred.",
	},
	"exclusion_criteria": {
		Name:        "Exclusion Criteria",
		Description: "Signals that would exclude the case from the cohort or surveillance definition.",
	},
	"delay_analysis": {
		Name:        "Delay Analysis",
		Description: "Signals locating avoidable delays in the care timeline.",
	},
	"documentation_gaps": {
		Name:        "Documentation Gaps",
		Description: "Signals where the record is silent or inconsistent.",
	},
	"bundle_gaps": {
		Name:        "Bundle Gaps",
		Description: "Signals of missed prevention-bundle elements.",
	},
	"timeliness_of_care": {
		Name:        "Timeliness of Care",
		Description: "Signals measuring time-to-intervention against targets.",
	},
	"guideline_adherence": {
		Name:        "Guideline Adherence",
		Description: "Signals of conformance to clinical guidelines.",
	},
	"readmission_risk": {
		Name:        "Readmission Risk",
		Description: "Signals predicting unplanned readmission.",
	},
	"medication_optimization": {
		Name:        "Medication Optimization",
		Description: "Signals on therapy selection, dosing and reconciliation.",
	},
	"procedural_outcomes": {
		Name:        "Procedural Outcomes",
		Description: "Signals on intra- and post-procedural results.",
	},
	"complication_signals": {
		Name:        "Complication Signals",
		Description: "Signals of post-intervention complications.",
	},
	"mobility_recovery": {
		Name:        "Mobility Recovery",
		Description: "Signals tracking functional recovery milestones.",
	},
	"discharge_disposition": {
		Name:        "Discharge Disposition",
		Description: "Signals on discharge destination and readiness.",
	},
	"treatment_selection": {
		Name:        "Treatment Selection",
		Description: "Signals on appropriateness of the chosen treatment path.",
	},
	"staging_completeness": {
		Name:        "Staging Completeness",
		Description: "Signals on completeness of diagnostic staging.",
	},
	"imaging_turnaround": {
		Name:        "Imaging Turnaround",
		Description: "Signals on imaging order-to-result intervals.",
	},
}

// safetyGroupIDs is the fixed five-group set for the safety domain:
// confirm the event, exclude the case, analyze delays, find documentation
// gaps, find bundle gaps.
var safetyGroupIDs = []string{
	"confirmation_evidence",
	"exclusion_criteria",
	"delay_analysis",
	"documentation_gaps",
	"bundle_gaps",
}

// domainDefaultGroupIDs are the per-domain default five-group sets used when
// neither a packet nor ranking emphasis is available, and as the padding
// source when an emphasis list is short.
var domainDefaultGroupIDs = map[string][]string{
	"Cardiology": {
		"timeliness_of_care",
		"guideline_adherence",
		"medication_optimization",
		"procedural_outcomes",
		"readmission_risk",
	},
	"Orthopedics": {
		"complication_signals",
		"mobility_recovery",
		"discharge_disposition",
		"documentation_gaps",
		"readmission_risk",
	},
	"Oncology": {
		"treatment_selection",
		"staging_completeness",
		"timeliness_of_care",
		"complication_signals",
		"documentation_gaps",
	},
}

// genericGroupIDs is the last-resort fallback set for domains without a
// specific default.
var genericGroupIDs = []string{
	"confirmation_evidence",
	"timeliness_of_care",
	"guideline_adherence",
	"documentation_gaps",
	"readmission_risk",
}

// defaultsFor returns the padding/default source for a domain.
func defaultsFor(domain string) []string {
	if ids, ok := domainDefaultGroupIDs[domain]; ok {
		return ids
	}
	return genericGroupIDs
}

// humanize turns an unknown signal-group id into a display label:
// "oxygenation_management" becomes "Oxygenation Management".
func humanize(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
