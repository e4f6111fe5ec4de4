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

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// MaxConcernTextBytes bounds the free-text concern description.
	MaxConcernTextBytes = 4 * 1024

	// MaxPatientPayloadBytes bounds the narrative patient payload.
	MaxPatientPayloadBytes = 256 * 1024
)

// inputValidate is the validator instance for planning inputs.
var inputValidate *validator.Validate

func init() {
	inputValidate = validator.New()
	_ = inputValidate.RegisterValidation("maxbytes", validatePayloadBytes)
}

// validatePayloadBytes enforces MaxPatientPayloadBytes on string fields.
// Checks byte length, not rune count, to bound memory.
func validatePayloadBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxPatientPayloadBytes
}

// ClinicalContext is optional structured clinical context attached to a
// planning request.
type ClinicalContext struct {
	PatientID   string `json:"patient_id,omitempty"`
	EncounterID string `json:"encounter_id,omitempty"`

	// Payload is a narrative summary of the clinical record.
	Payload string `json:"payload,omitempty" validate:"maxbytes"`
}

// PlanningInput is the input boundary of the pipeline.
//
// At least one of ConcernText and ConcernID must be present for concern
// resolution to succeed.
type PlanningInput struct {
	// ConcernText is a free-text description of the concern.
	ConcernText string `json:"concern_text,omitempty" validate:"max=4096"`

	// ConcernID is an explicit concern identifier. When present it wins over
	// any pattern extracted from ConcernText.
	ConcernID string `json:"concern_id,omitempty" validate:"max=64"`

	// DomainHint optionally names the clinical domain.
	DomainHint string `json:"domain_hint,omitempty" validate:"max=64"`

	// PatientPayload is an explicit narrative patient payload.
	PatientPayload string `json:"patient_payload,omitempty" validate:"maxbytes"`

	// ClinicalContext is optional structured context.
	ClinicalContext *ClinicalContext `json:"clinical_context,omitempty"`

	// Metadata carries free-form request metadata.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks field constraints on the input.
func (in *PlanningInput) Validate() error {
	return inputValidate.Struct(in)
}

// ResolvePatientPayload resolves the narrative patient payload through the
// documented fallback chain: explicit payload field, then the nested
// clinical-context payload, then the "notes" metadata entry. Returns "" when
// none is present.
func (in *PlanningInput) ResolvePatientPayload() string {
	if s := strings.TrimSpace(in.PatientPayload); s != "" {
		return s
	}
	if in.ClinicalContext != nil {
		if s := strings.TrimSpace(in.ClinicalContext.Payload); s != "" {
			return s
		}
	}
	return strings.TrimSpace(in.Metadata["notes"])
}
