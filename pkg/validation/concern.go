// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided inputs that end up in
// registry lookups, file paths, or generation prompts. Using these validators
// prevents injection attacks (prompt injection, path traversal).
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// concernPattern matches valid concern identifiers.
// Allows: alphanumerics, dots (I25.1), hyphens (PSI-12), underscores.
// Max length: 64 characters.
var concernPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// ValidateConcernID validates a concern identifier before it reaches the
// registry or a generation prompt.
//
// Valid identifiers:
//   - 1-64 characters
//   - Letters and digits
//   - Dots (.) for code subdivisions like I25.1
//   - Hyphens (-) for indicator codes like PSI-12
//   - Underscores (_)
//
// Returns an error if the identifier is invalid.
//
// Example:
//
//	if err := validation.ValidateConcernID(concern); err != nil {
//	    return fmt.Errorf("invalid concern: %w", err)
//	}
//	// Safe to use in a registry lookup or prompt
func ValidateConcernID(concern string) error {
	if concern == "" {
		return fmt.Errorf("concern id cannot be empty")
	}

	if !concernPattern.MatchString(concern) {
		return fmt.Errorf("invalid concern id format: %q (must be 1-64 alphanumeric chars, dots, hyphens, or underscores)", concern)
	}

	return nil
}

// ValidateConcernIDs validates multiple concern identifiers.
// Returns an error listing all invalid identifiers if any fail validation.
func ValidateConcernIDs(concerns []string) error {
	var invalid []string
	for _, c := range concerns {
		if err := ValidateConcernID(c); err != nil {
			invalid = append(invalid, c)
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid concern ids: %v", invalid)
	}
	return nil
}

// SanitizeConcernID normalizes and validates a concern identifier.
// Returns the uppercase identifier if valid, or an error if invalid.
//
// Use this when you need both validation and normalization:
//
//	concern, err := validation.SanitizeConcernID(userInput)
//	if err != nil {
//	    return err
//	}
//	// concern is uppercase and validated
func SanitizeConcernID(concern string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(concern))
	if err := ValidateConcernID(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}
