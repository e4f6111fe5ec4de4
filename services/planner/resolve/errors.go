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

import "errors"

// Sentinel errors for the resolve package.
var (
	// ErrUnresolvedConcern is returned when neither an explicit id nor a
	// recognized pattern yields a concern. The pipeline cannot proceed
	// without a concern.
	ErrUnresolvedConcern = errors.New("concern could not be resolved from input")

	// ErrNoDomainMapping is returned when domain resolution produces no
	// usable archetype set.
	ErrNoDomainMapping = errors.New("no domain mapping for concern")
)
