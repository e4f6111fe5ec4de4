// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/CareFactory/services/planner/registry"
)

// HealthCheck reports service readiness plus the loaded registry version.
func HealthCheck(store registry.Store, backend string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":           "ok",
			"registry_version": store.Version(),
			"backend":          backend,
		})
	}
}

// HandleResolveConcern previews how a concern id would route, without
// running the pipeline.
func HandleResolveConcern(store registry.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		concern := c.Param("concern")

		mapping, ok := store.ResolveConcern(concern)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "concern has no domain mapping", "concern": concern})
			return
		}

		resp := gin.H{
			"concern":   concern,
			"domain":    mapping.Domain,
			"archetype": mapping.Archetype,
		}
		if entry, ok := store.Ranking(concern); ok {
			resp["rank"] = entry.Rank
			resp["specialty"] = entry.Specialty
		}
		c.JSON(http.StatusOK, resp)
	}
}
