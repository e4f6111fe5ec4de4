// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/CareFactory/pkg/extensions"
	"github.com/AleutianAI/CareFactory/services/planner/handlers"
	"github.com/AleutianAI/CareFactory/services/planner/middleware"
	"github.com/AleutianAI/CareFactory/services/planner/pipeline"
	"github.com/AleutianAI/CareFactory/services/planner/registry"
)

// SetupRoutes registers the planner endpoints. Health and metrics stay
// unauthenticated; the /v1 API runs behind the configured AuthProvider.
func SetupRoutes(router *gin.Engine, p *pipeline.Pipeline, store registry.Store, backend string, opts extensions.ServiceOptions) {
	router.GET("/healthz", handlers.HealthCheck(store, backend))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(opts.AuthProvider, opts.AuditLogger))
	{
		v1.POST("/plans", handlers.HandleCreatePlan(p, opts.AuditLogger))
		v1.GET("/concerns/:concern", handlers.HandleResolveConcern(store))
	}
}
