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
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/CareFactory/pkg/extensions"
	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
	"github.com/AleutianAI/CareFactory/services/planner/middleware"
	"github.com/AleutianAI/CareFactory/services/planner/observability"
	"github.com/AleutianAI/CareFactory/services/planner/pipeline"
)

var plansTracer = otel.Tracer("carefactory.handlers")

// HandleCreatePlan runs the planning pipeline for one request.
//
// Status mapping:
//   - 400 for malformed or invalid input
//   - 422 when resolution or validation halts the pipeline
//   - 502 when execution against the backend fails
func HandleCreatePlan(p *pipeline.Pipeline, audit extensions.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := plansTracer.Start(c.Request.Context(), "HandleCreatePlan")
		defer span.End()

		metrics := observability.DefaultMetrics
		metrics.PlanStarted()
		defer metrics.PlanEnded()
		start := time.Now()

		var input datatypes.PlanningInput
		if err := c.BindJSON(&input); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to parse the plan request", "error", err)
			metrics.RecordPlan(observability.OutcomeError, time.Since(start).Seconds())
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		result, err := p.Run(ctx, &input)
		recordWarnings(metrics, result)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			var stageErr *pipeline.StageError
			if errors.As(err, &stageErr) {
				metrics.RecordHalt(stageErr.Stage)
				metrics.RecordPlan(observability.OutcomeHalted, time.Since(start).Seconds())
				logAudit(c, audit, "plan.halt", resultPlanID(result), "halted")
				c.JSON(stageStatus(stageErr.Stage), gin.H{
					"error":    stageErr.Error(),
					"stage":    stageErr.Stage,
					"errors":   stageErr.Result.Errors,
					"warnings": result.Warnings,
				})
				return
			}
			metrics.RecordPlan(observability.OutcomeError, time.Since(start).Seconds())
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		metrics.RecordPlan(observability.OutcomeSuccess, time.Since(start).Seconds())
		logAudit(c, audit, "plan.create", result.PlanID, "success")
		c.JSON(http.StatusOK, result)
	}
}

func stageStatus(stage string) int {
	switch stage {
	case pipeline.StageInput:
		return http.StatusBadRequest
	case pipeline.StageExecution:
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}

// recordWarnings attributes gate warnings to their stage. Warnings carry a
// "stage: message" prefix from the pipeline.
func recordWarnings(metrics *observability.PlanningMetrics, result *pipeline.PlanResult) {
	if result == nil {
		return
	}
	for _, w := range result.Warnings {
		stage, _, found := strings.Cut(w, ":")
		if !found {
			stage = "unknown"
		}
		metrics.RecordWarning(stage)
	}
}

func logAudit(c *gin.Context, audit extensions.AuditLogger, eventType, planID, outcome string) {
	event := extensions.AuditEvent{
		EventType:    eventType,
		Action:       c.Request.Method + " " + c.FullPath(),
		ResourceType: "plan",
		ResourceID:   planID,
		Outcome:      outcome,
	}
	if info := middleware.GetAuthInfo(c); info != nil {
		event.UserID = info.UserID
	}
	if err := audit.Log(c.Request.Context(), event); err != nil {
		slog.Warn("Failed to write the audit event", "event_type", eventType, "error", err)
	}
}

func resultPlanID(result *pipeline.PlanResult) string {
	if result == nil {
		return ""
	}
	return result.PlanID
}
