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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/CareFactory/pkg/extensions"
	"github.com/AleutianAI/CareFactory/services/llm"
	"github.com/AleutianAI/CareFactory/services/planner/executor"
	"github.com/AleutianAI/CareFactory/services/planner/pipeline"
	"github.com/AleutianAI/CareFactory/services/planner/registry"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := registry.Load(context.Background(), "", nil)
	require.NoError(t, err)

	exec, err := executor.NewExecutor(llm.NewStaticClient(), nil, executor.WithRateLimit(rate.Inf, 1))
	require.NoError(t, err)
	p, err := pipeline.New(store, exec, nil)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/healthz", HealthCheck(store, "static"))
	router.POST("/v1/plans", HandleCreatePlan(p, &extensions.NopAuditLogger{}))
	router.GET("/v1/concerns/:concern", HandleResolveConcern(store))
	return router
}

func TestHealthCheck(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "static", body["backend"])
	assert.NotEmpty(t, body["registry_version"])
}

func TestCreatePlan_Success(t *testing.T) {
	router := testRouter(t)

	payload := `{"concern_text": "possible CLABSI on the central line", "patient_payload": "72F, PICC day 4, febrile."}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/plans", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["plan_id"])
	require.Contains(t, body, "execution")
	execution := body["execution"].(map[string]any)
	assert.Equal(t, true, execution["success"])
}

func TestCreatePlan_MalformedBody(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/plans", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePlan_UnresolvedConcern(t *testing.T) {
	router := testRouter(t)

	payload := `{"concern_text": "general chart review please"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/plans", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, pipeline.StageConcern, body["stage"])
}

func TestCreatePlan_OversizedInput(t *testing.T) {
	router := testRouter(t)

	payload := `{"concern_text": "` + strings.Repeat("x", 5000) + `"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/plans", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveConcern_Known(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/concerns/I25", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Cardiology", body["domain"])
	assert.Equal(t, "Process_Auditor", body["archetype"])
	assert.Equal(t, float64(14), body["rank"])
}

func TestResolveConcern_Unknown(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/concerns/Z99", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
