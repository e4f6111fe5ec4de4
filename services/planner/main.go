// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/CareFactory/pkg/extensions"
	"github.com/AleutianAI/CareFactory/services/llm"
	"github.com/AleutianAI/CareFactory/services/planner/executor"
	"github.com/AleutianAI/CareFactory/services/planner/observability"
	"github.com/AleutianAI/CareFactory/services/planner/pipeline"
	"github.com/AleutianAI/CareFactory/services/planner/registry"
	"github.com/AleutianAI/CareFactory/services/planner/routes"
	"github.com/AleutianAI/CareFactory/services/planner/validation"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "carefactory-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("planner-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

// newBackend selects the generation backend from LLM_BACKEND_TYPE.
func newBackend() (llm.Client, string, error) {
	backendType := os.Getenv("LLM_BACKEND_TYPE")
	switch backendType {
	case "openai":
		client, err := llm.NewOpenAIClient()
		slog.Info("Using OpenAI generation backend")
		return client, "openai", err
	case "claude", "anthropic":
		client, err := llm.NewAnthropicClient()
		slog.Info("Using Anthropic (Claude) generation backend")
		return client, "anthropic", err
	case "static", "dry-run":
		return llm.NewStaticClient(), "static", nil
	default:
		slog.Warn("LLM_BACKEND_TYPE not set or invalid, defaulting to static")
		return llm.NewStaticClient(), "static", nil
	}
}

func main() {
	port := os.Getenv("PLANNER_PORT")
	if port == "" {
		port = "12310"
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// --- Init the tracer ---
	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	ctx := context.Background()

	// REGISTRY_DIR overrides the embedded lookup tables; when set, edits to
	// the yaml files hot-reload.
	registryDir := os.Getenv("REGISTRY_DIR")
	store, err := registry.Load(ctx, registryDir, logger)
	if err != nil {
		log.Fatalf("FATAL: Could not load the concern registry: %v", err)
	}
	if registryDir != "" {
		// Watch blocks until ctx is canceled, so it runs off the startup path.
		go func() {
			if err := store.Watch(ctx); err != nil {
				slog.Warn("registry hot reload unavailable", "error", err)
			}
		}()
	}

	backend, backendName, err := newBackend()
	if err != nil {
		log.Fatalf("Failed to initialize the generation backend: %v", err)
	}

	exec, err := executor.NewExecutor(backend, logger)
	if err != nil {
		log.Fatalf("Failed to initialize the executor: %v", err)
	}

	var opts []pipeline.Option
	if os.Getenv("PLAN_FAIL_ACTION") == "block" {
		opts = append(opts, pipeline.WithFailAction(validation.FailActionBlock))
	}
	if os.Getenv("PLAN_ONLY") == "true" {
		opts = append(opts, pipeline.WithoutExecution())
	}

	p, err := pipeline.New(store, exec, logger, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize the pipeline: %v", err)
	}

	observability.InitMetrics()

	router := gin.Default()
	router.Use(otelgin.Middleware("planner-service"))

	// Open source defaults: local admin auth, no-op audit. Hosted
	// deployments swap in real providers here.
	routes.SetupRoutes(router, p, store, backendName, extensions.DefaultOptions())

	log.Println("Starting the planner server on port ", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
