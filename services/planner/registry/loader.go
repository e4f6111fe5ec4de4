// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
)

// MaxYAMLFileSize is the maximum allowed table file size (1MB).
// Prevents memory issues from oversized or hostile files.
const MaxYAMLFileSize = 1024 * 1024

var tracer = otel.Tracer("carefactory.registry")

//go:embed concerns.yaml
var defaultConcernsYAML []byte

//go:embed rankings.yaml
var defaultRankingsYAML []byte

//go:embed packets.yaml
var defaultPacketsYAML []byte

var (
	registryLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carefactory_registry_lookups_total",
		Help: "Registry lookups by table and outcome",
	}, []string{"table", "outcome"})

	registryLoadLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "carefactory_registry_load_seconds",
		Help:    "Lookup table load latency",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	registryReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carefactory_registry_reloads_total",
		Help: "Registry reloads by outcome",
	}, []string{"outcome"})
)

// Registry is the standard Store implementation backed by YAML tables.
//
// Description:
//
//	Registry loads embedded default tables, optionally overridden by files
//	in a config directory. Reload swaps the whole snapshot atomically so
//	in-flight pipeline runs keep a consistent view.
//
// Thread Safety:
//
//	Safe for concurrent use.
type Registry struct {
	dir     string
	logger  *slog.Logger
	current atomic.Pointer[tables]
}

// Load builds a Registry from the config directory.
//
// Inputs:
//
//	ctx - Context for tracing.
//	dir - Directory holding concerns.yaml / rankings.yaml / packets.yaml
//	      overrides. Empty means embedded defaults only. A missing file
//	      falls back to its embedded default.
//	logger - Logger. If nil, uses slog.Default().
//
// Outputs:
//
//	*Registry - The loaded registry.
//	error - Non-nil if any present table fails to parse or validate.
func Load(ctx context.Context, dir string, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{dir: dir, logger: logger}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads all three tables and atomically swaps the snapshot.
// On failure the previous snapshot stays active.
func (r *Registry) Reload(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "registry.Reload")
	defer span.End()

	start := time.Now()
	t, err := r.loadTables(ctx)
	registryLoadLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		registryReloads.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	r.current.Store(t)
	registryReloads.WithLabelValues("ok").Inc()
	span.SetAttributes(
		attribute.String("registry.version", t.version),
		attribute.Int("registry.concerns", len(t.concerns)),
		attribute.Int("registry.packets", len(t.packets)),
	)

	r.logger.Info("lookup tables loaded",
		slog.String("version", t.version),
		slog.Int("concerns", len(t.concerns)),
		slog.Int("rankings", len(t.rankings)),
		slog.Int("packets", len(t.packets)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// loadTables parses the three table files concurrently.
func (r *Registry) loadTables(ctx context.Context) (*tables, error) {
	var (
		cf concernsFile
		rf rankingsFile
		pf packetsFile
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return r.readTable("concerns.yaml", defaultConcernsYAML, &cf) })
	g.Go(func() error { return r.readTable("rankings.yaml", defaultRankingsYAML, &rf) })
	g.Go(func() error { return r.readTable("packets.yaml", defaultPacketsYAML, &pf) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t := &tables{
		version:  cf.Version,
		concerns: cf.Concerns,
		rankings: rf.Rankings,
		packets:  make(map[string]Packet, len(pf.Packets)),
	}
	if t.rankings == nil {
		t.rankings = map[string]RankingEntry{}
	}
	for _, p := range pf.Packets {
		t.packets[p.Domain] = p
	}

	// Compile patterns up front so lookup never pays or fails for them.
	for i := range t.concerns {
		m := &t.concerns[i]
		if m.Match == "" && m.Pattern == "" {
			return nil, fmt.Errorf("concern entry %d: neither match nor pattern set", i)
		}
		if m.Pattern != "" {
			re, err := regexp.Compile(m.Pattern)
			if err != nil {
				return nil, fmt.Errorf("concern entry %d: bad pattern %q: %w", i, m.Pattern, err)
			}
			m.re = re
		}
		if m.Domain == "" {
			return nil, fmt.Errorf("concern entry %d: missing domain", i)
		}
		if !m.Archetype.Known() {
			return nil, fmt.Errorf("concern entry %d: unknown archetype %q", i, m.Archetype)
		}
	}
	return t, nil
}

// readTable reads one table file, falling back to its embedded default when
// the override file is absent.
func (r *Registry) readTable(name string, fallback []byte, out any) error {
	data := fallback
	if r.dir != "" {
		path := filepath.Join(r.dir, name)
		info, err := os.Stat(path)
		switch {
		case err == nil:
			if info.Size() > MaxYAMLFileSize {
				return fmt.Errorf("%s: file too large (%d bytes, max %d)", name, info.Size(), MaxYAMLFileSize)
			}
			data, err = os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		case os.IsNotExist(err):
			r.logger.Debug("table override absent, using embedded default", slog.String("table", name))
		default:
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// ResolveConcern implements Store.
func (r *Registry) ResolveConcern(concern string) (ConcernMapping, bool) {
	t := r.current.Load()
	for i := range t.concerns {
		if t.concerns[i].Matches(concern) {
			registryLookups.WithLabelValues("concerns", "hit").Inc()
			return t.concerns[i], true
		}
	}
	registryLookups.WithLabelValues("concerns", "miss").Inc()
	return ConcernMapping{}, false
}

// KnownConcern implements Store.
func (r *Registry) KnownConcern(concern string) bool {
	_, ok := r.ResolveConcern(concern)
	return ok
}

// Ranking implements Store.
func (r *Registry) Ranking(concern string) (RankingEntry, bool) {
	t := r.current.Load()
	entry, ok := t.rankings[concern]
	if ok {
		registryLookups.WithLabelValues("rankings", "hit").Inc()
	} else {
		registryLookups.WithLabelValues("rankings", "miss").Inc()
	}
	return entry, ok
}

// PacketContext implements Store.
func (r *Registry) PacketContext(domain, concern string) (*datatypes.PacketContext, bool) {
	t := r.current.Load()
	p, ok := t.packets[domain]
	if !ok {
		registryLookups.WithLabelValues("packets", "miss").Inc()
		return nil, false
	}
	m, ok := p.Metrics[concern]
	if !ok {
		registryLookups.WithLabelValues("packets", "miss").Inc()
		return nil, false
	}
	registryLookups.WithLabelValues("packets", "hit").Inc()
	return &datatypes.PacketContext{
		Domain:       domain,
		Definition:   m.Definition,
		RiskFactors:  m.RiskFactors,
		SignalGroups: m.SignalGroups,
		Archetypes:   m.Archetypes,
	}, true
}

// Version implements Store.
func (r *Registry) Version() string {
	return r.current.Load().version
}
