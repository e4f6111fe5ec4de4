// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package registry loads the static lookup tables the planner resolvers
// consume: the concern registry, the specialty rankings, and the per-domain
// semantic packets. Tables are read-only after load; the resolvers receive
// them behind the Store interface so tests can inject synthetic tables.
package registry

import (
	"regexp"

	"github.com/AleutianAI/CareFactory/services/planner/datatypes"
)

// ConcernMapping is one entry of the ordered concern registry.
type ConcernMapping struct {
	// Match is an exact concern identifier. Mutually exclusive with Pattern.
	Match string `yaml:"match,omitempty"`

	// Pattern is an anchored-as-written regular expression over the concern
	// identifier.
	Pattern string `yaml:"pattern,omitempty"`

	Domain    string              `yaml:"domain"`
	Archetype datatypes.Archetype `yaml:"archetype"`

	re *regexp.Regexp
}

// Matches reports whether the entry applies to the given concern.
func (m *ConcernMapping) Matches(concern string) bool {
	if m.Match != "" {
		return m.Match == concern
	}
	return m.re != nil && m.re.MatchString(concern)
}

// RankingEntry is one specialty ranking record.
type RankingEntry struct {
	Specialty       string   `yaml:"specialty"`
	Rank            int      `yaml:"rank"`
	SignalEmphasis  []string `yaml:"signal_emphasis"`
	Differentiators []string `yaml:"differentiators"`
}

// PacketMetric is one metric entry of a domain semantic packet.
type PacketMetric struct {
	Definition   string                `yaml:"definition"`
	RiskFactors  []string              `yaml:"risk_factors"`
	SignalGroups []string              `yaml:"signal_groups"`
	Archetypes   []datatypes.Archetype `yaml:"archetypes,omitempty"`
}

// Packet is a domain-wide semantic packet.
type Packet struct {
	Domain  string                  `yaml:"domain"`
	Metrics map[string]PacketMetric `yaml:"metrics"`
}

// Store is the read-only lookup surface the resolvers depend on.
//
// Thread Safety:
//
//	Implementations must be safe for concurrent use.
type Store interface {
	// ResolveConcern returns the first registry entry matching concern.
	ResolveConcern(concern string) (ConcernMapping, bool)

	// KnownConcern reports whether concern appears in the registry, either
	// as an exact match entry or via pattern.
	KnownConcern(concern string) bool

	// Ranking returns the ranking record for concern.
	Ranking(concern string) (RankingEntry, bool)

	// PacketContext returns the semantic-packet slice for (domain, concern).
	// The second return is false when the domain has no packet or the packet
	// has no entry for the concern; both are expected, not errors.
	PacketContext(domain, concern string) (*datatypes.PacketContext, bool)

	// Version identifies the loaded table snapshot.
	Version() string
}

// concernsFile is the YAML shape of concerns.yaml.
type concernsFile struct {
	Version  string           `yaml:"version"`
	Concerns []ConcernMapping `yaml:"concerns"`
}

// rankingsFile is the YAML shape of rankings.yaml.
type rankingsFile struct {
	Version  string                  `yaml:"version"`
	Rankings map[string]RankingEntry `yaml:"rankings"`
}

// packetsFile is the YAML shape of packets.yaml.
type packetsFile struct {
	Version string   `yaml:"version"`
	Packets []Packet `yaml:"packets"`
}

// tables is one immutable snapshot of all three lookup tables.
type tables struct {
	version  string
	concerns []ConcernMapping
	rankings map[string]RankingEntry
	packets  map[string]Packet
}
