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

// DomainSafety is the designated patient-safety domain. Concerns routed here
// never receive ranking context: hospital-acquired-condition surveillance is
// a safety construct, not a competitive-ranking one.
const DomainSafety = "HAC"

// RoutedInput is the output of concern resolution: the canonical concern plus
// the raw input it came from. Never mutated after creation.
type RoutedInput struct {
	// Source is the free-text input the concern was extracted from.
	Source string `json:"source"`

	// Concern is the canonical concern identifier. This is the sole routing
	// key for every downstream lookup.
	Concern string `json:"concern"`

	// DomainHint is the caller-supplied domain hint, if any. A hint alone
	// never produces a concern id; it only steers domain fallback.
	DomainHint string `json:"domain_hint,omitempty"`
}

// PacketContext is the per-concern slice of a domain semantic packet: the
// metric definition plus the signal taxonomy that drives deterministic
// generation.
type PacketContext struct {
	Domain       string      `json:"domain"`
	Definition   string      `json:"definition"`
	RiskFactors  []string    `json:"risk_factors"`
	SignalGroups []string    `json:"signal_groups"`
	Archetypes   []Archetype `json:"archetypes,omitempty"`
}

// RankingContext is competitive-ranking metadata attached only to non-safety
// domains whose rank falls within the top tier.
type RankingContext struct {
	Specialty       string   `json:"specialty"`
	Rank            int      `json:"rank"`
	SignalEmphasis  []string `json:"signal_emphasis"`
	Differentiators []string `json:"differentiators,omitempty"`
}

// SemanticContext bundles the optional packet and ranking context loaded
// during domain resolution.
type SemanticContext struct {
	Packet  *PacketContext  `json:"packet,omitempty"`
	Ranking *RankingContext `json:"ranking,omitempty"`
}

// DomainContext is the output of domain/archetype resolution.
//
// Invariant: Archetypes is non-empty, duplicate-free, and totally ordered by
// the fixed archetype priority table regardless of how it was derived.
type DomainContext struct {
	Domain     string          `json:"domain"`
	Primary    Archetype       `json:"primary_archetype"`
	Archetypes []Archetype     `json:"archetypes"`
	Semantic   SemanticContext `json:"semantic_context"`
}

// ConcernDescriptor labels the concern a skeleton was built for.
type ConcernDescriptor struct {
	Concern string `json:"concern"`
	Domain  string `json:"domain"`
	Label   string `json:"label"`
}

// SignalGroup is one named category of clinical evidence signals. Signals
// are populated by later stages; the builder always emits an empty list.
type SignalGroup struct {
	GroupID     string   `json:"group_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Signals     []string `json:"signals"`
}

// StructuralSkeleton is the signal-group scaffold of a plan.
//
// Invariant: exactly five signal groups with unique group ids. A skeleton
// violating this must fail validation, never be silently padded downstream.
type StructuralSkeleton struct {
	PlanID       string            `json:"plan_id"`
	Concern      ConcernDescriptor `json:"concern"`
	SignalGroups []SignalGroup     `json:"signal_groups"`
}

// SignalGroupCount is the fixed skeleton cardinality.
const SignalGroupCount = 5

// ResponseFormat constrains the shape of a task's generated output.
type ResponseFormat string

const (
	// FormatJSON requires syntactically valid JSON output.
	FormatJSON ResponseFormat = "json"

	// FormatJSONSchema requires JSON validated against a referenced schema.
	FormatJSONSchema ResponseFormat = "json_schema"

	// FormatText places no structural constraint on the output.
	FormatText ResponseFormat = "text"
)

// PromptConfig is the versioned prompt/model configuration attached to one
// task node.
type PromptConfig struct {
	TemplateID  string         `json:"template_id"`
	Model       string         `json:"model"`
	Temperature float32        `json:"temperature"`
	Format      ResponseFormat `json:"format"`

	// SchemaRef names the output schema. Required when Format is
	// FormatJSONSchema, empty otherwise.
	SchemaRef string `json:"schema_ref,omitempty"`

	// RequiresContext marks tasks that must not dispatch without a patient
	// payload. The executor fails fast on these before any backend call.
	RequiresContext bool `json:"requires_context"`
}

// PromptNode pairs a task node with its prompt configuration.
type PromptNode struct {
	ID     TaskID       `json:"id"`
	Type   TaskType     `json:"type"`
	Config PromptConfig `json:"config"`
}

// PromptPlan attaches prompt configuration to every node of a task graph.
//
// Invariant: GraphID equals the task graph's id and Nodes corresponds 1:1
// with the graph's nodes.
type PromptPlan struct {
	GraphID string       `json:"graph_id"`
	Nodes   []PromptNode `json:"nodes"`
}

// Node returns the prompt node for the given task id.
func (p *PromptPlan) Node(id TaskID) (PromptNode, bool) {
	for _, n := range p.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PromptNode{}, false
}
