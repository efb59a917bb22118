// Package engine implements the lead scoring engine: a deterministic,
// side-effect-free transformation from a lead, a team's scoring
// configuration and its ordered custom rules to a numeric score, a
// qualification band, tags and an explanatory trace.
//
// The engine performs no I/O. Callers fetch configuration and rules,
// invoke Evaluate, and persist the result themselves.
package engine

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Band is the ordinal qualification tier derived from a score.
type Band string

const (
	BandHigh   Band = "HIGH"
	BandMedium Band = "MEDIUM"
	BandLow    Band = "LOW"
)

// Lead is the scoring input. The engine never mutates it.
type Lead struct {
	Email   string
	Name    string
	Company string
	Domain  string
	// Fields is the open-ended nested attribute map captured with the lead.
	// Values are untyped and may contain self-references; the resolver only
	// descends along the exact path it is given, so cycles are harmless.
	Fields map[string]any
	// UTM holds campaign attribution parameters (source/medium/campaign).
	UTM map[string]string
}

// Weights holds per-category point ceilings for the positive signal families.
type Weights struct {
	JobRole    int `json:"jobRole" yaml:"jobRole"`
	Urgency    int `json:"urgency" yaml:"urgency"`
	Engagement int `json:"engagement" yaml:"engagement"`
}

// Negative holds penalty magnitudes. Values are positive numbers that the
// scorer subtracts when the corresponding signal is detected.
type Negative struct {
	Competitor    int `json:"competitor" yaml:"competitor"`
	FreeEmail     int `json:"freeEmail" yaml:"freeEmail"`
	InvalidDomain int `json:"invalidDomain" yaml:"invalidDomain"`
	Spam          int `json:"spam" yaml:"spam"`
}

// Enrichment holds tier lookup tables for enrichment data.
type Enrichment struct {
	CompanySize map[string]int `json:"companySize" yaml:"companySize"`
	Industry    map[string]int `json:"industry" yaml:"industry"`
}

// Bands holds the ascending qualification thresholds.
type Bands struct {
	Low    int `json:"low" yaml:"low"`
	Medium int `json:"medium" yaml:"medium"`
	High   int `json:"high" yaml:"high"`
}

// Config is a team's scoring configuration snapshot. A missing sub-table
// degrades that category to zero; only a nil *Config short-circuits the
// whole evaluation.
type Config struct {
	Weights    Weights    `json:"weights" yaml:"weights"`
	Negative   Negative   `json:"negative" yaml:"negative"`
	Enrichment Enrichment `json:"enrichment" yaml:"enrichment"`
	Bands      Bands      `json:"bands" yaml:"bands"`
}

// Lists carries the domain sets the base scorer matches against. They are
// explicit inputs rather than package globals so teams can customize them
// and tests stay deterministic.
type Lists struct {
	CompetitorDomains  map[string]struct{}
	FreeEmailProviders map[string]struct{}
	SpamKeywords       []string
}

// NewLists builds Lists from plain slices, normalizing entries to lowercase.
func NewLists(competitors, freeEmail, spamKeywords []string) Lists {
	return Lists{
		CompetitorDomains:  toSet(competitors),
		FreeEmailProviders: toSet(freeEmail),
		SpamKeywords:       lowerAll(spamKeywords),
	}
}

// RuleType discriminates the two supported rule kinds.
type RuleType string

const (
	RuleIfThen RuleType = "IF_THEN"
	RuleWeight RuleType = "WEIGHT"
)

// Rule is one team-defined scoring rule. Definition is the raw variant
// payload; its shape depends on Type and is validated at evaluation time.
// A disabled or malformed rule contributes nothing and never aborts the run.
type Rule struct {
	ID         uuid.UUID
	TeamID     uuid.UUID
	Type       RuleType
	Enabled    bool
	Order      int
	Definition json.RawMessage
}

// Condition is a single IF_THEN predicate: resolve Field on the lead and
// compare it to Value using Op.
type Condition struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value any    `json:"value"`
}

// IfThenDefinition is the IF_THEN rule payload. All conditions must hold
// for the rule to fire.
type IfThenDefinition struct {
	If   []Condition `json:"if"`
	Then ThenClause  `json:"then"`
}

// ThenClause is the effect of a fired IF_THEN rule.
type ThenClause struct {
	Adjust int    `json:"adjust"`
	Reason string `json:"reason"`
}

// WeightDefinition is the WEIGHT rule payload: resolve Field on the lead
// and, if the observed value appears in Weights, add its delta.
type WeightDefinition struct {
	Field   string         `json:"field"`
	Weights map[string]int `json:"weights"`
}

// ScoreResult is the base scorer output.
type ScoreResult struct {
	// Score is the clamped [0,100] base score.
	Score int
	// Components maps every known category to its contributed points,
	// zero-filled for categories that did not fire.
	Components map[string]int
	// Tags is the deduplicated set of signal labels.
	Tags []string
	// Trace holds one human-readable line per signal that fired.
	Trace []string
}

// RuleAdjustment records one applied rule in evaluation order.
type RuleAdjustment struct {
	Rule  string `json:"rule"`
	Delta int    `json:"delta"`
}

// RuleApplicationResult is the rule interpreter output. FinalScore is the
// base score plus all applied deltas, deliberately not clamped; the
// orchestrator clamps once at the end.
type RuleApplicationResult struct {
	FinalScore  int
	Adjustments []RuleAdjustment
}

// Evaluation is the orchestrator output handed to persistence.
type Evaluation struct {
	Score       int
	Band        Band
	BaseScore   int
	Components  map[string]int
	Tags        []string
	Trace       []string
	Adjustments []RuleAdjustment
}

// Signal tags emitted by the scorer and orchestrator.
const (
	TagInvalidData   = "invalid_data"
	TagNoConfig      = "no_config"
	TagEnriched      = "enriched"
	TagCompetitor    = "competitor"
	TagFreeEmail     = "free_email"
	TagInvalidDomain = "invalid_domain"
	TagSpam          = "spam"
)
