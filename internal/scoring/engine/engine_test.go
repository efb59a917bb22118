package engine

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestEvaluateNilConfig(t *testing.T) {
	lead := &Lead{Email: "jane@example.com"}

	result := Evaluate(lead, nil, testLists(), nil)

	if result.Score != 0 {
		t.Fatalf("expected score 0, got %d", result.Score)
	}
	if result.Band != BandLow {
		t.Fatalf("expected LOW band, got %s", result.Band)
	}
	if len(result.Tags) != 1 || result.Tags[0] != TagNoConfig {
		t.Fatalf("expected exactly the no_config tag, got %v", result.Tags)
	}
	if len(result.Trace) != 0 || len(result.Adjustments) != 0 {
		t.Fatalf("expected empty trace and adjustments, got %v / %v", result.Trace, result.Adjustments)
	}
}

func TestEvaluateFullPipeline(t *testing.T) {
	lead := &Lead{
		Email: "jane@bigco.com",
		Fields: map[string]any{
			"title":   "CEO",
			"urgency": "immediate",
		},
		UTM: map[string]string{"source": "google-ads"},
	}

	rules := []Rule{
		{
			ID:      uuid.New(),
			Type:    RuleWeight,
			Enabled: true,
			Order:   1,
			Definition: json.RawMessage(
				`{"field": "utm.source", "weights": {"google-ads": 20}}`),
		},
	}

	result := Evaluate(lead, testConfig(), testLists(), rules)

	// jobRole 30 + urgency 20 = 50 base, +20 rule = 70.
	if result.BaseScore != 50 {
		t.Fatalf("expected base score 50, got %d", result.BaseScore)
	}
	if result.Score != 70 {
		t.Fatalf("expected final score 70, got %d", result.Score)
	}
	if result.Band != BandHigh {
		t.Fatalf("expected HIGH band at threshold, got %s", result.Band)
	}
	if len(result.Adjustments) != 1 {
		t.Fatalf("expected one adjustment, got %+v", result.Adjustments)
	}

	// The trace ends with a rendering of the rule adjustment.
	last := result.Trace[len(result.Trace)-1]
	if !strings.Contains(last, "UTM source weight") || !strings.Contains(last, "+20") {
		t.Fatalf("expected adjustment rendered in trace, got %q", last)
	}
}

func TestEvaluateDisablingAllRulesYieldsBaseScore(t *testing.T) {
	lead := &Lead{
		Email:  "jane@bigco.com",
		Fields: map[string]any{"title": "CEO"},
	}

	rules := []Rule{
		{
			ID:      uuid.New(),
			Type:    RuleIfThen,
			Enabled: false,
			Order:   1,
			Definition: json.RawMessage(`{
				"if": [{"field": "fields.title", "op": "contains", "value": "ceo"}],
				"then": {"adjust": 25, "reason": "exec"}
			}`),
		},
	}

	result := Evaluate(lead, testConfig(), testLists(), rules)

	if result.Score != result.BaseScore {
		t.Fatalf("all rules disabled: final %d should equal base %d", result.Score, result.BaseScore)
	}
	if len(result.Adjustments) != 0 {
		t.Fatalf("expected no adjustments, got %+v", result.Adjustments)
	}
}

func TestEvaluateFinalClamp(t *testing.T) {
	lead := &Lead{
		Email:  "jane@bigco.com",
		Fields: map[string]any{"title": "CEO"},
	}

	rules := []Rule{
		{
			ID:      uuid.New(),
			Type:    RuleIfThen,
			Enabled: true,
			Order:   1,
			Definition: json.RawMessage(`{
				"if": [{"field": "fields.title", "op": "contains", "value": "ceo"}],
				"then": {"adjust": 500, "reason": "runaway"}
			}`),
		},
	}

	result := Evaluate(lead, testConfig(), testLists(), rules)
	if result.Score != 100 {
		t.Fatalf("expected clamp to 100, got %d", result.Score)
	}
	if result.Band != BandHigh {
		t.Fatalf("expected HIGH band, got %s", result.Band)
	}
}

func TestEvaluateScoreAlwaysInRange(t *testing.T) {
	leads := []*Lead{
		nil,
		{},
		{Email: "someone@gmail.com"},
		{Email: "spam-casino@rivalcorp.com", Fields: map[string]any{"_hp": "x"}},
		{Email: "jane@bigco.com", Fields: map[string]any{
			"title": "Founder", "urgency": "immediate", "engagement": "hot",
			"companySize": "1000+", "industry": "finance",
		}},
	}

	for i, lead := range leads {
		result := Evaluate(lead, testConfig(), testLists(), nil)
		if result.Score < 0 || result.Score > 100 {
			t.Fatalf("lead %d: score %d outside [0,100]", i, result.Score)
		}
	}
}

func TestEvaluateSelfReferentialLead(t *testing.T) {
	fields := map[string]any{"title": "CEO"}
	fields["loop"] = fields

	lead := &Lead{Email: "jane@bigco.com", Fields: fields}
	rules := []Rule{
		{
			ID:      uuid.New(),
			Type:    RuleIfThen,
			Enabled: true,
			Order:   1,
			Definition: json.RawMessage(`{
				"if": [{"field": "fields.title", "op": "contains", "value": "ceo"}],
				"then": {"adjust": 10, "reason": "sibling of the cycle"}
			}`),
		},
	}

	result := Evaluate(lead, testConfig(), testLists(), rules)
	if len(result.Adjustments) != 1 {
		t.Fatalf("rule targeting a sibling of the cycle should fire, got %+v", result.Adjustments)
	}
}
