package engine

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func ifThenRule(order int, enabled bool, definition string) Rule {
	return Rule{
		ID:         uuid.New(),
		TeamID:     uuid.New(),
		Type:       RuleIfThen,
		Enabled:    enabled,
		Order:      order,
		Definition: json.RawMessage(definition),
	}
}

func weightRule(order int, enabled bool, definition string) Rule {
	return Rule{
		ID:         uuid.New(),
		TeamID:     uuid.New(),
		Type:       RuleWeight,
		Enabled:    enabled,
		Order:      order,
		Definition: json.RawMessage(definition),
	}
}

func TestApplyIfThenRulesInOrder(t *testing.T) {
	lead := &Lead{
		Email:  "user@gmail.com",
		Fields: map[string]any{"title": "CEO"},
	}

	rules := []Rule{
		ifThenRule(1, true, `{
			"if": [{"field": "email", "op": "ends_with", "value": "@gmail.com"}],
			"then": {"adjust": -10, "reason": "Free mailbox"}
		}`),
		ifThenRule(2, true, `{
			"if": [{"field": "fields.title", "op": "contains", "value": "ceo"}],
			"then": {"adjust": 25, "reason": "Executive title"}
		}`),
	}

	result := Apply(lead, rules, 50)

	if result.FinalScore != 65 {
		t.Fatalf("expected final score 65, got %d", result.FinalScore)
	}
	if len(result.Adjustments) != 2 {
		t.Fatalf("expected 2 adjustments, got %d", len(result.Adjustments))
	}
	if result.Adjustments[0].Rule != "Free mailbox" || result.Adjustments[0].Delta != -10 {
		t.Fatalf("unexpected first adjustment: %+v", result.Adjustments[0])
	}
	if result.Adjustments[1].Rule != "Executive title" || result.Adjustments[1].Delta != 25 {
		t.Fatalf("unexpected second adjustment: %+v", result.Adjustments[1])
	}
}

func TestApplyRespectsOrderField(t *testing.T) {
	lead := &Lead{Email: "user@gmail.com"}

	// Declared out of order: the rule with Order 1 must be applied first.
	rules := []Rule{
		ifThenRule(5, true, `{
			"if": [{"field": "email", "op": "contains", "value": "gmail"}],
			"then": {"adjust": 1, "reason": "second"}
		}`),
		ifThenRule(1, true, `{
			"if": [{"field": "email", "op": "contains", "value": "gmail"}],
			"then": {"adjust": 2, "reason": "first"}
		}`),
	}

	result := Apply(lead, rules, 0)
	if len(result.Adjustments) != 2 {
		t.Fatalf("expected 2 adjustments, got %d", len(result.Adjustments))
	}
	if result.Adjustments[0].Rule != "first" || result.Adjustments[1].Rule != "second" {
		t.Fatalf("rules applied out of order: %+v", result.Adjustments)
	}
}

func TestApplyDisabledRulesSkipped(t *testing.T) {
	lead := &Lead{Email: "user@gmail.com"}
	rules := []Rule{
		ifThenRule(1, false, `{
			"if": [{"field": "email", "op": "contains", "value": "gmail"}],
			"then": {"adjust": 50, "reason": "disabled"}
		}`),
	}

	result := Apply(lead, rules, 40)
	if result.FinalScore != 40 {
		t.Fatalf("disabled rule must not change the score, got %d", result.FinalScore)
	}
	if len(result.Adjustments) != 0 {
		t.Fatalf("disabled rule must not record an adjustment, got %+v", result.Adjustments)
	}
}

func TestApplyMalformedRuleDoesNotAbort(t *testing.T) {
	lead := &Lead{Email: "user@gmail.com"}
	rules := []Rule{
		ifThenRule(1, true, `{not even json`),
		ifThenRule(2, true, `{"if": [], "then": {"adjust": 5, "reason": "empty"}}`),
		{ID: uuid.New(), Type: RuleType("MYSTERY"), Enabled: true, Order: 3, Definition: json.RawMessage(`{}`)},
		ifThenRule(4, true, `{
			"if": [{"field": "email", "op": "contains", "value": "gmail"}],
			"then": {"adjust": 7, "reason": "still runs"}
		}`),
	}

	result := Apply(lead, rules, 10)
	if result.FinalScore != 17 {
		t.Fatalf("later rules must still run after malformed ones, got %d", result.FinalScore)
	}
	if len(result.Adjustments) != 1 || result.Adjustments[0].Rule != "still runs" {
		t.Fatalf("unexpected adjustments: %+v", result.Adjustments)
	}
}

func TestApplyConditionsAreConjunctive(t *testing.T) {
	lead := &Lead{
		Email:  "user@example.com",
		Fields: map[string]any{"title": "CEO"},
	}

	rules := []Rule{
		ifThenRule(1, true, `{
			"if": [
				{"field": "fields.title", "op": "contains", "value": "ceo"},
				{"field": "email", "op": "ends_with", "value": "@gmail.com"}
			],
			"then": {"adjust": 30, "reason": "both"}
		}`),
	}

	result := Apply(lead, rules, 50)
	if result.FinalScore != 50 || len(result.Adjustments) != 0 {
		t.Fatalf("rule must not fire when one condition fails: %+v", result)
	}
}

func TestApplyOperators(t *testing.T) {
	lead := &Lead{
		Email:   "jane@example.com",
		Company: "Example Inc",
		Fields: map[string]any{
			"employees": float64(250),
			"plan":      "enterprise",
		},
		UTM: map[string]string{"source": "google-ads"},
	}

	cases := []struct {
		name      string
		condition string
		fires     bool
	}{
		{"equals", `{"field": "fields.plan", "op": "equals", "value": "Enterprise"}`, true},
		{"not_equals", `{"field": "fields.plan", "op": "not_equals", "value": "starter"}`, true},
		{"starts_with", `{"field": "company", "op": "starts_with", "value": "example"}`, true},
		{"in", `{"field": "utm.source", "op": "in", "value": ["google-ads", "bing-ads"]}`, true},
		{"in miss", `{"field": "utm.source", "op": "in", "value": ["linkedin"]}`, false},
		{"greater_than", `{"field": "fields.employees", "op": "greater_than", "value": 100}`, true},
		{"less_than", `{"field": "fields.employees", "op": "less_than", "value": 100}`, false},
		{"unknown op", `{"field": "fields.plan", "op": "matches", "value": ".*"}`, false},
		{"missing field", `{"field": "fields.nope", "op": "equals", "value": "x"}`, false},
	}

	for _, tc := range cases {
		definition := fmt.Sprintf(`{"if": [%s], "then": {"adjust": 5, "reason": "op"}}`, tc.condition)
		result := Apply(lead, []Rule{ifThenRule(1, true, definition)}, 0)
		fired := len(result.Adjustments) == 1
		if fired != tc.fires {
			t.Fatalf("%s: expected fires=%v, got %v", tc.name, tc.fires, fired)
		}
	}
}

func TestApplyWeightRule(t *testing.T) {
	matched := &Lead{
		Email: "jane@example.com",
		UTM:   map[string]string{"source": "google-ads"},
	}
	unmatched := &Lead{
		Email: "jane@example.com",
		UTM:   map[string]string{"source": "billboard"},
	}

	rules := []Rule{
		weightRule(1, true, `{"field": "utm.source", "weights": {"google-ads": 20, "linkedin": 15}}`),
	}

	result := Apply(matched, rules, 50)
	if result.FinalScore != 70 {
		t.Fatalf("expected 70 for mapped source, got %d", result.FinalScore)
	}
	if len(result.Adjustments) != 1 || result.Adjustments[0].Rule != "UTM source weight" {
		t.Fatalf("unexpected adjustment: %+v", result.Adjustments)
	}

	result = Apply(unmatched, rules, 50)
	if result.FinalScore != 50 || len(result.Adjustments) != 0 {
		t.Fatalf("unmapped source must have no effect: %+v", result)
	}
}

func TestApplyNoMidEvaluationClamp(t *testing.T) {
	lead := &Lead{Email: "user@gmail.com"}
	rules := []Rule{
		ifThenRule(1, true, `{
			"if": [{"field": "email", "op": "contains", "value": "gmail"}],
			"then": {"adjust": -80, "reason": "deep cut"}
		}`),
		ifThenRule(2, true, `{
			"if": [{"field": "email", "op": "contains", "value": "gmail"}],
			"then": {"adjust": 30, "reason": "recover"}
		}`),
	}

	// 20 - 80 + 30 = -30: the interpreter reports the raw sum, the
	// orchestrator clamps once at the end.
	result := Apply(lead, rules, 20)
	if result.FinalScore != -30 {
		t.Fatalf("expected raw -30, got %d", result.FinalScore)
	}
}

func TestApplyManyRulesLinear(t *testing.T) {
	lead := &Lead{
		Email: "jane@example.com",
		UTM:   map[string]string{"source": "google-ads"},
	}

	rules := make([]Rule, 0, 100)
	for i := 0; i < 99; i++ {
		rules = append(rules, ifThenRule(i, true, `{
			"if": [{"field": "fields.never", "op": "equals", "value": "set"}],
			"then": {"adjust": 5, "reason": "never fires"}
		}`))
	}
	rules = append(rules, weightRule(99, true, `{"field": "utm.source", "weights": {"google-ads": 10}}`))

	result := Apply(lead, rules, 50)
	if result.FinalScore != 60 {
		t.Fatalf("expected 60, got %d", result.FinalScore)
	}
	if len(result.Adjustments) != 1 {
		t.Fatalf("expected the single matching adjustment, got %d", len(result.Adjustments))
	}
}
