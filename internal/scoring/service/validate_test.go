package service

import (
	"encoding/json"
	"testing"

	"leadscore_backend/internal/scoring/engine"
)

func TestValidateDefinitionIfThen(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		valid   bool
	}{
		{
			"valid",
			`{"if": [{"field": "email", "op": "ends_with", "value": "@gmail.com"}], "then": {"adjust": -10, "reason": "free"}}`,
			true,
		},
		{
			"no conditions",
			`{"if": [], "then": {"adjust": 5, "reason": "x"}}`,
			false,
		},
		{
			"missing field",
			`{"if": [{"field": "", "op": "equals", "value": "x"}], "then": {"adjust": 5}}`,
			false,
		},
		{
			"unknown operator",
			`{"if": [{"field": "email", "op": "matches", "value": "x"}], "then": {"adjust": 5}}`,
			false,
		},
		{
			"missing value",
			`{"if": [{"field": "email", "op": "equals"}], "then": {"adjust": 5}}`,
			false,
		},
		{
			"zero adjustment",
			`{"if": [{"field": "email", "op": "equals", "value": "x"}], "then": {"adjust": 0}}`,
			false,
		},
		{
			"unknown top-level key",
			`{"if": [{"field": "email", "op": "equals", "value": "x"}], "then": {"adjust": 5}, "extra": true}`,
			false,
		},
		{
			"not json",
			`{broken`,
			false,
		},
	}

	for _, tc := range cases {
		err := ValidateDefinition("IF_THEN", json.RawMessage(tc.payload))
		if tc.valid && err != nil {
			t.Fatalf("%s: expected valid, got %v", tc.name, err)
		}
		if !tc.valid && err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestValidateDefinitionWeight(t *testing.T) {
	valid := `{"field": "utm.source", "weights": {"google-ads": 20}}`
	if err := ValidateDefinition("WEIGHT", json.RawMessage(valid)); err != nil {
		t.Fatalf("expected valid WEIGHT definition, got %v", err)
	}

	invalid := []string{
		`{"field": "", "weights": {"a": 1}}`,
		`{"field": "utm.source", "weights": {}}`,
		`{"weights": {"a": 1}}`,
	}
	for _, payload := range invalid {
		if err := ValidateDefinition("WEIGHT", json.RawMessage(payload)); err == nil {
			t.Fatalf("expected validation error for %s", payload)
		}
	}
}

func TestValidateDefinitionUnknownType(t *testing.T) {
	if err := ValidateDefinition("MYSTERY", json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected error for unknown rule type")
	}
}

func TestValidateBands(t *testing.T) {
	if err := ValidateBands(engine.Bands{Low: 0, Medium: 40, High: 70}); err != nil {
		t.Fatalf("expected ascending bands to validate, got %v", err)
	}
	if err := ValidateBands(engine.Bands{Low: 0, Medium: 70, High: 40}); err == nil {
		t.Fatal("expected error for descending bands")
	}
	if err := ValidateBands(engine.Bands{Low: 0, Medium: 50, High: 50}); err == nil {
		t.Fatal("expected error when medium equals high")
	}
}
