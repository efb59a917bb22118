package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"leadscore_backend/internal/scoring/engine"
	"leadscore_backend/platform/apperr"
)

var allowedOps = map[string]struct{}{
	"equals":       {},
	"not_equals":   {},
	"contains":     {},
	"starts_with":  {},
	"ends_with":    {},
	"in":           {},
	"greater_than": {},
	"less_than":    {},
}

// ValidateDefinition checks a rule definition payload against its declared
// type before it is stored. The engine tolerates malformed rules at
// evaluation time, but the API rejects them up front so authors get
// immediate feedback.
func ValidateDefinition(ruleType string, definition json.RawMessage) error {
	switch engine.RuleType(ruleType) {
	case engine.RuleIfThen:
		return validateIfThen(definition)
	case engine.RuleWeight:
		return validateWeight(definition)
	default:
		return apperr.Validation(fmt.Sprintf("unknown rule type %q", ruleType))
	}
}

func validateIfThen(definition json.RawMessage) error {
	var def engine.IfThenDefinition
	if err := strictUnmarshal(definition, &def); err != nil {
		return apperr.Validation("definition is not a valid IF_THEN payload").WithDetails(err.Error())
	}

	if len(def.If) == 0 {
		return apperr.Validation("IF_THEN rule needs at least one condition")
	}
	for i, cond := range def.If {
		if strings.TrimSpace(cond.Field) == "" {
			return apperr.Validation(fmt.Sprintf("condition %d: field is required", i+1))
		}
		if _, ok := allowedOps[cond.Op]; !ok {
			return apperr.Validation(fmt.Sprintf("condition %d: unknown operator %q", i+1, cond.Op))
		}
		if cond.Value == nil {
			return apperr.Validation(fmt.Sprintf("condition %d: value is required", i+1))
		}
	}
	if def.Then.Adjust == 0 {
		return apperr.Validation("IF_THEN rule needs a non-zero adjustment")
	}
	return nil
}

func validateWeight(definition json.RawMessage) error {
	var def engine.WeightDefinition
	if err := strictUnmarshal(definition, &def); err != nil {
		return apperr.Validation("definition is not a valid WEIGHT payload").WithDetails(err.Error())
	}

	if strings.TrimSpace(def.Field) == "" {
		return apperr.Validation("WEIGHT rule needs a field path")
	}
	if len(def.Weights) == 0 {
		return apperr.Validation("WEIGHT rule needs at least one value mapping")
	}
	return nil
}

// ValidateBands ensures thresholds ascend so the classifier is well defined.
func ValidateBands(bands engine.Bands) error {
	if !(bands.Low <= bands.Medium && bands.Medium < bands.High) {
		return apperr.Validation("band thresholds must ascend: low <= medium < high")
	}
	return nil
}

func strictUnmarshal(data []byte, target any) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	return dec.Decode(target)
}
