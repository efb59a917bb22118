package engine

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Operators supported by IF_THEN conditions.
const (
	OpEquals      = "equals"
	OpNotEquals   = "not_equals"
	OpContains    = "contains"
	OpStartsWith  = "starts_with"
	OpEndsWith    = "ends_with"
	OpIn          = "in"
	OpGreaterThan = "greater_than"
	OpLessThan    = "less_than"
)

// ruleOutcome is the per-rule evaluation result. A rule either applies with
// a delta and a reason, or it is skipped with a reason; skipping never
// aborts the loop.
type ruleOutcome struct {
	applied bool
	delta   int
	reason  string
	skip    string
}

func applied(delta int, reason string) ruleOutcome {
	return ruleOutcome{applied: true, delta: delta, reason: reason}
}

func skipped(reason string) ruleOutcome {
	return ruleOutcome{skip: reason}
}

// Apply evaluates the team's rules against the lead in ascending Order and
// accumulates signed deltas on top of baseScore. Disabled rules are skipped
// without a trace; malformed rules are skipped without aborting later
// rules. The running sum is intentionally not clamped here.
func Apply(lead *Lead, rules []Rule, baseScore int) RuleApplicationResult {
	result := RuleApplicationResult{
		FinalScore:  baseScore,
		Adjustments: []RuleAdjustment{},
	}

	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	for _, rule := range ordered {
		if !rule.Enabled {
			continue
		}

		outcome := evaluateRule(lead, rule)
		if !outcome.applied {
			continue
		}

		result.FinalScore += outcome.delta
		result.Adjustments = append(result.Adjustments, RuleAdjustment{
			Rule:  outcome.reason,
			Delta: outcome.delta,
		})
	}

	return result
}

// evaluateRule dispatches on the rule kind. Any panic from a malformed
// definition or comparand is absorbed into a skip: a broken rule must
// never take down the batch.
func evaluateRule(lead *Lead, rule Rule) (outcome ruleOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = skipped(fmt.Sprintf("rule panicked: %v", r))
		}
	}()

	switch rule.Type {
	case RuleIfThen:
		return evaluateIfThen(lead, rule.Definition)
	case RuleWeight:
		return evaluateWeight(lead, rule.Definition)
	default:
		return skipped("unknown rule type")
	}
}

func evaluateIfThen(lead *Lead, definition json.RawMessage) ruleOutcome {
	var def IfThenDefinition
	if err := json.Unmarshal(definition, &def); err != nil {
		return skipped("definition does not parse")
	}
	if len(def.If) == 0 {
		return skipped("empty condition list")
	}

	for _, condition := range def.If {
		if strings.TrimSpace(condition.Field) == "" {
			return skipped("condition missing field")
		}
		hold, err := evaluateCondition(lead, condition)
		if err != nil {
			return skipped(err.Error())
		}
		if !hold {
			return skipped("condition not met")
		}
	}

	reason := def.Then.Reason
	if reason == "" {
		reason = "Custom rule"
	}
	return applied(def.Then.Adjust, reason)
}

func evaluateWeight(lead *Lead, definition json.RawMessage) ruleOutcome {
	var def WeightDefinition
	if err := json.Unmarshal(definition, &def); err != nil {
		return skipped("definition does not parse")
	}
	if strings.TrimSpace(def.Field) == "" || len(def.Weights) == 0 {
		return skipped("incomplete weight definition")
	}

	value, ok := Resolve(lead, def.Field)
	if !ok {
		return skipped("field not present")
	}

	key, ok := asString(value)
	if !ok {
		return skipped("field value not comparable")
	}

	delta, ok := def.Weights[key]
	if !ok {
		return skipped("no weight for observed value")
	}

	return applied(delta, fmt.Sprintf("%s weight", humanizePath(def.Field)))
}

// evaluateCondition resolves the condition's field on the lead and applies
// the operator. A missing path simply evaluates false.
func evaluateCondition(lead *Lead, condition Condition) (bool, error) {
	value, ok := Resolve(lead, condition.Field)
	if !ok {
		return false, nil
	}

	switch condition.Op {
	case OpEquals:
		return looseEquals(value, condition.Value), nil
	case OpNotEquals:
		return !looseEquals(value, condition.Value), nil
	case OpContains:
		return stringPair(value, condition.Value, strings.Contains), nil
	case OpStartsWith:
		return stringPair(value, condition.Value, strings.HasPrefix), nil
	case OpEndsWith:
		return stringPair(value, condition.Value, strings.HasSuffix), nil
	case OpIn:
		return memberOf(value, condition.Value), nil
	case OpGreaterThan:
		return numericPair(value, condition.Value, func(a, b float64) bool { return a > b }), nil
	case OpLessThan:
		return numericPair(value, condition.Value, func(a, b float64) bool { return a < b }), nil
	default:
		return false, fmt.Errorf("unknown operator %q", condition.Op)
	}
}

// looseEquals compares numerically when both sides are numbers, otherwise
// as case-insensitive strings.
func looseEquals(a, b any) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
	}
	as, aok := asString(a)
	bs, bok := asString(b)
	if !aok || !bok {
		return false
	}
	return strings.EqualFold(as, bs)
}

// stringPair applies a case-insensitive string predicate to both values.
func stringPair(a, b any, predicate func(string, string) bool) bool {
	as, aok := asString(a)
	bs, bok := asString(b)
	if !aok || !bok {
		return false
	}
	return predicate(strings.ToLower(as), strings.ToLower(bs))
}

// numericPair applies a numeric predicate when both values coerce to floats.
func numericPair(a, b any, predicate func(float64, float64) bool) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return false
	}
	return predicate(af, bf)
}

// memberOf checks membership of value in a supplied list comparand.
func memberOf(value any, list any) bool {
	items, ok := list.([]any)
	if !ok {
		// Tolerate a JSON string list that arrived as []string.
		if strs, ok := list.([]string); ok {
			for _, item := range strs {
				if looseEquals(value, item) {
					return true
				}
			}
		}
		return false
	}
	for _, item := range items {
		if looseEquals(value, item) {
			return true
		}
	}
	return false
}

// asString coerces scalar values to their string form.
func asString(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case bool:
		return strconv.FormatBool(typed), true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	default:
		return "", false
	}
}

// asFloat coerces numeric values (including numeric strings) to float64.
func asFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case float64:
		return typed, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// humanizePath renders a field path for adjustment reasons:
// "utm.source" becomes "UTM source", "fields.plan" becomes "plan".
func humanizePath(path string) string {
	segments := strings.Split(path, ".")
	parts := make([]string, 0, len(segments))
	for i, segment := range segments {
		switch {
		case segment == "utm":
			parts = append(parts, "UTM")
		case segment == "fields" && i == 0:
			// Skip the container prefix.
		default:
			parts = append(parts, segment)
		}
	}
	if len(parts) == 0 {
		return path
	}
	return strings.Join(parts, " ")
}
