package engine

import "fmt"

// Evaluate runs the full scoring pipeline: base scorer, rule interpreter
// seeded with the base score, a single final clamp, then band
// classification. Tags come from the base scorer only; the final trace is
// the base trace followed by one line per rule adjustment.
//
// A nil config short-circuits to a zero score in the LOW band tagged
// no_config. Evaluate never returns an error and never panics: every
// degraded input maps to a defined result so ingestion pipelines always
// get something usable back.
func Evaluate(lead *Lead, cfg *Config, lists Lists, rules []Rule) Evaluation {
	if cfg == nil {
		return Evaluation{
			Score:       0,
			Band:        BandLow,
			Components:  map[string]int{},
			Tags:        []string{TagNoConfig},
			Trace:       []string{},
			Adjustments: []RuleAdjustment{},
		}
	}

	base := Score(lead, cfg, lists)
	ruleResult := Apply(lead, rules, base.Score)
	final := Clamp(ruleResult.FinalScore)

	trace := make([]string, 0, len(base.Trace)+len(ruleResult.Adjustments))
	trace = append(trace, base.Trace...)
	for _, adjustment := range ruleResult.Adjustments {
		trace = append(trace, fmt.Sprintf("Rule applied: %s (%+d)", adjustment.Rule, adjustment.Delta))
	}

	return Evaluation{
		Score:       final,
		Band:        Classify(final, cfg.Bands),
		BaseScore:   base.Score,
		Components:  base.Components,
		Tags:        base.Tags,
		Trace:       trace,
		Adjustments: ruleResult.Adjustments,
	}
}
