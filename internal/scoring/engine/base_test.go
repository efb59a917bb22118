package engine

import "testing"

func testConfig() *Config {
	return &Config{
		Weights: Weights{JobRole: 30, Urgency: 20, Engagement: 20},
		Negative: Negative{
			Competitor:    20,
			FreeEmail:     10,
			InvalidDomain: 15,
			Spam:          30,
		},
		Enrichment: Enrichment{
			CompanySize: map[string]int{"11-50": 5, "51-200": 8, "201-1000": 10, "1000+": 12},
			Industry:    map[string]int{"saas": 10, "finance": 8},
		},
		Bands: Bands{Low: 0, Medium: 40, High: 70},
	}
}

func testLists() Lists {
	return NewLists(
		[]string{"rivalcorp.com"},
		[]string{"gmail.com", "yahoo.com", "hotmail.com"},
		[]string{"viagra", "casino"},
	)
}

func hasTag(tags []string, tag string) bool {
	for _, item := range tags {
		if item == tag {
			return true
		}
	}
	return false
}

func hasTraceLine(trace []string, line string) bool {
	for _, item := range trace {
		if item == line {
			return true
		}
	}
	return false
}

func TestScoreNilLead(t *testing.T) {
	result := Score(nil, testConfig(), testLists())

	if result.Score != 0 {
		t.Fatalf("expected score 0 for nil lead, got %d", result.Score)
	}
	if len(result.Components) != 0 {
		t.Fatalf("expected empty components, got %v", result.Components)
	}
	if !hasTag(result.Tags, TagInvalidData) {
		t.Fatalf("expected invalid_data tag, got %v", result.Tags)
	}
	if len(result.Trace) == 0 {
		t.Fatal("expected a trace entry explaining the degraded result")
	}
}

func TestScoreJobRoleSignal(t *testing.T) {
	cfg := testConfig()
	lists := testLists()

	withTitle := Score(&Lead{
		Email:  "jane@example.com",
		Fields: map[string]any{"title": "CEO"},
	}, cfg, lists)

	withoutTitle := Score(&Lead{
		Email:  "jane@example.com",
		Fields: map[string]any{},
	}, cfg, lists)

	if withTitle.Components["jobRole"] <= withoutTitle.Components["jobRole"] {
		t.Fatalf("CEO title should contribute jobRole points: %d vs %d",
			withTitle.Components["jobRole"], withoutTitle.Components["jobRole"])
	}
	if withTitle.Components["jobRole"] != cfg.Weights.JobRole {
		t.Fatalf("executive title should use the full jobRole weight, got %d", withTitle.Components["jobRole"])
	}

	director := Score(&Lead{
		Email:  "jane@example.com",
		Fields: map[string]any{"title": "Director of Operations"},
	}, cfg, lists)
	if director.Components["jobRole"] >= cfg.Weights.JobRole || director.Components["jobRole"] <= 0 {
		t.Fatalf("senior title should contribute a reduced share, got %d", director.Components["jobRole"])
	}
}

func TestScoreUrgencyAndEngagement(t *testing.T) {
	cfg := testConfig()
	result := Score(&Lead{
		Email: "jane@example.com",
		Fields: map[string]any{
			"urgency":    "immediate",
			"engagement": "warm",
		},
	}, cfg, testLists())

	if result.Components["urgency"] != cfg.Weights.Urgency {
		t.Fatalf("immediate urgency should use the full weight, got %d", result.Components["urgency"])
	}
	if result.Components["engagement"] != int(float64(cfg.Weights.Engagement)*0.6) {
		t.Fatalf("warm engagement should use a 0.6 share, got %d", result.Components["engagement"])
	}
}

func TestScoreEnrichmentTiers(t *testing.T) {
	result := Score(&Lead{
		Email: "jane@example.com",
		Fields: map[string]any{
			"enrichment": map[string]any{
				"companySize": "51-200",
				"industry":    "SaaS",
			},
		},
	}, testConfig(), testLists())

	if result.Components["enrichment"] != 8+10 {
		t.Fatalf("expected enrichment 18, got %d", result.Components["enrichment"])
	}
	if !hasTag(result.Tags, TagEnriched) {
		t.Fatalf("expected enriched tag, got %v", result.Tags)
	}
}

func TestScoreEnrichmentMissingTableDegradesToZero(t *testing.T) {
	cfg := testConfig()
	cfg.Enrichment = Enrichment{}

	result := Score(&Lead{
		Email:  "jane@example.com",
		Fields: map[string]any{"companySize": "51-200"},
	}, cfg, testLists())

	if result.Components["enrichment"] != 0 {
		t.Fatalf("missing enrichment tables should score zero, got %d", result.Components["enrichment"])
	}
	if hasTag(result.Tags, TagEnriched) {
		t.Fatal("no lookup succeeded, enriched tag must not be set")
	}
}

func TestScoreCompetitorPenalty(t *testing.T) {
	cfg := testConfig()
	lists := testLists()

	competitor := Score(&Lead{
		Email:  "jane@rivalcorp.com",
		Fields: map[string]any{"title": "CEO"},
	}, cfg, lists)

	neutral := Score(&Lead{
		Email:  "jane@example.com",
		Fields: map[string]any{"title": "CEO"},
	}, cfg, lists)

	if !hasTag(competitor.Tags, TagCompetitor) {
		t.Fatalf("expected competitor tag, got %v", competitor.Tags)
	}
	if !hasTraceLine(competitor.Trace, "Competitor penalty applied") {
		t.Fatalf("expected competitor trace line, got %v", competitor.Trace)
	}
	if competitor.Score >= neutral.Score {
		t.Fatalf("competitor lead should score strictly lower: %d vs %d", competitor.Score, neutral.Score)
	}
}

func TestScoreFreeEmailPenalty(t *testing.T) {
	result := Score(&Lead{Email: "someone@gmail.com"}, testConfig(), testLists())

	if !hasTag(result.Tags, TagFreeEmail) {
		t.Fatalf("expected free_email tag, got %v", result.Tags)
	}
	if !hasTraceLine(result.Trace, "Free email penalty") {
		t.Fatalf("expected free email trace line, got %v", result.Trace)
	}
}

func TestScoreInvalidDomainPenalty(t *testing.T) {
	result := Score(&Lead{Email: "someone@not a domain"}, testConfig(), testLists())

	if !hasTag(result.Tags, TagInvalidDomain) {
		t.Fatalf("expected invalid_domain tag, got %v", result.Tags)
	}
}

func TestScoreSpamIndicators(t *testing.T) {
	honeypot := Score(&Lead{
		Email:  "jane@example.com",
		Fields: map[string]any{"_hp": "filled-by-bot"},
	}, testConfig(), testLists())

	if !hasTag(honeypot.Tags, TagSpam) {
		t.Fatalf("expected spam tag for filled honeypot, got %v", honeypot.Tags)
	}

	keyword := Score(&Lead{
		Email: "casino-deals@example.com",
	}, testConfig(), testLists())

	if !hasTag(keyword.Tags, TagSpam) {
		t.Fatalf("expected spam tag for keyword match, got %v", keyword.Tags)
	}
}

func TestScoreClampedToRange(t *testing.T) {
	cfg := testConfig()
	cfg.Negative.Spam = 500

	floored := Score(&Lead{
		Email:  "jane@example.com",
		Fields: map[string]any{"_hp": "bot"},
	}, cfg, testLists())
	if floored.Score != 0 {
		t.Fatalf("heavy penalties should clamp to 0, got %d", floored.Score)
	}

	cfg = testConfig()
	cfg.Weights = Weights{JobRole: 80, Urgency: 80, Engagement: 80}
	ceiling := Score(&Lead{
		Email: "jane@example.com",
		Fields: map[string]any{
			"title":      "CEO",
			"urgency":    "immediate",
			"engagement": "hot",
		},
	}, cfg, testLists())
	if ceiling.Score != 100 {
		t.Fatalf("oversized weights should clamp to 100, got %d", ceiling.Score)
	}
}

func TestScoreComponentsAlwaysComplete(t *testing.T) {
	result := Score(&Lead{Email: "jane@example.com"}, testConfig(), testLists())

	for _, key := range []string{"jobRole", "urgency", "engagement", "enrichment", "negative"} {
		if _, ok := result.Components[key]; !ok {
			t.Fatalf("component %q missing from result: %v", key, result.Components)
		}
	}
}
