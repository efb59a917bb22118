package defaults

import (
	"testing"

	"leadscore_backend/internal/scoring/engine"
)

func TestConfigComplete(t *testing.T) {
	cfg := Config()

	if cfg.Weights.JobRole <= 0 || cfg.Weights.Urgency <= 0 || cfg.Weights.Engagement <= 0 {
		t.Fatalf("default weights must be positive: %+v", cfg.Weights)
	}
	if cfg.Negative.Spam <= 0 {
		t.Fatalf("default spam penalty must be positive: %+v", cfg.Negative)
	}
	if len(cfg.Enrichment.CompanySize) == 0 || len(cfg.Enrichment.Industry) == 0 {
		t.Fatal("default enrichment tables must not be empty")
	}
	if !(cfg.Bands.Low < cfg.Bands.Medium && cfg.Bands.Medium < cfg.Bands.High) {
		t.Fatalf("band thresholds must ascend: %+v", cfg.Bands)
	}
}

func TestConfigReturnsCopies(t *testing.T) {
	first := Config()
	first.Enrichment.Industry["saas"] = -99
	first.Weights.JobRole = -99

	second := Config()
	if second.Enrichment.Industry["saas"] == -99 {
		t.Fatal("mutating a returned config must not affect later calls")
	}
	if second.Weights.JobRole == -99 {
		t.Fatal("weights must be copied per call")
	}
}

func TestListsContainCommonProviders(t *testing.T) {
	lists := Lists()

	for _, provider := range []string{"gmail.com", "outlook.com", "yahoo.com"} {
		if _, ok := lists.FreeEmailProviders[provider]; !ok {
			t.Fatalf("expected %s in default free email providers", provider)
		}
	}
	if len(lists.SpamKeywords) == 0 {
		t.Fatal("expected non-empty spam keyword list")
	}
}

func TestNormalizeFillsMissingTables(t *testing.T) {
	cfg := &engine.Config{
		Weights: engine.Weights{JobRole: 50, Urgency: 10, Engagement: 10},
	}

	got := Normalize(cfg)

	if got.Weights.JobRole != 50 {
		t.Fatalf("customized weights must survive normalization, got %+v", got.Weights)
	}
	if got.Negative.Spam == 0 {
		t.Fatal("missing negative table should be filled from defaults")
	}
	if len(got.Enrichment.CompanySize) == 0 {
		t.Fatal("missing enrichment table should be filled from defaults")
	}
	if got.Bands.High == 0 {
		t.Fatal("missing bands should be filled from defaults")
	}
}

func TestNormalizeNil(t *testing.T) {
	got := Normalize(nil)
	if got == nil || got.Weights != Config().Weights {
		t.Fatalf("nil config should normalize to full defaults, got %+v", got)
	}
}
