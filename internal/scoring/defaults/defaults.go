// Package defaults embeds the stock scoring configuration and match
// lists. Organizations start from these values and customize them via
// the scoring config API; stored configs are normalized against them so
// persisted configs never have missing sub-tables.
package defaults

import (
	_ "embed"
	"fmt"

	"leadscore_backend/internal/scoring/engine"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var rawDefaults []byte

type defaultsFile struct {
	Weights    engine.Weights    `yaml:"weights"`
	Negative   engine.Negative   `yaml:"negative"`
	Enrichment engine.Enrichment `yaml:"enrichment"`
	Bands      engine.Bands      `yaml:"bands"`
	Lists      struct {
		FreeEmailProviders []string `yaml:"freeEmailProviders"`
		CompetitorDomains  []string `yaml:"competitorDomains"`
		SpamKeywords       []string `yaml:"spamKeywords"`
	} `yaml:"lists"`
}

var parsed defaultsFile

func init() {
	if err := yaml.Unmarshal(rawDefaults, &parsed); err != nil {
		panic(fmt.Sprintf("defaults: embedded defaults.yaml is invalid: %v", err))
	}
}

// Config returns a fresh copy of the default scoring configuration.
func Config() *engine.Config {
	return &engine.Config{
		Weights:    parsed.Weights,
		Negative:   parsed.Negative,
		Enrichment: copyEnrichment(parsed.Enrichment),
		Bands:      parsed.Bands,
	}
}

// Lists returns the default match lists (free-mail providers, competitor
// domains, spam keywords) ready for the engine.
func Lists() engine.Lists {
	return engine.NewLists(
		parsed.Lists.CompetitorDomains,
		parsed.Lists.FreeEmailProviders,
		parsed.Lists.SpamKeywords,
	)
}

// Normalize fills any missing sub-table of cfg from the defaults and
// returns it. A nil cfg yields a full default config.
func Normalize(cfg *engine.Config) *engine.Config {
	if cfg == nil {
		return Config()
	}

	if cfg.Weights == (engine.Weights{}) {
		cfg.Weights = parsed.Weights
	}
	if cfg.Negative == (engine.Negative{}) {
		cfg.Negative = parsed.Negative
	}
	if len(cfg.Enrichment.CompanySize) == 0 {
		cfg.Enrichment.CompanySize = copyTable(parsed.Enrichment.CompanySize)
	}
	if len(cfg.Enrichment.Industry) == 0 {
		cfg.Enrichment.Industry = copyTable(parsed.Enrichment.Industry)
	}
	if cfg.Bands == (engine.Bands{}) {
		cfg.Bands = parsed.Bands
	}
	return cfg
}

func copyEnrichment(e engine.Enrichment) engine.Enrichment {
	return engine.Enrichment{
		CompanySize: copyTable(e.CompanySize),
		Industry:    copyTable(e.Industry),
	}
}

func copyTable(src map[string]int) map[string]int {
	if src == nil {
		return nil
	}
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
