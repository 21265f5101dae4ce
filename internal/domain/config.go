package domain

import (
	"fmt"
	"strings"
)

// DefaultReviewTool names the tool when neither config nor flags do.
const DefaultReviewTool = "unknown"

// ProjectConfig holds evaluation settings loaded from .reviewlab.yaml.
type ProjectConfig struct {
	ReviewTool   string         `yaml:"review_tool"   json:"review_tool,omitempty"`
	Strategies   []string       `yaml:"strategies"    json:"strategies,omitempty"`
	ExcludePaths []string       `yaml:"exclude_paths" json:"exclude_paths,omitempty"`
	Workers      int            `yaml:"workers"       json:"workers,omitempty"`
	MinF1        *float64       `yaml:"min_f1,omitempty" json:"min_f1,omitempty"`
	Semantic     SemanticConfig `yaml:"semantic"      json:"semantic,omitempty"`
}

// SemanticConfig tunes keyword extraction for semantic matching.
type SemanticConfig struct {
	ExtraStopWords   []string `yaml:"extra_stop_words"  json:"extra_stop_words,omitempty"`
	SplitIdentifiers bool     `yaml:"split_identifiers" json:"split_identifiers,omitempty"`
}

// DefaultConfig returns a zero-value config that changes nothing.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{}
}

// EffectiveReviewTool returns the configured tool name or DefaultReviewTool.
func (c ProjectConfig) EffectiveReviewTool() string {
	if c.ReviewTool == "" {
		return DefaultReviewTool
	}
	return c.ReviewTool
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	for _, name := range c.Strategies {
		if !Strategy(name).Valid() {
			return fmt.Errorf("unknown strategy %q in strategies (valid: %s)", name, strategyList())
		}
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d)", c.Workers)
	}

	if c.MinF1 != nil && (*c.MinF1 < 0 || *c.MinF1 > 1) {
		return fmt.Errorf("min_f1 must be between 0.0 and 1.0 (got %.2f)", *c.MinF1)
	}

	for i, p := range c.ExcludePaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("exclude_paths[%d] must not be empty", i)
		}
	}

	for i, w := range c.Semantic.ExtraStopWords {
		if strings.TrimSpace(w) == "" {
			return fmt.Errorf("semantic.extra_stop_words[%d] must not be empty", i)
		}
	}

	return nil
}

func strategyList() string {
	names := make([]string, len(AllStrategies))
	for i, s := range AllStrategies {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
