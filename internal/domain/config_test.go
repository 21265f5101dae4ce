package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reviewlab/reviewlab/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }

func TestProjectConfig_ValidateDefault(t *testing.T) {
	assert.NoError(t, domain.DefaultConfig().Validate())
}

func TestProjectConfig_ValidateFull(t *testing.T) {
	cfg := domain.ProjectConfig{
		ReviewTool:   "bot",
		Strategies:   []string{"exact_overlap", "fuzzy_matching"},
		ExcludePaths: []string{"vendor/**"},
		Workers:      4,
		MinF1:        floatPtr(0.6),
		Semantic:     domain.SemanticConfig{ExtraStopWords: []string{"should"}},
	}
	assert.NoError(t, cfg.Validate())
}

func TestProjectConfig_UnknownStrategy(t *testing.T) {
	cfg := domain.ProjectConfig{Strategies: []string{"exact_overlap", "nearest"}}
	err := cfg.Validate()
	assert.ErrorContains(t, err, `unknown strategy "nearest"`)
	assert.ErrorContains(t, err, "breadcrumb_matching")
}

func TestProjectConfig_NegativeWorkers(t *testing.T) {
	assert.ErrorContains(t, domain.ProjectConfig{Workers: -1}.Validate(), "workers")
}

func TestProjectConfig_MinF1OutOfRange(t *testing.T) {
	assert.ErrorContains(t, domain.ProjectConfig{MinF1: floatPtr(1.5)}.Validate(), "min_f1")
}

func TestProjectConfig_EmptyExcludePath(t *testing.T) {
	assert.ErrorContains(t, domain.ProjectConfig{ExcludePaths: []string{" "}}.Validate(), "exclude_paths[0]")
}

func TestProjectConfig_EmptyStopWord(t *testing.T) {
	cfg := domain.ProjectConfig{Semantic: domain.SemanticConfig{ExtraStopWords: []string{""}}}
	assert.ErrorContains(t, cfg.Validate(), "extra_stop_words")
}

func TestProjectConfig_EffectiveReviewTool(t *testing.T) {
	assert.Equal(t, domain.DefaultReviewTool, domain.DefaultConfig().EffectiveReviewTool())
	assert.Equal(t, "bot", domain.ProjectConfig{ReviewTool: "bot"}.EffectiveReviewTool())
}
