package matching

import (
	"log/slog"
	"strings"

	"github.com/reviewlab/reviewlab/internal/domain"
)

// ParseStrategies maps strategy names to strategies, preserving order.
// Names that match no strategy are returned separately.
func ParseStrategies(names []string) (strategies []domain.Strategy, unknown []string) {
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		s := domain.Strategy(n)
		if !s.Valid() {
			unknown = append(unknown, n)
			continue
		}
		strategies = append(strategies, s)
	}
	return strategies, unknown
}

// SplitStrategyList splits a comma-separated flag value into names.
func SplitStrategyList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// ResolveStrategies parses names leniently: unknown names are logged and
// skipped, and an empty result falls back to domain.DefaultStrategies.
func ResolveStrategies(names []string, logger *slog.Logger) []domain.Strategy {
	if logger == nil {
		logger = slog.Default()
	}
	strategies, unknown := ParseStrategies(names)
	for _, n := range unknown {
		logger.Warn("unknown strategy, skipping", "strategy", n)
	}
	if len(strategies) == 0 {
		if len(names) > 0 {
			logger.Warn("no valid strategies specified, using defaults")
		}
		return domain.DefaultStrategies()
	}
	return strategies
}

// Describe returns a one-line description of a strategy.
func Describe(s domain.Strategy) string {
	switch s {
	case domain.StrategyExactOverlap:
		return "same file and same line"
	case domain.StrategyLineRangeOverlap:
		return "finding line range covers the injected line"
	case domain.StrategySemanticSimilarity:
		return "finding message shares keywords with the injection description"
	case domain.StrategyBreadcrumb:
		return "same directory, within 10 lines"
	case domain.StrategyFuzzy:
		return "same file stem, within 20 lines"
	default:
		return ""
	}
}

// StrategyInfo describes a strategy for listings.
type StrategyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

// Catalog lists every strategy in priority order, marking the defaults.
func Catalog() []StrategyInfo {
	defaults := map[domain.Strategy]bool{}
	for _, s := range domain.DefaultStrategies() {
		defaults[s] = true
	}
	out := make([]StrategyInfo, 0, len(domain.AllStrategies))
	for _, s := range domain.AllStrategies {
		out = append(out, StrategyInfo{Name: string(s), Description: Describe(s), Default: defaults[s]})
	}
	return out
}
