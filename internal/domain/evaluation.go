package domain

import (
	"errors"
	"time"
)

// ErrInvalidInput is returned when an evaluation is started without findings
// or without ground truth. No partial result is produced.
var ErrInvalidInput = errors.New("both review findings and ground truth entries are required")

// Strategy names one of the matching heuristics.
type Strategy string

const (
	StrategyExactOverlap       Strategy = "exact_overlap"
	StrategyLineRangeOverlap   Strategy = "line_range_overlap"
	StrategySemanticSimilarity Strategy = "semantic_similarity"
	StrategyBreadcrumb         Strategy = "breadcrumb_matching"
	StrategyFuzzy              Strategy = "fuzzy_matching"
)

// AllStrategies lists every strategy from most to least precise.
var AllStrategies = []Strategy{
	StrategyExactOverlap,
	StrategyLineRangeOverlap,
	StrategySemanticSimilarity,
	StrategyBreadcrumb,
	StrategyFuzzy,
}

// DefaultStrategies returns the order used when the caller names none.
func DefaultStrategies() []Strategy {
	return []Strategy{StrategyExactOverlap, StrategyLineRangeOverlap, StrategySemanticSimilarity}
}

func (s Strategy) Valid() bool {
	for _, known := range AllStrategies {
		if s == known {
			return true
		}
	}
	return false
}

// MatchCandidate pairs one finding with one ground-truth record under a strategy.
type MatchCandidate struct {
	Finding      Finding           `json:"finding"`
	GroundTruth  GroundTruthRecord `json:"ground_truth"`
	Strategy     Strategy          `json:"match_strategy"`
	Confidence   float64           `json:"confidence"`
	OverlapScore float64           `json:"overlap_score"`
	Metadata     map[string]any    `json:"metadata,omitempty"`
}

// EvaluationMetrics aggregates the outcome of one evaluation.
//
// Accuracy is TP/TotalGroundTruth and therefore equals Recall. The name is
// kept for compatibility with existing reports; it is not classification
// accuracy.
type EvaluationMetrics struct {
	TotalFindings    int            `json:"total_findings"`
	TotalGroundTruth int            `json:"total_ground_truth"`
	TruePositives    int            `json:"true_positives"`
	FalsePositives   int            `json:"false_positives"`
	FalseNegatives   int            `json:"false_negatives"`
	Precision        float64        `json:"precision"`
	Recall           float64        `json:"recall"`
	F1Score          float64        `json:"f1_score"`
	Accuracy         float64        `json:"accuracy"`
	MatchBreakdown   map[string]int `json:"match_breakdown,omitempty"`
}

// ComputeMetrics derives the ratios from raw counts. Every ratio is 0 when
// its denominator is 0.
func ComputeMetrics(totalFindings, totalGroundTruth, truePositives int) EvaluationMetrics {
	fp := totalFindings - truePositives
	fn := totalGroundTruth - truePositives

	precision := ratio(truePositives, truePositives+fp)
	recall := ratio(truePositives, truePositives+fn)

	var f1 float64
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return EvaluationMetrics{
		TotalFindings:    totalFindings,
		TotalGroundTruth: totalGroundTruth,
		TruePositives:    truePositives,
		FalsePositives:   fp,
		FalseNegatives:   fn,
		Precision:        precision,
		Recall:           recall,
		F1Score:          f1,
		Accuracy:         ratio(truePositives, totalGroundTruth),
	}
}

func ratio(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// EvaluationResult is the complete, immutable outcome of one evaluation.
type EvaluationResult struct {
	SessionID            string              `json:"session_id"`
	ReviewTool           string              `json:"review_tool"`
	Timestamp            time.Time           `json:"evaluation_timestamp"`
	Metrics              EvaluationMetrics   `json:"metrics"`
	Matches              []MatchCandidate    `json:"matches"`
	UnmatchedFindings    []Finding           `json:"unmatched_findings"`
	UnmatchedGroundTruth []GroundTruthRecord `json:"unmatched_ground_truth"`
	Metadata             map[string]any      `json:"metadata,omitempty"`
}

// MatchesBy returns the accepted matches produced by a single strategy.
func (r *EvaluationResult) MatchesBy(s Strategy) []MatchCandidate {
	var out []MatchCandidate
	for _, m := range r.Matches {
		if m.Strategy == s {
			out = append(out, m)
		}
	}
	return out
}

// SessionIDFor formats the time-derived session identifier.
func SessionIDFor(t time.Time) string {
	return t.Format("eval_20060102_150405")
}
