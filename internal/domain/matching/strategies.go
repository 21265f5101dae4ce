package matching

import (
	"math"
	"path"
	"path/filepath"
	"strings"

	"github.com/reviewlab/reviewlab/internal/domain"
)

// MatchFunc proposes a match between one finding and one ground-truth
// record. It never sees the full collections; pairing and deduplication
// belong to the Engine.
type MatchFunc func(domain.Finding, domain.GroundTruthRecord) (domain.MatchCandidate, bool)

const (
	// semanticThreshold is the Jaccard similarity a semantic match must exceed.
	semanticThreshold = 0.3
	// semanticDiscount scales similarity into confidence.
	semanticDiscount = 0.8
	// rangeBoost scales line-range overlap into confidence.
	rangeBoost = 1.5

	breadcrumbMaxDistance = 10
	breadcrumbDecay       = 0.05
	breadcrumbFloor       = 0.6
	breadcrumbOverlap     = 0.5

	fuzzyMaxDistance = 20
	fuzzyDecay       = 0.03
	fuzzyFloor       = 0.4
	fuzzyOverlap     = 0.3
)

func candidate(f domain.Finding, gt domain.GroundTruthRecord, s domain.Strategy, conf, overlap float64, meta map[string]any) domain.MatchCandidate {
	return domain.MatchCandidate{
		Finding:      f,
		GroundTruth:  gt,
		Strategy:     s,
		Confidence:   conf,
		OverlapScore: overlap,
		Metadata:     meta,
	}
}

// ExactOverlap matches when file path and line are identical.
func ExactOverlap(f domain.Finding, gt domain.GroundTruthRecord) (domain.MatchCandidate, bool) {
	if f.FilePath != gt.FilePath || f.LineNumber != gt.LineNumber {
		return domain.MatchCandidate{}, false
	}
	return candidate(f, gt, domain.StrategyExactOverlap, 1.0, 1.0, map[string]any{
		"match_type": "exact",
	}), true
}

// LineRangeOverlap matches when the finding's line range covers the
// injected line. Confidence grows with the share of the range that overlaps.
func LineRangeOverlap(f domain.Finding, gt domain.GroundTruthRecord) (domain.MatchCandidate, bool) {
	if f.FilePath != gt.FilePath {
		return domain.MatchCandidate{}, false
	}

	start, end := f.LineNumber, f.LastLine()
	overlapStart := max(start, gt.LineNumber)
	overlapEnd := min(end, gt.LineNumber)
	if overlapStart > overlapEnd {
		return domain.MatchCandidate{}, false
	}

	overlapRange := overlapEnd - overlapStart + 1
	score := float64(overlapRange) / float64(end-start+1)
	conf := math.Min(score*rangeBoost, 1.0)

	return candidate(f, gt, domain.StrategyLineRangeOverlap, conf, score, map[string]any{
		"match_type":    "range_overlap",
		"overlap_start": overlapStart,
		"overlap_end":   overlapEnd,
		"overlap_range": overlapRange,
	}), true
}

// SemanticSimilarity returns a matcher comparing the finding message with
// the injection description by keyword overlap. Only bug findings against
// typed ground truth are considered.
func SemanticSimilarity(kw *KeywordExtractor) MatchFunc {
	return func(f domain.Finding, gt domain.GroundTruthRecord) (domain.MatchCandidate, bool) {
		if f.FindingType != domain.FindingBug || gt.BugType == "" {
			return domain.MatchCandidate{}, false
		}

		sim, common := jaccard(kw.Extract(f.Message), kw.Extract(gt.Description))
		if sim <= semanticThreshold {
			return domain.MatchCandidate{}, false
		}

		return candidate(f, gt, domain.StrategySemanticSimilarity, sim*semanticDiscount, sim, map[string]any{
			"match_type":       "semantic",
			"common_keywords":  common,
			"similarity_score": sim,
		}), true
	}
}

// Breadcrumb matches findings in the same directory as the injection and
// within breadcrumbMaxDistance lines of it.
func Breadcrumb(f domain.Finding, gt domain.GroundTruthRecord) (domain.MatchCandidate, bool) {
	if parentDir(f.FilePath) != parentDir(gt.FilePath) {
		return domain.MatchCandidate{}, false
	}

	dist := lineDistance(f.LineNumber, gt.LineNumber)
	if dist > breadcrumbMaxDistance {
		return domain.MatchCandidate{}, false
	}

	conf := math.Max(breadcrumbFloor, 1.0-float64(dist)*breadcrumbDecay)
	return candidate(f, gt, domain.StrategyBreadcrumb, conf, breadcrumbOverlap, map[string]any{
		"match_type":     "breadcrumb",
		"line_distance":  dist,
		"same_directory": true,
	}), true
}

// Fuzzy matches findings whose file shares the injection file's stem and
// lies within fuzzyMaxDistance lines of it.
func Fuzzy(f domain.Finding, gt domain.GroundTruthRecord) (domain.MatchCandidate, bool) {
	if fileStem(f.FilePath) != fileStem(gt.FilePath) {
		return domain.MatchCandidate{}, false
	}

	dist := lineDistance(f.LineNumber, gt.LineNumber)
	if dist > fuzzyMaxDistance {
		return domain.MatchCandidate{}, false
	}

	conf := math.Max(fuzzyFloor, 1.0-float64(dist)*fuzzyDecay)
	return candidate(f, gt, domain.StrategyFuzzy, conf, fuzzyOverlap, map[string]any{
		"match_type":      "fuzzy",
		"line_distance":   dist,
		"file_similarity": 1.0,
	}), true
}

func lineDistance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func parentDir(p string) string {
	return path.Dir(filepath.ToSlash(p))
}

// fileStem returns the base name without its final extension. Dotfiles
// such as ".env" are their own stem.
func fileStem(p string) string {
	base := path.Base(filepath.ToSlash(p))
	if stem := strings.TrimSuffix(base, path.Ext(base)); stem != "" {
		return stem
	}
	return base
}
