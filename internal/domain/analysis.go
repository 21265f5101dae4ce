package domain

import (
	"fmt"
	"sort"
)

// PerformanceRating maps an F1 score to a human-readable rating.
func PerformanceRating(f1 float64) string {
	switch {
	case f1 >= 0.9:
		return "Excellent"
	case f1 >= 0.8:
		return "Very Good"
	case f1 >= 0.7:
		return "Good"
	case f1 >= 0.6:
		return "Fair"
	case f1 >= 0.5:
		return "Poor"
	default:
		return "Very Poor"
	}
}

// BadgeColor picks a shields.io color for an F1 score.
func BadgeColor(f1 float64) string {
	switch {
	case f1 >= 0.9:
		return "brightgreen"
	case f1 >= 0.8:
		return "green"
	case f1 >= 0.7:
		return "yellow"
	case f1 >= 0.6:
		return "orange"
	case f1 >= 0.5:
		return "red"
	default:
		return "critical"
	}
}

// GroupStats counts matched and unmatched findings for one file or severity.
type GroupStats struct {
	Key       string `json:"key"`
	Matched   int    `json:"matched"`
	Unmatched int    `json:"unmatched"`
}

// Analysis is a qualitative reading of an evaluation result.
type Analysis struct {
	Rating          string       `json:"performance_rating"`
	Strengths       []string     `json:"strengths,omitempty"`
	Weaknesses      []string     `json:"weaknesses,omitempty"`
	Insights        []string     `json:"insights,omitempty"`
	Recommendations []string     `json:"recommendations,omitempty"`
	ByFile          []GroupStats `json:"by_file,omitempty"`
	BySeverity      []GroupStats `json:"by_severity,omitempty"`
}

// Analyze derives strengths, weaknesses, insights and recommendations from
// a result's metrics, plus per-file and per-severity finding counts.
func Analyze(r *EvaluationResult) Analysis {
	m := r.Metrics
	a := Analysis{Rating: PerformanceRating(m.F1Score)}

	if m.Precision > 0.8 {
		a.Strengths = append(a.Strengths, "High precision indicates low false positive rate")
	}
	if m.Recall > 0.8 {
		a.Strengths = append(a.Strengths, "High recall indicates good coverage of ground truth")
	}
	if m.F1Score > 0.8 {
		a.Strengths = append(a.Strengths, "Balanced precision and recall performance")
	}
	if float64(len(r.Matches)) > float64(m.TotalGroundTruth)*0.7 {
		a.Strengths = append(a.Strengths, "Good match rate with ground truth data")
	}

	if m.Precision < 0.6 {
		a.Weaknesses = append(a.Weaknesses, "Low precision indicates high false positive rate")
	}
	if m.Recall < 0.6 {
		a.Weaknesses = append(a.Weaknesses, "Low recall indicates poor coverage of ground truth")
	}
	if m.F1Score < 0.6 {
		a.Weaknesses = append(a.Weaknesses, "Poor overall performance balance")
	}
	if float64(len(r.UnmatchedFindings)) > float64(m.TotalFindings)*0.5 {
		a.Weaknesses = append(a.Weaknesses, "High number of unmatched findings")
	}

	switch {
	case m.Precision > m.Recall:
		a.Insights = append(a.Insights, "Higher precision than recall suggests the tool is conservative in its findings")
	case m.Recall > m.Precision:
		a.Insights = append(a.Insights, "Higher recall than precision suggests the tool prioritizes coverage over accuracy")
	}
	if n := len(r.MatchesBy(StrategyExactOverlap)); n > 0 {
		a.Insights = append(a.Insights, pluralMatches("Exact overlap matching found", n))
	}
	switch {
	case m.F1Score > 0.8:
		a.Insights = append(a.Insights, "Excellent overall performance with balanced precision and recall")
	case m.F1Score < 0.5:
		a.Insights = append(a.Insights, "Significant room for improvement in detection accuracy")
	}

	if m.Precision < 0.7 {
		a.Recommendations = append(a.Recommendations, "Focus on reducing false positives by improving detection rules")
	}
	if m.Recall < 0.7 {
		a.Recommendations = append(a.Recommendations, "Improve coverage by expanding detection patterns and rules")
	}
	if float64(len(r.UnmatchedFindings)) > float64(m.TotalFindings)*0.3 {
		a.Recommendations = append(a.Recommendations, "Investigate unmatched findings to identify missed detection patterns")
	}
	if float64(len(r.UnmatchedGroundTruth)) > float64(m.TotalGroundTruth)*0.3 {
		a.Recommendations = append(a.Recommendations, "Review ground truth data to ensure comprehensive coverage")
	}

	a.ByFile = groupFindings(r, func(f Finding) string { return f.FilePath })
	a.BySeverity = groupFindings(r, func(f Finding) string { return f.Severity })
	return a
}

func pluralMatches(prefix string, n int) string {
	if n == 1 {
		return prefix + " 1 high-confidence match"
	}
	return fmt.Sprintf("%s %d high-confidence matches", prefix, n)
}

func groupFindings(r *EvaluationResult, key func(Finding) string) []GroupStats {
	idx := map[string]int{}
	var out []GroupStats
	bump := func(k string, matched bool) {
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, GroupStats{Key: k})
		}
		if matched {
			out[i].Matched++
		} else {
			out[i].Unmatched++
		}
	}
	for _, m := range r.Matches {
		bump(key(m.Finding), true)
	}
	for _, f := range r.UnmatchedFindings {
		bump(key(f), false)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
