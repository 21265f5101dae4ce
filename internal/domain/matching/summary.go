package matching

import (
	"fmt"
	"strings"
	"time"

	"github.com/reviewlab/reviewlab/internal/domain"
)

// SummaryReport formats a result as a plain-text report with a metrics
// block and per-strategy match counts.
func SummaryReport(r *domain.EvaluationResult) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)
	sub := strings.Repeat("-", 20)

	b.WriteString(rule + "\n")
	b.WriteString("REVIEW EVALUATION SUMMARY REPORT\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Session ID: %s\n", r.SessionID)
	fmt.Fprintf(&b, "Review Tool: %s\n", r.ReviewTool)
	fmt.Fprintf(&b, "Evaluation Time: %s\n", r.Timestamp.Format(time.RFC3339))
	b.WriteString("\n")

	m := r.Metrics
	b.WriteString("METRICS SUMMARY:\n")
	b.WriteString(sub + "\n")
	fmt.Fprintf(&b, "Total Findings: %d\n", m.TotalFindings)
	fmt.Fprintf(&b, "Total Ground Truth: %d\n", m.TotalGroundTruth)
	fmt.Fprintf(&b, "True Positives: %d\n", m.TruePositives)
	fmt.Fprintf(&b, "False Positives: %d\n", m.FalsePositives)
	fmt.Fprintf(&b, "False Negatives: %d\n", m.FalseNegatives)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Precision: %.3f\n", m.Precision)
	fmt.Fprintf(&b, "Recall: %.3f\n", m.Recall)
	fmt.Fprintf(&b, "F1-Score: %.3f\n", m.F1Score)
	fmt.Fprintf(&b, "Accuracy: %.3f\n", m.Accuracy)
	b.WriteString("\n")

	b.WriteString("MATCH BREAKDOWN:\n")
	b.WriteString(sub + "\n")
	for _, s := range domain.AllStrategies {
		fmt.Fprintf(&b, "%s: %d matches\n", s, len(r.MatchesBy(s)))
	}
	b.WriteString("\n")
	b.WriteString(rule)

	return b.String()
}
