package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/reviewlab/reviewlab/internal/domain"
)

// ── warm palette ──
var (
	accent    = lipgloss.Color("#D97706") // amber
	fg        = lipgloss.Color("#E8E6E3") // warm light gray
	dim       = lipgloss.Color("#6B7280") // muted gray
	faint     = lipgloss.Color("#3F3F46") // very dim
	success   = lipgloss.Color("#22C55E") // green
	lime      = lipgloss.Color("#A3E635")
	danger    = lipgloss.Color("#EF4444") // red
	warning   = lipgloss.Color("#F59E0B") // amber-yellow
	orange    = lipgloss.Color("#FB923C")
	info      = lipgloss.Color("#8B949E") // soft blue-gray
	skipColor = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	ratingColors = map[string]lipgloss.Color{
		"Excellent": success,
		"Very Good": lime,
		"Good":      warning,
		"Fair":      orange,
		"Poor":      danger,
		"Very Poor": danger,
	}

	dimStyle           = lipgloss.NewStyle().Foreground(dim)
	faintStyle         = lipgloss.NewStyle().Foreground(faint)
	passStyle          = lipgloss.NewStyle().Foreground(success)
	failStyle          = lipgloss.NewStyle().Foreground(danger)
	warnStyle          = lipgloss.NewStyle().Foreground(warning)
	skipStyle          = lipgloss.NewStyle().Foreground(skipColor)
	infoTagStyle       = lipgloss.NewStyle().Foreground(info)
	fileStyle          = lipgloss.NewStyle().Foreground(dim)
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(fg)
	nameStyle          = lipgloss.NewStyle().Bold(true).Foreground(fg)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	separatorLine      = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderEvaluation formats an evaluation result and its analysis for the
// terminal. With verbose set, every match and unmatched item is listed.
func RenderEvaluation(r *domain.EvaluationResult, a domain.Analysis, verbose bool) string {
	var b strings.Builder
	m := r.Metrics

	// ── Header ──
	title := headerStyle.Render("reviewlab")
	subtitle := dimStyle.Render(fmt.Sprintf("%s  ·  %s", r.ReviewTool, r.SessionID))
	f1Styled := lipgloss.NewStyle().
		Bold(true).
		Foreground(ratioColor(m.F1Score)).
		Render(fmt.Sprintf("F1 %.3f", m.F1Score))
	ratingStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(ratingColor(a.Rating)).
		Render(a.Rating)

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + f1Styled + "  " + ratingStyled))
	b.WriteString("\n\n")

	// ── Metrics ──
	renderRatio(&b, "precision", m.Precision)
	renderRatio(&b, "recall", m.Recall)
	renderRatio(&b, "f1_score", m.F1Score)
	renderRatio(&b, "accuracy", m.Accuracy)
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s  %s  %s\n",
		passStyle.Render(fmt.Sprintf("%d true positives", m.TruePositives)),
		failStyle.Render(fmt.Sprintf("%d false positives", m.FalsePositives)),
		warnStyle.Render(fmt.Sprintf("%d false negatives", m.FalseNegatives)),
	)
	fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf("%d findings vs %d injected bugs", m.TotalFindings, m.TotalGroundTruth)))

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	// ── Strategies ──
	b.WriteString("  " + titleStyle.Render("Matches by strategy") + "\n\n")
	for _, s := range domain.AllStrategies {
		n := m.MatchBreakdown[string(s)]
		icon := skipStyle.Render("○")
		if n > 0 {
			icon = passStyle.Render("●")
		}
		fmt.Fprintf(&b, "    %s %s %s\n", icon, padRight(string(s), 24), dimStyle.Render(fmt.Sprintf("%d", n)))
	}

	renderList(&b, "Strengths", a.Strengths, passStyle)
	renderList(&b, "Weaknesses", a.Weaknesses, failStyle)
	renderList(&b, "Insights", a.Insights, infoTagStyle)
	renderList(&b, "Recommendations", a.Recommendations, warnStyle)

	if verbose {
		renderMatches(&b, r.Matches)
		renderUnmatchedFindings(&b, r.UnmatchedFindings)
		renderUnmatchedGroundTruth(&b, r.UnmatchedGroundTruth)
	}

	b.WriteString("\n")
	return b.String()
}

func renderRatio(b *strings.Builder, name string, v float64) {
	pct := int(v*100 + 0.5)
	bar := coloredBar(pct, 20)
	value := lipgloss.NewStyle().Bold(true).Foreground(ratioColor(v)).Render(fmt.Sprintf("%.3f", v))
	fmt.Fprintf(b, "  %s %s  %s\n", nameStyle.Render(padRight(name, 12)), bar, value)
}

func renderList(b *strings.Builder, title string, items []string, bullet lipgloss.Style) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "  %s %s\n", sectionHeaderStyle.Render(title), dimStyle.Render(fmt.Sprintf("(%d)", len(items))))
	for _, item := range items {
		fmt.Fprintf(b, "    %s %s\n", bullet.Render("●"), item)
	}
}

func renderMatches(b *strings.Builder, matches []domain.MatchCandidate) {
	if len(matches) == 0 {
		return
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "  %s %s\n", sectionHeaderStyle.Render("Matches"), dimStyle.Render(fmt.Sprintf("(%d)", len(matches))))
	for _, mc := range matches {
		fmt.Fprintf(b, "    %s %s  %s  %s\n",
			passStyle.Render("●"),
			fileStyle.Render(fmt.Sprintf("%s:%d", shortenPath(mc.Finding.FilePath), mc.Finding.LineNumber)),
			mc.GroundTruth.ID,
			faintStyle.Render(fmt.Sprintf("%s %.2f", mc.Strategy, mc.Confidence)),
		)
	}
}

func renderUnmatchedFindings(b *strings.Builder, findings []domain.Finding) {
	if len(findings) == 0 {
		return
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "  %s %s\n", sectionHeaderStyle.Render("False positives"), dimStyle.Render(fmt.Sprintf("(%d)", len(findings))))
	for _, f := range findings {
		fmt.Fprintf(b, "    %s %s\n", failStyle.Render("●"), fileStyle.Render(fmt.Sprintf("%s:%d", shortenPath(f.FilePath), f.LineNumber)))
		if f.Message != "" {
			fmt.Fprintf(b, "         %s\n", dimStyle.Render(f.Message))
		}
	}
}

func renderUnmatchedGroundTruth(b *strings.Builder, records []domain.GroundTruthRecord) {
	if len(records) == 0 {
		return
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "  %s %s\n", sectionHeaderStyle.Render("Missed bugs"), dimStyle.Render(fmt.Sprintf("(%d)", len(records))))
	for _, gt := range records {
		fmt.Fprintf(b, "    %s %s  %s\n",
			warnStyle.Render("●"),
			fileStyle.Render(fmt.Sprintf("%s:%d", shortenPath(gt.FilePath), gt.LineNumber)),
			gt.BugType,
		)
		if gt.Description != "" {
			fmt.Fprintf(b, "         %s\n", dimStyle.Render(gt.Description))
		}
	}
}

// RenderHistory formats evaluation history for terminal output.
func RenderHistory(entries []domain.HistoryEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No evaluation history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Evaluation History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}
		date := e.Timestamp
		if len(date) > 10 {
			date = date[:10]
		}

		f1Styled := lipgloss.NewStyle().
			Foreground(ratioColor(e.F1Score)).
			Render(fmt.Sprintf("F1 %.3f", e.F1Score))

		line := fmt.Sprintf("  %s  %s  %s  %s",
			dimStyle.Render(date),
			faintStyle.Render(hash),
			f1Styled,
			e.ReviewTool,
		)

		if i > 0 {
			line += formatDelta(e.F1Score - entries[i-1].F1Score)
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// RenderBaselineDelta shows how a run compares with the saved baseline.
func RenderBaselineDelta(d domain.BaselineDelta) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s\n",
		sectionHeaderStyle.Render("Baseline"),
		dimStyle.Render(d.Baseline.SessionID),
	)
	if !d.SameGroundTruth {
		fmt.Fprintf(&b, "    %s\n", warnStyle.Render("ground truth differs from baseline; deltas may not be comparable"))
	}
	rows := []struct {
		name  string
		delta float64
	}{
		{"precision", d.Precision},
		{"recall", d.Recall},
		{"f1_score", d.F1Score},
		{"accuracy", d.Accuracy},
	}
	for _, row := range rows {
		delta := formatDelta(row.delta)
		if delta == "" {
			delta = "  " + dimStyle.Render("=")
		}
		fmt.Fprintf(&b, "    %s%s\n", padRight(row.name, 12), delta)
	}
	return b.String()
}

func formatDelta(diff float64) string {
	switch {
	case diff > 0.0005:
		return "  " + passStyle.Render(fmt.Sprintf("↑%.3f", diff))
	case diff < -0.0005:
		return "  " + failStyle.Render(fmt.Sprintf("↓%.3f", -diff))
	default:
		return ""
	}
}

func coloredBar(pct, width int) string {
	filled := max(0, min(pct*width/100, width))
	empty := width - filled

	color := pctColor(pct)
	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func ratioColor(v float64) lipgloss.Color {
	return pctColor(int(v*100 + 0.5))
}

func pctColor(pct int) lipgloss.Color {
	switch {
	case pct >= 80:
		return success
	case pct >= 60:
		return lime
	case pct >= 40:
		return warning
	default:
		return danger
	}
}

func ratingColor(rating string) lipgloss.Color {
	if c, ok := ratingColors[rating]; ok {
		return c
	}
	return fg
}

func shortenPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > 3 {
		return strings.Join(parts[len(parts)-3:], "/")
	}
	return path
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
