package domain

import (
	"fmt"
	"time"
)

// FindingType classifies an issue reported by a review tool.
type FindingType string

const (
	FindingBug             FindingType = "bug"
	FindingCodeSmell       FindingType = "code_smell"
	FindingSecurity        FindingType = "security_issue"
	FindingPerformance     FindingType = "performance_issue"
	FindingMaintainability FindingType = "maintainability_issue"
	FindingOther           FindingType = "other"
)

// ValidFindingTypes enumerates all recognized finding types.
var ValidFindingTypes = []FindingType{
	FindingBug,
	FindingCodeSmell,
	FindingSecurity,
	FindingPerformance,
	FindingMaintainability,
	FindingOther,
}

// ParseFindingType converts a wire value to a FindingType. The empty string
// maps to FindingBug, the default for tools that do not classify findings.
func ParseFindingType(s string) (FindingType, error) {
	if s == "" {
		return FindingBug, nil
	}
	for _, ft := range ValidFindingTypes {
		if FindingType(s) == ft {
			return ft, nil
		}
	}
	return "", fmt.Errorf("unknown finding_type %q", s)
}

const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
	SeverityInfo     = "info"
)

// KnownSeverities lists the severities most tools report. Severity stays an
// open string; other values are accepted as-is.
var KnownSeverities = []string{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

func IsKnownSeverity(s string) bool {
	for _, k := range KnownSeverities {
		if k == s {
			return true
		}
	}
	return false
}

// DefaultFindingConfidence is applied when a tool omits confidence.
const DefaultFindingConfidence = 0.8

// Finding is a single issue reported by a code-review tool.
type Finding struct {
	ID          string         `json:"id"`
	FilePath    string         `json:"file_path"`
	LineNumber  int            `json:"line_number"`
	EndLine     *int           `json:"end_line,omitempty"`
	FindingType FindingType    `json:"finding_type"`
	Severity    string         `json:"severity"`
	Confidence  float64        `json:"confidence"`
	Message     string         `json:"message"`
	RuleID      string         `json:"rule_id,omitempty"`
	Category    string         `json:"category,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// LastLine returns the final line the finding covers. A missing or zero
// end line means the finding covers a single line.
func (f Finding) LastLine() int {
	if f.EndLine == nil || *f.EndLine == 0 {
		return f.LineNumber
	}
	return *f.EndLine
}

// Validate checks structural constraints on a finding.
func (f Finding) Validate() error {
	if f.FilePath == "" {
		return fmt.Errorf("finding %q: file_path must not be empty", f.ID)
	}
	if f.LineNumber < 1 {
		return fmt.Errorf("finding %q: line_number must be >= 1 (got %d)", f.ID, f.LineNumber)
	}
	if f.EndLine != nil && *f.EndLine != 0 && *f.EndLine < f.LineNumber {
		return fmt.Errorf("finding %q: end_line %d is before line_number %d", f.ID, *f.EndLine, f.LineNumber)
	}
	if f.Confidence < 0 || f.Confidence > 1 {
		return fmt.Errorf("finding %q: confidence must be between 0 and 1 (got %.2f)", f.ID, f.Confidence)
	}
	if _, err := ParseFindingType(string(f.FindingType)); err != nil {
		return fmt.Errorf("finding %q: %w", f.ID, err)
	}
	return nil
}

// GroundTruthRecord is the logged fact about one injected bug.
type GroundTruthRecord struct {
	ID                 string         `json:"id"`
	InjectionID        string         `json:"injection_id"`
	TemplateID         string         `json:"template_id"`
	ProjectPath        string         `json:"project_path"`
	Language           string         `json:"language"`
	FilePath           string         `json:"file_path"`
	LineNumber         int            `json:"line_number"`
	BugType            string         `json:"bug_type"`
	Description        string         `json:"description"`
	Severity           string         `json:"severity"`
	Difficulty         string         `json:"difficulty"`
	InjectionTimestamp time.Time      `json:"injection_timestamp"`
	OriginalCode       string         `json:"original_code"`
	ModifiedCode       string         `json:"modified_code"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}
