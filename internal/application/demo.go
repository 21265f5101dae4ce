package application

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/reviewlab/reviewlab/internal/domain"
)

// DemoReviewTool is the tool name demo results are reported under.
const DemoReviewTool = "Demo Review Bot"

var demoExtensions = map[string]string{
	"java":       "java",
	"python":     "py",
	"go":         "go",
	"javascript": "js",
}

// DemoLanguages lists the languages the demo can generate data for.
func DemoLanguages() []string {
	out := make([]string, 0, len(demoExtensions))
	for lang := range demoExtensions {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// DemoData builds three injected bugs and five findings for language: two
// exact hits, one near miss, one unrelated finding in a buggy file and one
// finding in a clean file.
func DemoData(language string) ([]domain.Finding, []domain.GroundTruthRecord, error) {
	ext, ok := demoExtensions[strings.ToLower(language)]
	if !ok {
		return nil, nil, fmt.Errorf("unsupported demo language %q (valid: %s)",
			language, strings.Join(DemoLanguages(), ", "))
	}
	language = strings.ToLower(language)
	file := func(name string) string { return "src/" + name + "." + ext }
	at := func(minute int) time.Time { return time.Date(2024, 1, 1, 10, minute, 0, 0, time.UTC) }

	records := []domain.GroundTruthRecord{
		{
			ID: "gt_001", InjectionID: "injection_001", TemplateID: "null_pointer",
			ProjectPath: "/demo/project", Language: language,
			FilePath: file("Calculator"), LineNumber: 25,
			BugType: "correctness", Description: "Null pointer dereference in calculator method",
			Severity: domain.SeverityHigh, Difficulty: "medium", InjectionTimestamp: at(0),
			OriginalCode: "result = value.calculate();", ModifiedCode: "result = null.calculate();",
		},
		{
			ID: "gt_002", InjectionID: "injection_002", TemplateID: "array_bounds",
			ProjectPath: "/demo/project", Language: language,
			FilePath: file("ArrayProcessor"), LineNumber: 42,
			BugType: "correctness", Description: "Array index out of bounds access",
			Severity: domain.SeverityMedium, Difficulty: "easy", InjectionTimestamp: at(5),
			OriginalCode: "return array[index];", ModifiedCode: "return array[array.length + 1];",
		},
		{
			ID: "gt_003", InjectionID: "injection_003", TemplateID: "resource_leak",
			ProjectPath: "/demo/project", Language: language,
			FilePath: file("FileHandler"), LineNumber: 67,
			BugType: "correctness", Description: "Resource leak in file handling",
			Severity: domain.SeverityMedium, Difficulty: "hard", InjectionTimestamp: at(10),
			OriginalCode: "FileInputStream fis = new FileInputStream(file);",
			ModifiedCode: "FileInputStream fis = new FileInputStream(file); // Missing close()",
		},
	}

	findings := []domain.Finding{
		{
			ID: "finding_001", FilePath: file("Calculator"), LineNumber: 25,
			FindingType: domain.FindingBug, Severity: domain.SeverityHigh, Confidence: 0.9,
			Message: "Potential null pointer dereference", RuleID: "NP_NULL_ON_SOME_PATH", Category: "correctness",
		},
		{
			ID: "finding_002", FilePath: file("ArrayProcessor"), LineNumber: 42,
			FindingType: domain.FindingBug, Severity: domain.SeverityMedium, Confidence: 0.8,
			Message: "Array index out of bounds", RuleID: "AI_ANNOTATION_ISSUES", Category: "correctness",
		},
		{
			ID: "finding_003", FilePath: file("FileHandler"), LineNumber: 70,
			FindingType: domain.FindingBug, Severity: domain.SeverityMedium, Confidence: 0.7,
			Message: "Resource leak detected", RuleID: "OS_OPEN_STREAM", Category: "correctness",
		},
		{
			ID: "finding_004", FilePath: file("Calculator"), LineNumber: 30,
			FindingType: domain.FindingBug, Severity: domain.SeverityLow, Confidence: 0.6,
			Message: "Unused variable warning", RuleID: "URF_UNREAD_FIELD", Category: "style",
		},
		{
			ID: "finding_005", FilePath: file("Utils"), LineNumber: 15,
			FindingType: domain.FindingBug, Severity: domain.SeverityHigh, Confidence: 0.9,
			Message: "SQL injection vulnerability", RuleID: "SQL_NONCONSTANT_STRING_PASSED_TO_EXECUTE", Category: "security",
		},
	}

	return findings, records, nil
}
