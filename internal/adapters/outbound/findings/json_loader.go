package findings

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/reviewlab/reviewlab/internal/domain"
)

const findingsSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["file_path", "line_number"],
    "properties": {
      "id": { "type": "string" },
      "file_path": { "type": "string", "minLength": 1 },
      "line_number": { "type": "integer", "minimum": 1 },
      "end_line": { "type": ["integer", "null"], "minimum": 0 },
      "finding_type": {
        "type": "string",
        "enum": ["bug", "code_smell", "security_issue", "performance_issue", "maintainability_issue", "other"]
      },
      "severity": { "type": "string" },
      "confidence": { "type": "number", "minimum": 0, "maximum": 1 },
      "message": { "type": "string" },
      "rule_id": { "type": ["string", "null"] },
      "category": { "type": ["string", "null"] },
      "metadata": { "type": ["object", "null"] }
    }
  }
}`

var findingsSchemaLoader = gojsonschema.NewStringLoader(findingsSchemaJSON)

// wireFinding mirrors the JSON shape; pointers distinguish absent fields.
type wireFinding struct {
	ID          string         `json:"id"`
	FilePath    string         `json:"file_path"`
	LineNumber  int            `json:"line_number"`
	EndLine     *int           `json:"end_line"`
	FindingType string         `json:"finding_type"`
	Severity    *string        `json:"severity"`
	Confidence  *float64       `json:"confidence"`
	Message     string         `json:"message"`
	RuleID      *string        `json:"rule_id"`
	Category    *string        `json:"category"`
	Metadata    map[string]any `json:"metadata"`
}

// JSONLoader implements domain.FindingsLoader for a JSON array of findings.
type JSONLoader struct{}

func New() *JSONLoader { return &JSONLoader{} }

// Load reads and validates a findings file.
func (l *JSONLoader) Load(path string) ([]domain.Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading findings: %w", err)
	}
	return Parse(data)
}

// Parse validates data against the findings schema and converts it,
// filling defaults for omitted fields.
func Parse(data []byte) ([]domain.Finding, error) {
	result, err := gojsonschema.Validate(findingsSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing findings: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("findings do not match schema: %s", strings.Join(msgs, "; "))
	}

	var wire []wireFinding
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("parsing findings: %w", err)
	}

	taken := make(map[string]bool, len(wire))
	for i, w := range wire {
		if w.ID == "" {
			continue
		}
		if taken[w.ID] {
			return nil, fmt.Errorf("duplicate finding id %q at index %d", w.ID, i)
		}
		taken[w.ID] = true
	}

	out := make([]domain.Finding, 0, len(wire))
	for i, w := range wire {
		f, err := w.toDomain()
		if err != nil {
			return nil, err
		}
		if f.ID == "" {
			f.ID = generatedID(i, taken)
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// generatedID names an anonymous finding finding_<index>, adding a numeric
// suffix when the file already uses that id.
func generatedID(index int, taken map[string]bool) string {
	id := fmt.Sprintf("finding_%d", index)
	for n := 1; taken[id]; n++ {
		id = fmt.Sprintf("finding_%d_%d", index, n)
	}
	taken[id] = true
	return id
}

func (w wireFinding) toDomain() (domain.Finding, error) {
	ft, err := domain.ParseFindingType(w.FindingType)
	if err != nil {
		return domain.Finding{}, err
	}

	f := domain.Finding{
		ID:          w.ID,
		FilePath:    w.FilePath,
		LineNumber:  w.LineNumber,
		EndLine:     w.EndLine,
		FindingType: ft,
		Severity:    domain.SeverityMedium,
		Confidence:  domain.DefaultFindingConfidence,
		Message:     w.Message,
		Metadata:    w.Metadata,
	}
	if w.Severity != nil {
		f.Severity = *w.Severity
	}
	if w.Confidence != nil {
		f.Confidence = *w.Confidence
	}
	if w.RuleID != nil {
		f.RuleID = *w.RuleID
	}
	if w.Category != nil {
		f.Category = *w.Category
	}
	return f, nil
}
