package groundtruth

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/reviewlab/reviewlab/internal/domain"
	"github.com/reviewlab/reviewlab/internal/logging"
)

// maxLineSize bounds one JSONL record; injected code snippets can be long.
const maxLineSize = 4 << 20

// timestampLayouts are tried in order. Injection logs are often written
// without a zone offset; those are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

type wireRecord struct {
	ID                 string         `json:"id"`
	InjectionID        string         `json:"injection_id"`
	TemplateID         string         `json:"template_id"`
	ProjectPath        string         `json:"project_path"`
	Language           string         `json:"language"`
	FilePath           string         `json:"file_path"`
	LineNumber         *int           `json:"line_number"`
	BugType            string         `json:"bug_type"`
	Description        string         `json:"description"`
	Severity           string         `json:"severity"`
	Difficulty         string         `json:"difficulty"`
	InjectionTimestamp string         `json:"injection_timestamp"`
	OriginalCode       string         `json:"original_code"`
	ModifiedCode       string         `json:"modified_code"`
	Metadata           map[string]any `json:"metadata"`
}

// JSONLLoader implements domain.GroundTruthLoader for injection logs with
// one JSON record per line.
type JSONLLoader struct {
	logger *slog.Logger
}

func New() *JSONLLoader {
	return &JSONLLoader{logger: logging.New("groundtruth")}
}

// NewWithLogger is used by tests to capture skipped-line warnings.
func NewWithLogger(l *slog.Logger) *JSONLLoader {
	return &JSONLLoader{logger: l}
}

// sessionPattern selects injection logs when a directory is loaded.
const sessionPattern = "**/*.jsonl"

// Load reads every well-formed record in path. Blank lines are ignored and
// malformed lines are logged and skipped. If path is a directory, every
// .jsonl file below it is read in lexical order and the records combined.
// A record ID seen twice is an error.
func (l *JSONLLoader) Load(path string) ([]domain.GroundTruthRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading ground truth: %w", err)
	}
	if !info.IsDir() {
		return l.loadFile(path)
	}

	files, err := doublestar.Glob(os.DirFS(path), sessionPattern)
	if err != nil {
		return nil, fmt.Errorf("listing ground truth: %w", err)
	}
	sort.Strings(files)

	var out []domain.GroundTruthRecord
	seen := map[string]string{}
	for _, name := range files {
		file := filepath.Join(path, filepath.FromSlash(name))
		recs, err := l.loadFile(file)
		if err != nil {
			return nil, err
		}
		for _, r := range recs {
			if prev, ok := seen[r.ID]; ok {
				return nil, fmt.Errorf("duplicate ground truth id %q in %s (first seen in %s)", r.ID, file, prev)
			}
			seen[r.ID] = file
		}
		out = append(out, recs...)
	}
	return out, nil
}

func (l *JSONLLoader) loadFile(path string) ([]domain.GroundTruthRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading ground truth: %w", err)
	}
	defer f.Close()

	return l.Read(f, path)
}

// Read parses records from r; source labels log lines and errors.
func (l *JSONLLoader) Read(r io.Reader, source string) ([]domain.GroundTruthRecord, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var out []domain.GroundTruthRecord
	seen := map[string]int{}
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := parseRecord(line)
		if err != nil {
			l.logger.Warn("skipping malformed ground truth line",
				"file", source, "line", lineNum, "error", err)
			continue
		}
		if first, ok := seen[rec.ID]; ok {
			return nil, fmt.Errorf("duplicate ground truth id %q in %s at line %d (first at line %d)", rec.ID, source, lineNum, first)
		}
		seen[rec.ID] = lineNum
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading ground truth: %w", err)
	}
	return out, nil
}

func parseRecord(line []byte) (domain.GroundTruthRecord, error) {
	var w wireRecord
	if err := json.Unmarshal(line, &w); err != nil {
		return domain.GroundTruthRecord{}, err
	}
	if w.ID == "" {
		return domain.GroundTruthRecord{}, errors.New("missing id")
	}
	if w.FilePath == "" {
		return domain.GroundTruthRecord{}, errors.New("missing file_path")
	}
	if w.LineNumber == nil {
		return domain.GroundTruthRecord{}, errors.New("missing line_number")
	}
	if *w.LineNumber < 1 {
		return domain.GroundTruthRecord{}, fmt.Errorf("line_number must be >= 1 (got %d)", *w.LineNumber)
	}
	ts, err := parseTimestamp(w.InjectionTimestamp)
	if err != nil {
		return domain.GroundTruthRecord{}, err
	}
	return domain.GroundTruthRecord{
		ID:                 w.ID,
		InjectionID:        w.InjectionID,
		TemplateID:         w.TemplateID,
		ProjectPath:        w.ProjectPath,
		Language:           w.Language,
		FilePath:           w.FilePath,
		LineNumber:         *w.LineNumber,
		BugType:            w.BugType,
		Description:        w.Description,
		Severity:           w.Severity,
		Difficulty:         w.Difficulty,
		InjectionTimestamp: ts,
		OriginalCode:       w.OriginalCode,
		ModifiedCode:       w.ModifiedCode,
		Metadata:           w.Metadata,
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized injection_timestamp %q", s)
}
