package groundtruth_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewlab/reviewlab/internal/adapters/outbound/groundtruth"
)

const validLine = `{"id":"gt-1","injection_id":"inj-1","template_id":"java_null_check","project_path":"/tmp/p","language":"java","file_path":"src/Calculator.java","line_number":42,"bug_type":"null_pointer","description":"Removed null check before dereference","severity":"high","difficulty":"easy","injection_timestamp":"2024-01-01T10:00:00","original_code":"if (x != null)","modified_code":"","metadata":{"round":1}}`

func captureLoader() (*groundtruth.JSONLLoader, *bytes.Buffer) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return groundtruth.NewWithLogger(l), &buf
}

func TestRead_ValidRecord(t *testing.T) {
	loader, _ := captureLoader()
	recs, err := loader.Read(strings.NewReader(validLine+"\n"), "gt.jsonl")
	require.NoError(t, err)
	require.Len(t, recs, 1)

	r := recs[0]
	assert.Equal(t, "gt-1", r.ID)
	assert.Equal(t, "src/Calculator.java", r.FilePath)
	assert.Equal(t, 42, r.LineNumber)
	assert.Equal(t, "null_pointer", r.BugType)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), r.InjectionTimestamp)
	assert.EqualValues(t, 1, r.Metadata["round"])
}

func TestRead_SkipsBlankAndMalformedLines(t *testing.T) {
	loader, logs := captureLoader()
	input := strings.Join([]string{
		validLine,
		"",
		"   ",
		"{not json",
		`{"file_path":"a.go","line_number":1}`,
		`{"id":"gt-2","file_path":"b.go","line_number":7,"injection_timestamp":"2024-02-01T08:00:00Z"}`,
		`{"id":"gt-3","file_path":"c.go","line_number":1,"injection_timestamp":"yesterday"}`,
		`{"id":"gt-4","file_path":"d.go"}`,
		`{"id":"gt-5","file_path":"e.go","line_number":0}`,
		`{"id":"gt-6","file_path":"f.go","line_number":-3}`,
	}, "\n")

	recs, err := loader.Read(strings.NewReader(input), "gt.jsonl")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "gt-1", recs[0].ID)
	assert.Equal(t, "gt-2", recs[1].ID)

	out := logs.String()
	assert.Equal(t, 6, strings.Count(out, "skipping malformed ground truth line"))
	assert.Contains(t, out, "line=4")
	assert.Contains(t, out, "line=5")
	assert.Contains(t, out, "line=7")
	assert.Contains(t, out, "missing line_number")
	assert.Contains(t, out, "line=9")
	assert.Contains(t, out, "line=10")
}

func TestRead_DuplicateIDs(t *testing.T) {
	loader, _ := captureLoader()
	input := validLine + "\n" + strings.Replace(validLine, `"line_number":42`, `"line_number":50`, 1) + "\n"

	_, err := loader.Read(strings.NewReader(input), "gt.jsonl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate ground truth id "gt-1"`)
	assert.Contains(t, err.Error(), "line 2")
}

func TestRead_Empty(t *testing.T) {
	loader, _ := captureLoader()
	recs, err := loader.Read(strings.NewReader("\n\n"), "gt.jsonl")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")
	second := strings.Replace(validLine, `"id":"gt-1"`, `"id":"gt-2"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(validLine+"\n"+second+"\n"), 0644))

	recs, err := groundtruth.New().Load(path)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := groundtruth.New().Load(filepath.Join(t.TempDir(), "missing.jsonl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading ground truth")
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	line := func(id string) string {
		return `{"id":"` + id + `","file_path":"a.go","line_number":1}` + "\n"
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "old"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session_b.jsonl"), []byte(line("b1")), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session_a.jsonl"), []byte(line("a1")+line("a2")), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old", "session_c.jsonl"), []byte(line("c1")), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a log"), 0644))

	recs, err := groundtruth.New().Load(dir)
	require.NoError(t, err)

	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"c1", "a1", "a2", "b1"}, ids)
}

func TestLoad_DirectoryDuplicateAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	line := `{"id":"same","file_path":"a.go","line_number":1}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.jsonl"), []byte(line), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.jsonl"), []byte(line), 0644))

	_, err := groundtruth.New().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate ground truth id "same"`)
}

func TestLoad_EmptyDirectory(t *testing.T) {
	recs, err := groundtruth.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, recs)
}
