package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewlab/reviewlab/internal/adapters/inbound/cli"
)

const fixtureDir = "../../../../testdata/evaluation"

var (
	findingsFixture    = filepath.Join(fixtureDir, "findings.json")
	groundTruthFixture = filepath.Join(fixtureDir, "ground_truth.jsonl")
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func evaluateArgs(dir string, extra ...string) []string {
	args := []string{"evaluate", "--findings", findingsFixture, "--ground-truth", groundTruthFixture, "--dir", dir}
	return append(args, extra...)
}

func TestEvaluateCommand_JSON(t *testing.T) {
	out, err := run(t, evaluateArgs(t.TempDir(), "--json", "--review-tool", "acme-bot")...)
	require.NoError(t, err)

	var result struct {
		SessionID  string `json:"session_id"`
		ReviewTool string `json:"review_tool"`
		Metrics    struct {
			TotalFindings    int            `json:"total_findings"`
			TotalGroundTruth int            `json:"total_ground_truth"`
			TruePositives    int            `json:"true_positives"`
			Precision        float64        `json:"precision"`
			MatchBreakdown   map[string]int `json:"match_breakdown"`
		} `json:"metrics"`
		UnmatchedGroundTruth []struct {
			ID string `json:"id"`
		} `json:"unmatched_ground_truth"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "acme-bot", result.ReviewTool)
	assert.Regexp(t, `^eval_\d{8}_\d{6}$`, result.SessionID)
	assert.Equal(t, 3, result.Metrics.TotalFindings)
	assert.Equal(t, 3, result.Metrics.TotalGroundTruth, "malformed line is skipped")
	assert.Equal(t, 2, result.Metrics.TruePositives)
	assert.Equal(t, 1, result.Metrics.MatchBreakdown["exact_overlap"])
	assert.Equal(t, 1, result.Metrics.MatchBreakdown["line_range_overlap"])
	require.Len(t, result.UnmatchedGroundTruth, 1)
	assert.Equal(t, "gt-3", result.UnmatchedGroundTruth[0].ID)
}

func TestEvaluateCommand_DefaultTUI(t *testing.T) {
	out, err := run(t, evaluateArgs(t.TempDir())...)
	require.NoError(t, err)
	assert.Contains(t, out, "reviewlab")
	assert.Contains(t, out, "F1 0.667")
	assert.Contains(t, out, "Fair")
}

func TestEvaluateCommand_Summary(t *testing.T) {
	out, err := run(t, evaluateArgs(t.TempDir(), "--summary", "--strategies", "exact_overlap")...)
	require.NoError(t, err)
	assert.Contains(t, out, "REVIEW EVALUATION SUMMARY REPORT")
	assert.Contains(t, out, "True Positives: 1")
	assert.Contains(t, out, "line_range_overlap: 0 matches")
}

func TestEvaluateCommand_Badge(t *testing.T) {
	out, err := run(t, evaluateArgs(t.TempDir(), "--badge")...)
	require.NoError(t, err)
	assert.Contains(t, out, "img.shields.io")
	assert.Contains(t, out, "0.67-orange")
}

func TestEvaluateCommand_RequiresInputs(t *testing.T) {
	_, err := run(t, "evaluate", "--findings", findingsFixture)
	assert.Error(t, err)
}

func TestEvaluateCommand_MissingFile(t *testing.T) {
	_, err := run(t, "evaluate", "--findings", "nope.json", "--ground-truth", groundTruthFixture, "--dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading findings")
}

func TestEvaluateCommand_CIFails(t *testing.T) {
	_, err := run(t, evaluateArgs(t.TempDir(), "--ci", "--min-f1", "0.9")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below minimum 0.900")
}

func TestEvaluateCommand_CIPasses(t *testing.T) {
	_, err := run(t, evaluateArgs(t.TempDir(), "--ci", "--min-f1", "0.5")...)
	assert.NoError(t, err)
}

func TestEvaluateCommand_CIWithHistory(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, evaluateArgs(dir, "--ci", "--min-f1", "0.99", "--history")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "F1 0.667 is below minimum 0.990")
	assert.Contains(t, out, "Evaluation History")

	_, err = run(t, evaluateArgs(dir, "--ci", "--min-f1", "0.5", "--history")...)
	assert.NoError(t, err)
}

func TestEvaluateCommand_CIUsesConfigFloor(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".reviewlab.yaml"), []byte("min_f1: 0.8\n"), 0644))

	_, err := run(t, evaluateArgs(dir, "--ci")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below minimum 0.800")

	_, err = run(t, evaluateArgs(dir, "--ci", "--min-f1", "0.1")...)
	assert.NoError(t, err, "flag beats config")
}

func TestEvaluateCommand_RecordsHistory(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, evaluateArgs(dir, "--summary")...)
	require.NoError(t, err)
	_, err = run(t, evaluateArgs(dir, "--summary", "--strategies", "exact_overlap")...)
	require.NoError(t, err)

	out, err := run(t, evaluateArgs(dir, "--history", "--no-history")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Evaluation History")
	assert.Contains(t, out, "↓0.333")

	out, err = run(t, "history", dir, "--json")
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Len(t, entries, 2)
}

func TestEvaluateCommand_NoHistory(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, evaluateArgs(dir, "--no-history", "--summary")...)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, ".reviewlab", "history", "evaluations.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestEvaluateCommand_Baseline(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, evaluateArgs(dir, "--compare-baseline")...)
	require.NoError(t, err)
	assert.Contains(t, out, "No baseline saved yet")

	out, err = run(t, evaluateArgs(dir, "--save-baseline", "--strategies", "exact_overlap")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Baseline saved")

	out, err = run(t, evaluateArgs(dir, "--compare-baseline")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Baseline")
	assert.Contains(t, out, "↑0.333")
	assert.NotContains(t, out, "ground truth differs")
}

func TestEvaluateCommand_BadLogLevel(t *testing.T) {
	_, err := run(t, evaluateArgs(t.TempDir(), "--log-level", "loud")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestEvaluateCommand_BadLogFormat(t *testing.T) {
	_, err := run(t, evaluateArgs(t.TempDir(), "--log-format", "xml")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := cli.NewRootCmdForTest()
	names := map[string]*cobra.Command{}
	for _, c := range root.Commands() {
		names[c.Name()] = c
	}
	for _, want := range []string{"evaluate", "demo", "history", "strategies", "init", "watch", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}
