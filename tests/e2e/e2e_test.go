package e2e_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/reviewlab/reviewlab/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "reviewlab-e2e")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(dir, "reviewlab")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../..")
	if out, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(dir)
		panic("build failed: " + string(out))
	}

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func fixturePath(name string) string {
	abs, _ := filepath.Abs(filepath.Join("../../testdata/evaluation", name))
	return abs
}

func run(t *testing.T, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}
	return string(out), exitCode
}

func evaluate(t *testing.T, dir string, extra ...string) (string, int) {
	t.Helper()
	args := []string{
		"evaluate",
		"--findings", fixturePath("findings.json"),
		"--ground-truth", fixturePath("ground_truth.jsonl"),
		"--dir", dir,
	}
	return run(t, append(args, extra...)...)
}

// --- Evaluate Tests ---

func TestE2E_Evaluate(t *testing.T) {
	out, code := evaluate(t, t.TempDir())
	assert.Equal(t, 0, code, out)
	assert.Contains(t, out, "reviewlab")
	assert.Contains(t, out, "F1 0.667")
}

func TestE2E_EvaluateJSON(t *testing.T) {
	dir := t.TempDir()
	cmd := exec.Command(binaryPath, "evaluate",
		"--findings", fixturePath("findings.json"),
		"--ground-truth", fixturePath("ground_truth.jsonl"),
		"--dir", dir, "--json")
	out, err := cmd.Output()
	require.NoError(t, err)

	var result domain.EvaluationResult
	require.NoError(t, json.Unmarshal(out, &result))
	assert.Equal(t, 2, result.Metrics.TruePositives)
	assert.Len(t, result.Matches, 2)
	assert.Len(t, result.UnmatchedFindings, 1)
	assert.Len(t, result.UnmatchedGroundTruth, 1)
}

func TestE2E_MalformedLineWarning(t *testing.T) {
	out, code := evaluate(t, t.TempDir(), "--summary")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "skipping malformed ground truth line")
	assert.Contains(t, out, "line=5")
}

func TestE2E_CIExitCode(t *testing.T) {
	out, code := evaluate(t, t.TempDir(), "--ci", "--min-f1", "0.95")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "below minimum")

	_, code = evaluate(t, t.TempDir(), "--ci", "--min-f1", "0.5")
	assert.Equal(t, 0, code)
}

func TestE2E_UnknownStrategyWarns(t *testing.T) {
	out, code := evaluate(t, t.TempDir(), "--summary", "--strategies", "exact_overlap,telepathy")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "strategy=telepathy")
	assert.Contains(t, out, "exact_overlap: 1 matches")
}

func TestE2E_EmptyFindingsFails(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("[]"), 0644))

	out, code := run(t, "evaluate", "--findings", empty, "--ground-truth", fixturePath("ground_truth.jsonl"), "--dir", dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "no review findings supplied")
}

// --- Other commands ---

func TestE2E_Demo(t *testing.T) {
	out, code := run(t, "demo", "--language", "go", "--summary")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Demo Review Bot")
	assert.Contains(t, out, "F1-Score: 0.750")
}

func TestE2E_InitThenEvaluateUsesConfig(t *testing.T) {
	dir := t.TempDir()
	_, code := run(t, "init", dir, "--review-tool", "acme-bot")
	require.Equal(t, 0, code)

	out, code := evaluate(t, dir, "--summary")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Review Tool: acme-bot")
}

func TestE2E_Version(t *testing.T) {
	out, code := run(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "reviewlab")
}
