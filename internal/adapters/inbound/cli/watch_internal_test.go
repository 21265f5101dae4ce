package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewlab/reviewlab/internal/application"
)

func TestWatchInputs_ReevaluatesOnChange(t *testing.T) {
	dir := t.TempDir()
	findings := filepath.Join(dir, "findings.json")
	gt := filepath.Join(dir, "gt.jsonl")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{findings, gt, other} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}

	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchInputs(ctx, application.EvaluateRequest{FindingsPath: findings, GroundTruthPath: gt}, func() {
			runs.Add(1)
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0644))
	time.Sleep(3 * watchDebounce)
	assert.Equal(t, int32(1), runs.Load(), "unrelated files do not trigger")

	require.NoError(t, os.WriteFile(findings, []byte("changed"), 0644))
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchInputs_GroundTruthDirectory(t *testing.T) {
	dir := t.TempDir()
	findings := filepath.Join(dir, "findings.json")
	sessions := filepath.Join(dir, "sessions")
	nested := filepath.Join(sessions, "round1")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(findings, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "a.jsonl"), []byte("x"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchInputs(ctx, application.EvaluateRequest{FindingsPath: findings, GroundTruthPath: sessions}, func() {
			runs.Add(1)
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(sessions, "README.md"), []byte("ignored"), 0644))
	time.Sleep(3 * watchDebounce)
	assert.Equal(t, int32(1), runs.Load(), "non-jsonl files do not trigger")

	require.NoError(t, os.WriteFile(filepath.Join(nested, "a.jsonl"), []byte("changed"), 0644))
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchSet_Matches(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "data", "sessions")
	file := filepath.Join(string(filepath.Separator), "data", "findings.json")
	s := &watchSet{files: map[string]bool{file: true}, trees: []string{root}}

	assert.True(t, s.matches(file))
	assert.True(t, s.matches(filepath.Join(root, "a.jsonl")))
	assert.True(t, s.matches(filepath.Join(root, "deep", "b.jsonl")))
	assert.False(t, s.matches(filepath.Join(root, "notes.txt")))
	assert.False(t, s.matches(filepath.Join(string(filepath.Separator), "data", "other.jsonl")))
	assert.False(t, s.matches(filepath.Join(string(filepath.Separator), "data", "sessions2", "x.jsonl")))
}

func TestWatchInputs_MissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone", "findings.json")
	err := watchInputs(context.Background(), application.EvaluateRequest{FindingsPath: missing, GroundTruthPath: missing}, func() {
		t.Fatal("evaluate should not run")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watching")
}
