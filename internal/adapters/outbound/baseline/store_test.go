package baseline_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewlab/reviewlab/internal/adapters/outbound/baseline"
	"github.com/reviewlab/reviewlab/internal/domain"
)

func TestStore_SaveAndLoad(t *testing.T) {
	store := baseline.New()
	dir := t.TempDir()

	original := &domain.Baseline{
		SessionID:   "eval_20250314_092653",
		ReviewTool:  "sonar",
		Fingerprint: "9f86d081884c7d65",
		Metrics:     domain.ComputeMetrics(4, 4, 2),
	}
	require.NoError(t, store.Save(dir, original))

	loaded, err := store.Load(dir)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, original.SessionID, loaded.SessionID)
	assert.Equal(t, original.Fingerprint, loaded.Fingerprint)
	assert.InDelta(t, 0.5, loaded.Metrics.F1Score, 1e-9)
}

func TestStore_LoadNonExistent(t *testing.T) {
	loaded, err := baseline.New().Load(t.TempDir())
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := baseline.New()
	dir := t.TempDir()

	require.NoError(t, store.Save(dir, &domain.Baseline{SessionID: "first"}))
	require.NoError(t, store.Save(dir, &domain.Baseline{SessionID: "second"}))

	loaded, err := store.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.SessionID)
}

func TestStore_Clear(t *testing.T) {
	store := baseline.New()
	dir := t.TempDir()

	require.NoError(t, store.Save(dir, &domain.Baseline{SessionID: "s"}))
	require.NoError(t, store.Clear(dir))

	_, err := os.Stat(baseline.Path(dir))
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	assert.NoError(t, store.Clear(dir))
}

func TestStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, baseline.New().Save(dir, &domain.Baseline{}))
	require.NoError(t, os.WriteFile(baseline.Path(dir), []byte("not json"), 0644))

	_, err := baseline.New().Load(dir)
	assert.Error(t, err)
}
