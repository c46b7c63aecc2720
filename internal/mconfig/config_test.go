package mconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()
	assert.Equal(t, DefaultRowBudget, cfg.RowBudget)
	assert.False(t, cfg.StrictUnknown)
}

func TestFromEnv_ReadsKnobs(t *testing.T) {
	t.Setenv("MLDSL_STRICT_UNKNOWN", "1")
	t.Setenv("MLDSL_NORMALIZED_CALL_LIMIT", "20")
	cfg := FromEnv()
	assert.True(t, cfg.StrictUnknown)
	assert.Equal(t, 20, cfg.RowBudget)
}

func TestEffectiveRowBudget_ReservesClosingBraceSlot(t *testing.T) {
	cfg := Config{RowBudget: 43}
	assert.Equal(t, 42, cfg.EffectiveRowBudget())
}

func TestMergeYAMLFile_MissingFileIsNotError(t *testing.T) {
	cfg, err := MergeYAMLFile(defaults(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRowBudget, cfg.RowBudget)
}

func TestMergeYAMLFile_OverlaysRowBudget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rowBudget: 30\n"), 0o644))

	cfg, err := MergeYAMLFile(defaults(), path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.RowBudget)
}
