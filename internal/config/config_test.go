package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithRoot_DefaultConfigFallback(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadWithRoot(dir)
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Timeouts.IndexBuildSec)
	assert.Equal(t, 60, cfg.Timeouts.PackSec)
	assert.Equal(t, 30, cfg.Timeouts.CompressSec)
	assert.False(t, cfg.PreciseTokenizer)
	assert.Empty(t, cfg.Workspace.Exclude)
	assert.Equal(t, DefaultWatchDebounceMs, cfg.WatchDebounceMs)
}

func TestLoadWithRoot_WatchDebounceOverride(t *testing.T) {
	dir := t.TempDir()
	kdlContent := `
watch {
    debounce_ms 750
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tldrs.kdl"), []byte(kdlContent), 0o644))

	cfg, err := LoadWithRoot(dir)
	require.NoError(t, err)
	assert.Equal(t, 750, cfg.WatchDebounceMs)
}

func TestLoadWithRoot_ProjectConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	kdlContent := `
include "**/*.go"
exclude "**/testdata/**"
timeouts {
    pack_sec 90
}
tokenizer "precise"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tldrs.kdl"), []byte(kdlContent), 0o644))

	cfg, err := LoadWithRoot(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"**/*.go"}, cfg.Workspace.Include)
	assert.Contains(t, cfg.Workspace.Exclude, "**/testdata/**")
	assert.Equal(t, 90, cfg.Timeouts.PackSec)
	assert.Equal(t, 120, cfg.Timeouts.IndexBuildSec)
	assert.True(t, cfg.PreciseTokenizer)
}

func TestLoadWithRoot_GlobalExclusionsPreserved(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".tldrs.kdl"), []byte(`exclude "**/fixtures/**"`+"\n"), 0o644))

	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, ".tldrs.kdl"), []byte(`exclude "**/testdata/**"`+"\n"), 0o644))

	cfg, err := LoadWithRoot(project)
	require.NoError(t, err)

	assert.Contains(t, cfg.Workspace.Exclude, "**/fixtures/**")
	assert.Contains(t, cfg.Workspace.Exclude, "**/testdata/**")
}

func TestConfig_Estimator_ResolvesByPrecision(t *testing.T) {
	cfg := &Config{PreciseTokenizer: false}
	assert.Equal(t, 1, cfg.Estimator().Estimate("abcd"))

	cfg.PreciseTokenizer = true
	assert.Equal(t, 1, cfg.Estimator().Estimate("abcd"))
}
