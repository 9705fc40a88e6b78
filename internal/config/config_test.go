package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default("/tmp/proj")
	assert.Equal(t, "/tmp/proj", cfg.Project.Root)
	assert.Equal(t, 0.8, cfg.Analysis.Threshold)
	assert.Equal(t, "rvchk", cfg.Analysis.DefaultChecker)
	assert.Equal(t, 0.0, cfg.Analysis.FuzzyKeywords)
	assert.Equal(t, []string{"**/*.as"}, cfg.Include)
}

func TestLoadKDLMissingFileReturnsNil(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadKDLParsesSections(t *testing.T) {
	dir := t.TempDir()
	content := `
project {
    name "demo"
}
analysis {
    threshold 0.25
    default_checker "fsb"
    fuzzy_keywords 0.9
}
explore {
    workers 8
    follow_symlinks true
}
include "src/**/*.as" "more/**/*.as"
exclude "vendor/**"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".apisan.kdl"), []byte(content), 0o644))

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "demo", cfg.Project.Name)
	assert.Equal(t, 0.25, cfg.Analysis.Threshold)
	assert.Equal(t, "fsb", cfg.Analysis.DefaultChecker)
	assert.Equal(t, 0.9, cfg.Analysis.FuzzyKeywords)
	assert.Equal(t, 8, cfg.Explore.Workers)
	assert.True(t, cfg.Explore.FollowSymlinks)
	assert.Equal(t, []string{"src/**/*.as", "more/**/*.as"}, cfg.Include)
	assert.Equal(t, []string{"vendor/**"}, cfg.Exclude)
}
