package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "conventional", cfg.Style)
	assert.True(t, *cfg.LowercaseFirstLetter)
	assert.True(t, *cfg.RemovePeriod)
	assert.Equal(t, 72, cfg.DescriptionMaxLength)
	assert.Equal(t, 3, cfg.ContextLines)
}

func TestLoadWithoutFiles(t *testing.T) {
	// Point the user config dir at an empty directory so only defaults
	// apply.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRepoOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	repoDir := t.TempDir()
	override := "style: emoji\ndescription_max_length: 50\n"
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, RepoConfigName), []byte(override), 0o644))

	cfg, err := Load(repoDir)
	require.NoError(t, err)

	assert.Equal(t, "emoji", cfg.Style)
	assert.Equal(t, 50, cfg.DescriptionMaxLength)
	// Untouched settings keep their defaults.
	assert.Equal(t, 3, cfg.ContextLines)
	assert.True(t, *cfg.LowercaseFirstLetter)
}

func TestLoadRepoOverridesUserConfig(t *testing.T) {
	userDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", userDir)
	require.NoError(t, os.MkdirAll(filepath.Join(userDir, "commitgen"), 0o755))
	userCfg := "ollama_model: llama3\ncontext_lines: 5\n"
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "commitgen", "config.yaml"), []byte(userCfg), 0o644))

	repoDir := t.TempDir()
	repoCfg := "context_lines: 8\n"
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, RepoConfigName), []byte(repoCfg), 0o644))

	cfg, err := Load(repoDir)
	require.NoError(t, err)

	assert.Equal(t, "llama3", cfg.OllamaModel)
	assert.Equal(t, 8, cfg.ContextLines)
}

func TestLoadInvalidStyle(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	repoDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, RepoConfigName), []byte("style: fancy\n"), 0o644))

	_, err := Load(repoDir)
	assert.ErrorContains(t, err, "invalid style")
}

func TestLoadMalformedYAML(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	repoDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, RepoConfigName), []byte("style: [unclosed\n"), 0o644))

	_, err := Load(repoDir)
	assert.ErrorContains(t, err, "failed to parse config")
}
