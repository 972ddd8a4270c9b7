package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "editlog.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: true\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 30, cfg.Quarantine.RetentionDays, "unset fields keep defaults")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editlog.yaml")

	want := Config{Debug: true, Quarantine: QuarantineConfig{RetentionDays: 7}}
	require.NoError(t, want.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
