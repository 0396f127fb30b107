package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, FormatText, cfg.Format)
	assert.True(t, cfg.Color)
	assert.NoError(t, cfg.Validate())
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "kompilator.toml", `
log_level = "debug"
format = "json"
max_diagnostics = 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, 10, cfg.MaxDiagnostics)
	assert.True(t, cfg.Color, "unset fields keep their defaults")
}

func TestLoadYAML(t *testing.T) {
	for _, name := range []string{"kompilator.yaml", "kompilator.YML"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, "format: yaml\ncolor: false\ntokens: true\n")

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, FormatYAML, cfg.Format)
			assert.False(t, cfg.Color)
			assert.True(t, cfg.Tokens)
			assert.Equal(t, "warn", cfg.LogLevel)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad toml", "c.toml", "format = "},
		{"bad yaml", "c.yaml", "format: [yaml"},
		{"bad level", "c.toml", `log_level = "loud"`},
		{"bad format", "c.toml", `format = "xml"`},
		{"negative limit", "c.yaml", "max_diagnostics: -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
