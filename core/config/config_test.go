package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/importmend/core/models"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "src", cfg.SourceRoot)
	assert.Equal(t, []string{".ts", ".tsx", ".js", ".jsx", ".css"}, cfg.Extensions)
	assert.Len(t, cfg.Renames, 10)
	assert.Equal(t, models.RenameRule{New: "domain/entities", Old: "types"}, cfg.Renames[8])

	table := cfg.RenameTable()
	newDir, ok := table.NewFor("email-templates")
	assert.True(t, ok)
	assert.Equal(t, "infrastructure/external-services/email-templates", newDir)
}

func TestLoadFile(t *testing.T) {
	t.Run("reads renames in order", func(t *testing.T) {
		tmpDir := t.TempDir()
		content := `
source_root: app/src
exclude:
  - generated
renames:
  - new: p/q
    old: m
  - new: p/r
    old: n
`
		path := filepath.Join(tmpDir, FileName)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, "app/src", cfg.SourceRoot)
		assert.Equal(t, DefaultExtensions(), cfg.Extensions)
		assert.Equal(t, []string{"generated"}, cfg.Exclude)
		assert.Equal(t, []models.RenameRule{
			{New: "p/q", Old: "m"},
			{New: "p/r", Old: "n"},
		}, cfg.Renames)
	})

	t.Run("rejects invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), FileName)
		require.NoError(t, os.WriteFile(path, []byte("renames: [unclosed"), 0644))

		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse yaml")
	})

	t.Run("rejects invalid rules", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), FileName)
		content := `
renames:
  - new: a/b
    old: c
  - new: a/b
    old: d
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		_, err := LoadFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate new directory")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestLoadFallsBackToDefault(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "empty source root",
			mutate:  func(c *Config) { c.SourceRoot = " " },
			wantErr: "source_root",
		},
		{
			name:    "no extensions",
			mutate:  func(c *Config) { c.Extensions = nil },
			wantErr: "extensions",
		},
		{
			name:    "extension without dot",
			mutate:  func(c *Config) { c.Extensions = []string{"ts"} },
			wantErr: "must start with a dot",
		},
		{
			name:    "empty old",
			mutate:  func(c *Config) { c.Renames = []models.RenameRule{{New: "a", Old: ""}} },
			wantErr: "renames[0].old",
		},
		{
			name:    "absolute new",
			mutate:  func(c *Config) { c.Renames = []models.RenameRule{{New: "/a", Old: "b"}} },
			wantErr: "relative",
		},
		{
			name:    "parent segment",
			mutate:  func(c *Config) { c.Renames = []models.RenameRule{{New: "a", Old: "../b"}} },
			wantErr: "'..'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	require.NoError(t, Default().Write(path, false))
	err := Default().Write(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, Default().Write(path, true))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
