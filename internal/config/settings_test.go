package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "development", s.Env)
	assert.Equal(t, ":8080", s.HTTPAddr)
	assert.Equal(t, "taxfiler.db", s.DBPath)
	assert.Equal(t, int64(1), s.NodeID)
	assert.Equal(t, "info", s.Log.Level)
	assert.False(t, s.IsProduction())
}

func TestLoadSettingsFileEnvAndDotenv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "taxfiler.yaml"), []byte(`
http:
  addr: ":9090"
db:
  path: /var/lib/taxfiler/filings.db
log:
  level: debug
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TAXFILER_ACK_NODE_ID=42\n"), 0o644))
	t.Setenv("TAXFILER_LOG_LEVEL", "warn")
	// registers cleanup for the variable .env is about to set
	t.Setenv("TAXFILER_ACK_NODE_ID", "")
	os.Unsetenv("TAXFILER_ACK_NODE_ID")

	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", s.HTTPAddr)
	assert.Equal(t, "/var/lib/taxfiler/filings.db", s.DBPath)
	assert.Equal(t, "warn", s.Log.Level)
	assert.Equal(t, int64(42), s.NodeID)
}

func TestLoadSettingsExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := LoadSettings("does-not-exist.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "prod.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  env: production\n"), 0o644))
	_, err = LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format=json")
}

func TestSettingsValidate(t *testing.T) {
	s := &Settings{DBPath: "x.db", NodeID: 2000}
	assert.Error(t, s.Validate())
	s.NodeID = 3
	assert.NoError(t, s.Validate())
	s.DBPath = ""
	assert.Error(t, s.Validate())
}
