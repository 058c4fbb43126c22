package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string `json:"name"`
	Retries int    `json:"retries"`
}

func TestReadConfigReturnsNotExistWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadConfig[testConfig](filepath.Join(dir, "missing.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigReadsBaseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "adcollect.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "base", "retries": 3}`), 0o644))

	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "base", cfg.Name)
	require.Equal(t, 3, cfg.Retries)
}

func TestReadConfigMergesLocalOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "adcollect.json5")
	localPath := filepath.Join(dir, "adcollect.local.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "base", "retries": 3}`), 0o644))
	require.NoError(t, os.WriteFile(localPath, []byte(`{"retries": 7}`), 0o644))

	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "base", cfg.Name, "local override should not clobber fields it doesn't set")
	require.Equal(t, 7, cfg.Retries)
}

func TestReadConfigLocalOnlyIsEnough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "adcollect.json5")
	localPath := filepath.Join(dir, "adcollect.local.json5")
	require.NoError(t, os.WriteFile(localPath, []byte(`{"name": "local-only", "retries": 1}`), 0o644))

	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "local-only", cfg.Name)
}
