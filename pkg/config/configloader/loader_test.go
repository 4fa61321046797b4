package configloader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server struct {
		Port int `koanf:"port"`
	} `koanf:"server"`
	Dashboard struct {
		PageSize       int           `koanf:"pagesize"`
		SearchDebounce time.Duration `koanf:"searchdebounce"`
	} `koanf:"dashboard"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func (c *testConfig) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("port is required")
	}
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func Test_Load_Precedence(t *testing.T) {
	dir := t.TempDir()
	yamlFile := writeFile(t, dir, "config.yaml", `
server:
  port: 8080
dashboard:
  pagesize: 6
  searchdebounce: 500ms
log:
  level: info
`)
	envFile := writeFile(t, dir, ".env", "TESTHUB_DASHBOARD_PAGESIZE=9\nTESTHUB_LOG_LEVEL=warn\nOTHER_LOG_LEVEL=error\n")
	t.Setenv("TESTHUB_LOG_LEVEL", "debug")

	cfg, err := Load[*testConfig]("testhub", WithConfigFile(yamlFile), WithEnvFile(envFile))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port, "from yaml")
	assert.Equal(t, 500*time.Millisecond, cfg.Dashboard.SearchDebounce, "durations are parsed")
	assert.Equal(t, 9, cfg.Dashboard.PageSize, ".env overrides yaml")
	assert.Equal(t, "debug", cfg.Log.Level, "process env overrides .env")
}

func Test_Load_MissingFilesAndValidation(t *testing.T) {
	dir := t.TempDir()

	_, err := Load[*testConfig]("testhub",
		WithConfigFile(filepath.Join(dir, "missing.yaml")),
		WithEnvFile(filepath.Join(dir, "missing.env")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")

	t.Setenv("TESTHUB_SERVER_PORT", "9000")
	cfg, err := Load[*testConfig]("testhub",
		WithConfigFile(filepath.Join(dir, "missing.yaml")),
		WithEnvFile(filepath.Join(dir, "missing.env")))
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
}
