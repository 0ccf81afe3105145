package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fenestra.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInitWithConfigFile(t *testing.T) {
	path := writeConfig(t, `backend = "x11"
theme = "dark"

[logging]
log_level = "debug"
`)
	SetConfigPath(path)
	defer SetConfigPath("")

	require.NoError(t, Init())

	cfg := Get()
	assert.Equal(t, "x11", cfg.Backend)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, "debug", cfg.Logging.LogLevel)
}

func TestInitDefaults(t *testing.T) {
	path := writeConfig(t, "")
	SetConfigPath(path)
	defer SetConfigPath("")

	require.NoError(t, Init())

	cfg := Get()
	assert.Equal(t, "auto", cfg.Backend)
	assert.Equal(t, "", cfg.Theme)
	assert.Equal(t, "", cfg.Logging.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `backend = "x11"`)
	SetConfigPath(path)
	defer SetConfigPath("")
	t.Setenv("FENESTRA_BACKEND", "wayland")

	require.NoError(t, Init())

	assert.Equal(t, "wayland", Get().Backend)
}

func TestGetWithoutInitReturnsDefaults(t *testing.T) {
	old := cfg
	cfg = nil
	defer func() { cfg = old }()

	assert.Equal(t, "auto", Get().Backend)
}

func TestSetReplacesConfig(t *testing.T) {
	old := cfg
	defer func() { cfg = old }()

	Set(&Config{Backend: "wayland", Theme: "light"})

	assert.Equal(t, "wayland", Get().Backend)
	assert.Equal(t, "light", Get().Theme)
}

func TestGetConfigPathOverride(t *testing.T) {
	SetConfigPath("/tmp/custom.toml")
	defer SetConfigPath("")

	assert.Equal(t, "/tmp/custom.toml", GetConfigPath())
}
