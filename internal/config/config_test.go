package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnconnect/learnconnect.go/pkg/constants"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "session.db", filepath.Base(cfg.SessionPath))
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLayering(t *testing.T) {
	tomlPath := writeFile(t, "learnconnect.toml", `
base_url = "http://toml.example/api"
timeout = "5s"
log_level = "debug"
log_format = "text"
session_path = "/tmp/from-toml.db"
`)
	envPath := writeFile(t, ".env", "LEARNCONNECT_LOG_LEVEL=info\nLEARNCONNECT_BASE_URL=http://dotenv.example/api\n")
	t.Setenv("LEARNCONNECT_BASE_URL", "http://env.example/api")

	cfg, err := Load(tomlPath, envPath)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example/api", cfg.BaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "/tmp/from-toml.db", cfg.SessionPath)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestMissingEnvFileIsIgnored(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

func TestMissingTOMLFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"), "")
	require.Error(t, err)
}

func TestInvalidValues(t *testing.T) {
	t.Setenv("LEARNCONNECT_TIMEOUT", "soon")
	_, err := Load("", "")
	require.Error(t, err)

	t.Setenv("LEARNCONNECT_TIMEOUT", "1s")
	t.Setenv("LEARNCONNECT_SECRET_HASH", "hash-key")
	t.Setenv("LEARNCONNECT_SECRET_BLOCK", "short")
	_, err = Load("", "")
	require.Error(t, err)

	t.Setenv("LEARNCONNECT_SECRET_BLOCK", "0123456789abcdef")
	t.Setenv("LEARNCONNECT_LOG_FORMAT", "xml")
	_, err = Load("", "")
	require.Error(t, err)

	t.Setenv("LEARNCONNECT_LOG_FORMAT", "text")
	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Timeout)
}
