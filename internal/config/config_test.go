package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

const validConfig = `
server:
  host: "127.0.0.1"
  port: 8080
backend:
  base_url: "http://localhost:8000"
session:
  secret: "0123456789abcdef0123456789abcdef"
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.GetServerAddress())
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)

	// Defaults applied by validation.
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout())
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL())
	assert.Equal(t, "equishare_session", cfg.Session.CookieName)
	assert.Equal(t, "0 */5 * * * *", cfg.Scheduler.SweepExpiredSessions)
	assert.Equal(t, "0 0 * * * *", cfg.Scheduler.RevalidateSessions)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name     string
		contents string
	}{
		{"BadPort", `
server: {host: "x", port: 0}
backend: {base_url: "http://localhost:8000"}
session: {secret: "0123456789abcdef0123456789abcdef"}
`},
		{"MissingBackendURL", `
server: {host: "x", port: 8080}
session: {secret: "0123456789abcdef0123456789abcdef"}
`},
		{"RelativeBackendURL", `
server: {host: "x", port: 8080}
backend: {base_url: "localhost:8000"}
session: {secret: "0123456789abcdef0123456789abcdef"}
`},
		{"ShortSecret", `
server: {host: "x", port: 8080}
backend: {base_url: "http://localhost:8000"}
session: {secret: "short"}
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.contents))
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://backend.internal:9000")
	t.Setenv("SESSION_TTL_MINUTES", "60")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "http://backend.internal:9000", cfg.Backend.BaseURL)
	assert.Equal(t, time.Hour, cfg.SessionTTL())
	assert.Equal(t, "debug", cfg.Log.Level)
}
