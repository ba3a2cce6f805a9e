package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"APP_ENV", "APP_ADDR", "DB_DSN", "DB_TIMEOUT", "JWT_SECRET",
	"OPENLIBRARY_BASE_URL", "OPENLIBRARY_USER_AGENT", "OPENLIBRARY_RPS", "LOOKUP_TIMEOUT",
	"CORS_ALLOWED_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "MAX_BODY_BYTES", "LOG_LEVEL",
}

// cleanEnv runs the test from an empty directory with every key unset.
func cleanEnv(t *testing.T) string {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	tmp := t.TempDir()
	t.Chdir(tmp)
	return tmp
}

func TestLoad_Defaults(t *testing.T) {
	cleanEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 3*time.Second, cfg.DBTimeout)
	assert.Equal(t, 10*time.Second, cfg.LookupTimeout)
	assert.Equal(t, "https://openlibrary.org", cfg.OpenLibraryBaseURL)
	assert.Equal(t, 5, cfg.OpenLibraryRPS)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	cleanEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_TIMEOUT", "750ms")
	t.Setenv("OPENLIBRARY_RPS", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, http://localhost:5173,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 750*time.Millisecond, cfg.DBTimeout)
	assert.Equal(t, 2, cfg.OpenLibraryRPS)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSAllowedOrigins)
}

func TestLoad_MissingSecret(t *testing.T) {
	cleanEnv(t)

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissing)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "DB_TIMEOUT", value: "soon"},
		{key: "LOOKUP_TIMEOUT", value: "-1s"},
		{key: "OPENLIBRARY_RPS", value: "fast"},
		{key: "RATE_LIMIT_BURST", value: "0"},
		{key: "RATE_LIMIT_RPS", value: "x"},
		{key: "MAX_BODY_BYTES", value: "1MB"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cleanEnv(t)
			t.Setenv("JWT_SECRET", "secret")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := cleanEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("DB_DSN=from_file\nLOG_LEVEL=debug\n"), 0o644))
	t.Setenv("DB_DSN", "from_env")

	LoadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("DB_DSN"))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
}
