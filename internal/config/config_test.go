package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dom/hops-games/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("HOPS_API_URL", "http://words.local")
	t.Setenv("INTERNAL_SECRET_HEADER_NAME", "x-internal-secret")
	t.Setenv("INTERNAL_SECRET_HEADER_VALUE", "shh")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, config.StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 1000, cfg.GameCacheSize)
	assert.Equal(t, 5*time.Second, cfg.HopsTimeout)
	assert.Empty(t, cfg.AdminUserID)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ADMIN_USER_ID", "admin-123")
	t.Setenv("GAME_CACHE_SIZE", "50")
	t.Setenv("HOPS_TIMEOUT_SECONDS", "2")
	t.Setenv("SCHEDULE_DAILY_AT", "13:30")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "admin-123", cfg.AdminUserID)
	assert.Equal(t, 50, cfg.GameCacheSize)
	assert.Equal(t, 2*time.Second, cfg.HopsTimeout)

	offset, err := cfg.DailyScheduleOffset()
	require.NoError(t, err)
	assert.Equal(t, 13*time.Hour+30*time.Minute, offset)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing hops url", env: map[string]string{"HOPS_API_URL": ""}},
		{name: "missing secret header", env: map[string]string{"INTERNAL_SECRET_HEADER_VALUE": ""}},
		{name: "unknown environment", env: map[string]string{"ENVIRONMENT": "prod"}},
		{name: "unknown storage", env: map[string]string{"STORAGE_DRIVER": "dynamo"}},
		{name: "bad schedule", env: map[string]string{"SCHEDULE_DAILY_AT": "noon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, config.LoadDotEnv(filepath.Join(dir, "missing.env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("GAMES_DOTENV_PROBE=from-file\nPORT=9999\n"), 0o600))
	t.Setenv("PORT", "7070")
	t.Setenv("GAMES_DOTENV_PROBE", "")
	os.Unsetenv("GAMES_DOTENV_PROBE")

	require.NoError(t, config.LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("GAMES_DOTENV_PROBE"))
	assert.Equal(t, "7070", os.Getenv("PORT"), "existing variables win")
}
