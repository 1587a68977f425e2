package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory so no stray .env or
// tablejack.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("CONFIG_FILE", "")
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "./tablejack.db", cfg.DatabasePath)
	assert.Equal(t, 1000.0, cfg.StartChips)
	assert.Equal(t, 100.0, cfg.DefaultBet)
	assert.Equal(t, 10.0, cfg.MinBet)
	assert.Equal(t, 10000.0, cfg.MaxBet)
	assert.Equal(t, 1.5, cfg.BlackjackPays)
	assert.False(t, cfg.TiesPush)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Error(t, cfg.RequireBotToken())
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MIN_BET", "5")
	t.Setenv("BLACKJACK_PAYS", "2")
	t.Setenv("TIES_PUSH", "true")
	t.Setenv("DECK_SEED", "99")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.NoError(t, cfg.RequireBotToken())
	assert.Equal(t, DriverRedis, cfg.StoreDriver)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 5.0, cfg.MinBet)
	assert.Equal(t, 2.0, cfg.BlackjackPays)
	assert.True(t, cfg.TiesPush)
	assert.Equal(t, int64(99), cfg.DeckSeed)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("START_CHIPS=2500\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("START_CHIPS") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2500.0, cfg.StartChips)
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte("house_chips: 5000\nstore_driver: memory\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5000.0, cfg.HouseChips)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"STORE_DRIVER":   "postgres",
		"MIN_BET":        "0",
		"MAX_BET":        "5",
		"BLACKJACK_PAYS": "-1",
		"START_CHIPS":    "0",
	}

	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			t.Setenv(key, val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
