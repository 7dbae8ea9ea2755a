package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func requiredEnv() map[string]string {
	return map[string]string{
		"DISCORD_BOT_TOKEN":   "token",
		"DISCORD_GUILD_ID":    "g1",
		"ONLINE_CHANNEL_ID":   "c-online",
		"REPORT_CHANNEL_ID":   "c-report",
		"DELIVERY_CHANNEL_ID": "c-summary",
		"EXCLUDE_ROLE_ID":     "r-admin",
	}
}

func TestLoad_FromEnv(t *testing.T) {
	env := requiredEnv()
	env["PRESENCE_INTERVAL"] = "30s"
	env["REPORT_PREFIX"] = "!ks"

	cfg, err := Load(nil, envOf(env))
	require.NoError(t, err)
	assert.Equal(t, "token", cfg.Token)
	assert.Equal(t, "c-summary", cfg.DeliveryChannelID)
	assert.Equal(t, 30*time.Second, cfg.PresenceInterval)
	assert.Equal(t, 5*time.Minute, cfg.ReportInterval)
	assert.Equal(t, "!ks", cfg.ReportPrefix)
	assert.Equal(t, 300, cfg.ReportHistoryLimit)
	assert.Equal(t, "file", cfg.StateBackend)
}

func TestLoad_MissingRequired(t *testing.T) {
	env := requiredEnv()
	delete(env, "EXCLUDE_ROLE_ID")
	delete(env, "ONLINE_CHANNEL_ID")

	_, err := Load(nil, envOf(env))
	require.ErrorIs(t, err, ErrMissing)
	assert.Contains(t, err.Error(), "EXCLUDE_ROLE_ID")
	assert.Contains(t, err.Error(), "ONLINE_CHANNEL_ID")
}

func TestLoad_BlankCountsAsMissing(t *testing.T) {
	env := requiredEnv()
	env["DISCORD_GUILD_ID"] = "   "
	_, err := Load(nil, envOf(env))
	assert.ErrorIs(t, err, ErrMissing)
}

func TestLoad_FileThenEnvThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kstracker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
token: from-file
guild_id: g-file
online_channel_id: c1
report_channel_id: c2
delivery_channel_id: c3
exclude_role_id: r1
state_backend: sqlite
state_path: data/file.sqlite
report_interval: 10m
log_level: debug
`), 0644))

	env := map[string]string{"DISCORD_GUILD_ID": "g-env"}
	cfg, err := Load([]string{"--config", path, "--state", "flag.sqlite"}, envOf(env))
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Token)
	assert.Equal(t, "g-env", cfg.GuildID)
	assert.Equal(t, "sqlite", cfg.StateBackend)
	assert.Equal(t, "flag.sqlite", cfg.StatePath)
	assert.Equal(t, 10*time.Minute, cfg.ReportInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_ConfigFromEnvVariable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("presence_history_limit: 25\n"), 0644))
	env := requiredEnv()
	env["KSBOT_CONFIG"] = path

	cfg, err := Load(nil, envOf(env))
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.PresenceHistoryLimit)
}

func TestLoad_BadValues(t *testing.T) {
	env := requiredEnv()
	env["REPORT_INTERVAL"] = "soon"
	_, err := Load(nil, envOf(env))
	assert.Error(t, err)

	env = requiredEnv()
	env["STATE_BACKEND"] = "dynamodb"
	_, err = Load(nil, envOf(env))
	assert.Error(t, err)

	_, err = Load([]string{"--nope"}, envOf(requiredEnv()))
	assert.Error(t, err)
}
