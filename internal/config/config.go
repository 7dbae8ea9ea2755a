// Package config — настройки бота.
//
// Источники по возрастанию приоритета: значения по умолчанию, YAML-файл
// (--config или KSBOT_CONFIG), переменные окружения, флаги командной строки.
// Обязательные поля (токен, гильдия, три канала, роль) проверяет Validate.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// ErrMissing — не задано обязательное поле.
var ErrMissing = errors.New("missing required configuration")

type Config struct {
	Token   string `yaml:"token"`
	GuildID string `yaml:"guild_id"`

	OnlineChannelID   string `yaml:"online_channel_id"`   // откуда берём статус «Online»
	ReportChannelID   string `yaml:"report_channel_id"`   // репорты "!ks > Name > location"
	DeliveryChannelID string `yaml:"delivery_channel_id"` // куда публикуем сводку
	ExcludeRoleID     string `yaml:"exclude_role_id"`     // роль для !ks exclude/include

	StateBackend string `yaml:"state_backend"` // file | sqlite
	StatePath    string `yaml:"state_path"`

	ReportInterval       time.Duration `yaml:"report_interval"`
	PresenceInterval     time.Duration `yaml:"presence_interval"`
	ReportHistoryLimit   int           `yaml:"report_history_limit"`
	PresenceHistoryLimit int           `yaml:"presence_history_limit"`
	ReportPrefix         string        `yaml:"report_prefix"`
	LocationHistoryCap   int           `yaml:"location_history_cap"`
	OnlineMarker         string        `yaml:"online_marker"`

	LogLevel   string `yaml:"log_level"`
	APIURL     string `yaml:"api_url"`
	GatewayURL string `yaml:"gateway_url"`
}

// Default — значения по умолчанию для необязательных полей.
func Default() Config {
	return Config{
		StateBackend:         "file",
		StatePath:            "conf/state.json",
		ReportInterval:       5 * time.Minute,
		PresenceInterval:     time.Minute,
		ReportHistoryLimit:   300,
		PresenceHistoryLimit: 10,
		LocationHistoryCap:   20,
		OnlineMarker:         "Online",
		LogLevel:             "info",
	}
}

// LoadFile накладывает YAML-файл поверх cfg.
func LoadFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ApplyEnv накладывает переменные окружения. lookup обычно os.LookupEnv.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	var errs []error
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	str("DISCORD_BOT_TOKEN", &cfg.Token)
	str("DISCORD_GUILD_ID", &cfg.GuildID)
	str("ONLINE_CHANNEL_ID", &cfg.OnlineChannelID)
	str("REPORT_CHANNEL_ID", &cfg.ReportChannelID)
	str("DELIVERY_CHANNEL_ID", &cfg.DeliveryChannelID)
	str("EXCLUDE_ROLE_ID", &cfg.ExcludeRoleID)
	str("STATE_BACKEND", &cfg.StateBackend)
	str("STATE_PATH", &cfg.StatePath)
	dur("REPORT_INTERVAL", &cfg.ReportInterval)
	dur("PRESENCE_INTERVAL", &cfg.PresenceInterval)
	num("REPORT_HISTORY_LIMIT", &cfg.ReportHistoryLimit)
	num("PRESENCE_HISTORY_LIMIT", &cfg.PresenceHistoryLimit)
	num("LOCATION_HISTORY_CAP", &cfg.LocationHistoryCap)
	// префикс может быть пустым намеренно — поэтому без trim-проверки
	if v, ok := lookup("REPORT_PREFIX"); ok {
		cfg.ReportPrefix = v
	}
	str("ONLINE_MARKER", &cfg.OnlineMarker)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("DISCORD_API_URL", &cfg.APIURL)
	str("DISCORD_GATEWAY_URL", &cfg.GatewayURL)

	return errors.Join(errs...)
}

// Validate проверяет обязательные поля и диапазоны.
func (c Config) Validate() error {
	var missing []string
	for _, f := range []struct{ key, val string }{
		{"DISCORD_BOT_TOKEN", c.Token},
		{"DISCORD_GUILD_ID", c.GuildID},
		{"ONLINE_CHANNEL_ID", c.OnlineChannelID},
		{"REPORT_CHANNEL_ID", c.ReportChannelID},
		{"DELIVERY_CHANNEL_ID", c.DeliveryChannelID},
		{"EXCLUDE_ROLE_ID", c.ExcludeRoleID},
	} {
		if f.val == "" {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}
	if c.ReportInterval <= 0 || c.PresenceInterval <= 0 {
		return fmt.Errorf("intervals must be positive (report=%s, presence=%s)", c.ReportInterval, c.PresenceInterval)
	}
	if c.ReportHistoryLimit <= 0 || c.PresenceHistoryLimit <= 0 {
		return fmt.Errorf("history limits must be positive")
	}
	switch c.StateBackend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("unknown state backend %q", c.StateBackend)
	}
	return nil
}

// Load собирает конфиг из всех источников: args — аргументы без имени программы.
func Load(args []string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	fs := pflag.NewFlagSet("kstracker", pflag.ContinueOnError)
	configPath := fs.String("config", "", "path to YAML config file")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	statePath := fs.String("state", "", "path to state file or SQLite database")
	backend := fs.String("state-backend", "", "state backend: file or sqlite")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	path := *configPath
	if path == "" {
		path, _ = lookup("KSBOT_CONFIG")
	}
	if path != "" {
		if err := LoadFile(&cfg, path); err != nil {
			return cfg, err
		}
	}
	if err := ApplyEnv(&cfg, lookup); err != nil {
		return cfg, err
	}

	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *statePath != "" {
		cfg.StatePath = *statePath
	}
	if *backend != "" {
		cfg.StateBackend = *backend
	}
	return cfg, cfg.Validate()
}
