package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	BotToken      string  `mapstructure:"bot_token"`
	StoreDriver   string  `mapstructure:"store_driver"`
	DatabasePath  string  `mapstructure:"database_path"`
	RedisAddr     string  `mapstructure:"redis_addr"`
	RedisPassword string  `mapstructure:"redis_password"`
	RedisDB       int     `mapstructure:"redis_db"`
	StartChips    float64 `mapstructure:"start_chips"`
	HouseChips    float64 `mapstructure:"house_chips"`
	DefaultBet    float64 `mapstructure:"default_bet"`
	MinBet        float64 `mapstructure:"min_bet"`
	MaxBet        float64 `mapstructure:"max_bet"`
	BlackjackPays float64 `mapstructure:"blackjack_pays"`
	TiesPush      bool    `mapstructure:"ties_push"`
	DeckSeed      int64   `mapstructure:"deck_seed"`
	LogLevel      string  `mapstructure:"log_level"`
}

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

var defaults = map[string]any{
	"bot_token":      "",
	"store_driver":   DriverSQLite,
	"database_path":  "./tablejack.db",
	"redis_addr":     "localhost:6379",
	"redis_password": "",
	"redis_db":       0,
	"start_chips":    1000.0,
	"house_chips":    100000.0,
	"default_bet":    100.0,
	"min_bet":        10.0,
	"max_bet":        10000.0,
	"blackjack_pays": 1.5,
	"ties_push":      false,
	"deck_seed":      0,
	"log_level":      "info",
}

// Load reads .env, then the environment, then an optional tablejack.yaml
// (or the file named by CONFIG_FILE). Environment wins over the file.
func Load() (*Config, error) {
	godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("tablejack")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverSQLite, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER %q is not one of sqlite, redis, memory", c.StoreDriver)
	}

	switch {
	case c.StartChips <= 0:
		return fmt.Errorf("START_CHIPS must be positive")
	case c.HouseChips <= 0:
		return fmt.Errorf("HOUSE_CHIPS must be positive")
	case c.MinBet <= 0:
		return fmt.Errorf("MIN_BET must be positive")
	case c.MaxBet != 0 && c.MaxBet < c.MinBet:
		return fmt.Errorf("MAX_BET %.2f is below MIN_BET %.2f", c.MaxBet, c.MinBet)
	case c.DefaultBet < c.MinBet || (c.MaxBet != 0 && c.DefaultBet > c.MaxBet):
		return fmt.Errorf("DEFAULT_BET %.2f is outside the table limits", c.DefaultBet)
	case c.BlackjackPays <= 0:
		return fmt.Errorf("BLACKJACK_PAYS must be positive")
	}
	return nil
}

func (c *Config) RequireBotToken() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is not set")
	}
	return nil
}
