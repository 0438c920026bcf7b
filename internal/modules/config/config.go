package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDirENV      = "CONFIG_DIR"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
	coingeckoKeyENV   = "COINGECKO_API_KEY"
	logLevelENV       = "LOG_LEVEL"
)

// Хранилища вотчлиста.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StorePG     = "pg"
)

// Config ...
type Config struct {
	Telegram struct {
		Token string `mapstructure:"token"`
		Debug bool   `mapstructure:"debug"`
	} `mapstructure:"telegram"`
	DB  string `mapstructure:"db_dsn"`
	Log struct {
		Level string `mapstructure:"level"` // debug | info | warn | error
	} `mapstructure:"log"`
	Service struct {
		Name     string `mapstructure:"name"`
		HTTPAddr string `mapstructure:"http_addr"`
	} `mapstructure:"service"`

	Scheduler struct {
		// Пауза между проходами по вотчлисту.
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"scheduler"`

	Market struct {
		BaseURL      string        `mapstructure:"base_url"`
		APIKey       string        `mapstructure:"api_key"`
		VsCurrency   string        `mapstructure:"vs_currency"`
		Days         int           `mapstructure:"days"` // 2 дня = 96 получасовых свечей
		FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	} `mapstructure:"market"`

	Watchlist struct {
		Store    string   `mapstructure:"store"` // memory | file | pg
		FilePath string   `mapstructure:"file_path"`
		Initial  []string `mapstructure:"initial"`
	} `mapstructure:"watchlist"`

	Tracing struct {
		Enabled bool   `mapstructure:"enabled"`
		Host    string `mapstructure:"host"`
		Port    int    `mapstructure:"port"`
	} `mapstructure:"tracing"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("service.name", "signal_bot")
	v.SetDefault("service.http_addr", ":8080")
	v.SetDefault("scheduler.interval", "60s")
	v.SetDefault("market.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("market.vs_currency", "usd")
	v.SetDefault("market.days", 2)
	v.SetDefault("market.fetch_timeout", "10s")
	v.SetDefault("watchlist.store", StoreMemory)
	v.SetDefault("watchlist.file_path", "data/watchlist.yaml")
	v.SetDefault("tracing.host", "localhost")
	v.SetDefault("tracing.port", 6831)
}

func NewConfig() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	configDir := os.Getenv(configDirENV)
	if configDir == "" {
		configDir = "configs"
	}

	config, err := Load(configDir + "/" + configFileName)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Load читает YAML и накладывает переменные окружения.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to decode config file")
	}

	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		config.DB = dsn
	}
	if key := os.Getenv(coingeckoKeyENV); key != "" {
		config.Market.APIKey = key
	}
	if lvl := os.Getenv(logLevelENV); lvl != "" {
		config.Log.Level = lvl
	}

	config.Watchlist.Store = strings.ToLower(strings.TrimSpace(config.Watchlist.Store))
	return &config, nil
}

func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required (%s or telegram.token)", tokenTelegramENV)
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be positive, got %s", c.Scheduler.Interval)
	}
	if c.Market.FetchTimeout <= 0 {
		return fmt.Errorf("market.fetch_timeout must be positive, got %s", c.Market.FetchTimeout)
	}
	if c.Market.Days <= 0 {
		return fmt.Errorf("market.days must be positive, got %d", c.Market.Days)
	}
	switch c.Watchlist.Store {
	case StoreMemory, StoreFile:
	case StorePG:
		if c.DB == "" {
			return fmt.Errorf("watchlist.store=pg requires db_dsn (%s)", databaseDSN)
		}
	default:
		return fmt.Errorf("unknown watchlist.store %q", c.Watchlist.Store)
	}
	return nil
}
