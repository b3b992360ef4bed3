package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Symbols     []string `yaml:"symbols"`
		HistoryDays int      `yaml:"history_days"`
	} `yaml:"data_source"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Scoring struct {
		StartDate string `yaml:"start_date"`
	} `yaml:"scoring"`
	Backtest struct {
		Budget     float64 `yaml:"budget"`
		TrainStart string  `yaml:"train_start"`
		TrainEnd   string  `yaml:"train_end"`
		TestStart  string  `yaml:"test_start"`
		TestEnd    string  `yaml:"test_end"`
		StateFile  string  `yaml:"state_file"`
	} `yaml:"backtest"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.DataSource.Symbols = splitSymbols(v)
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SCORE_START_DATE"); v != "" {
		cfg.Scoring.StartDate = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if len(cfg.DataSource.Symbols) == 0 {
		cfg.DataSource.Symbols = []string{"AAPL", "MSFT", "AMZN", "NVDA", "GOOGL"}
	}
	if cfg.DataSource.HistoryDays == 0 {
		cfg.DataSource.HistoryDays = 730
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 22 * * 1-5"
	}
	if cfg.Scoring.StartDate == "" {
		cfg.Scoring.StartDate = "2022-01-01"
	}
	if cfg.Backtest.Budget == 0 {
		cfg.Backtest.Budget = 500000
	}
	if cfg.Backtest.TrainStart == "" {
		cfg.Backtest.TrainStart = "2022-01-01"
	}
	if cfg.Backtest.TrainEnd == "" {
		cfg.Backtest.TrainEnd = "2023-04-30"
	}
	if cfg.Backtest.TestStart == "" {
		cfg.Backtest.TestStart = "2023-05-01"
	}
	if cfg.Backtest.TestEnd == "" {
		cfg.Backtest.TestEnd = "2023-10-16"
	}
	if cfg.Backtest.StateFile == "" {
		cfg.Backtest.StateFile = "data/best_thresholds.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/signalrank.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if len(c.DataSource.Symbols) == 0 {
		return fmt.Errorf("data_source.symbols must not be empty")
	}
	if c.Backtest.Budget <= 0 {
		return fmt.Errorf("backtest.budget must be positive")
	}
	return nil
}

func splitSymbols(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
