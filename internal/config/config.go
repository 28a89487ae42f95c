// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/clawdkrab/polymarket-signal-bot/internal/feed"
	"github.com/clawdkrab/polymarket-signal-bot/internal/risk"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Feed configures the live stream provider and the REST candle source used
// to seed price history on startup.
type Feed struct {
	Provider       string       `yaml:"provider"`
	Assets         []feed.Asset `yaml:"assets"`
	BaseURLs       []string     `yaml:"base_urls"`
	Interval       string       `yaml:"interval"`
	SeedLimit      int          `yaml:"seed_limit"`
	PollIntervalMS int          `yaml:"poll_interval_ms"`
}

// StrategyParams groups tunable knobs shared by all scorer variants.
type StrategyParams struct {
	MinHistory int     `yaml:"min_history"`
	Threshold  float64 `yaml:"threshold"`
}

// Strategy specifies which scorer variant is active along with the parameter bundle.
type Strategy struct {
	Mode   string         `yaml:"mode"`
	Params StrategyParams `yaml:"params"`
}

// Risk couples the starting bankroll with the sizing guard-rails.
type Risk struct {
	InitialCapital float64     `yaml:"initial_capital"`
	Limits         risk.Limits `yaml:"limits"`
}

// Publisher configures the signal sinks: latest snapshot, JSONL history, and
// the optional Redis mirror.
type Publisher struct {
	LatestPath    string `yaml:"latest_path"`
	HistoryPath   string `yaml:"history_path"`
	ReadinessPath string `yaml:"readiness_path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisKey      string `yaml:"redis_key"`
	EmitIntervalS int    `yaml:"emit_interval_secs"`
	FinalizeLeadS int    `yaml:"finalize_lead_secs"`
}

// EmitInterval returns the regular emission cadence with a sane default.
func (p Publisher) EmitInterval() time.Duration {
	if p.EmitIntervalS <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.EmitIntervalS) * time.Second
}

// FinalizeLead returns how long before a window opens the finalize batch
// is written.
func (p Publisher) FinalizeLead() time.Duration {
	if p.FinalizeLeadS <= 0 {
		return 70 * time.Second
	}
	return time.Duration(p.FinalizeLeadS) * time.Second
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App       App       `yaml:"app"`
	Feed      Feed      `yaml:"feed"`
	Strategy  Strategy  `yaml:"strategy"`
	Risk      Risk      `yaml:"risk"`
	Publisher Publisher `yaml:"publisher"`
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
