package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Tickers  []string `yaml:"tickers"`
	Analysts []string `yaml:"analysts"`

	// Per-analyst parameter overrides merged into registry defaults at
	// creation time. Keys must be parameters the analyst declares.
	AnalystParams map[string]map[string]float64 `yaml:"analyst_params"`

	Portfolio struct {
		Cash      float64        `yaml:"cash"`
		Positions map[string]int `yaml:"positions"`
	} `yaml:"portfolio"`

	Decision struct {
		Mode        string `yaml:"mode"` // MAJORITY or LLM
		MaxPosition int    `yaml:"max_position"`
	} `yaml:"decision"`

	Risk struct {
		MaxPositionSize  float64 `yaml:"max_position_size"`
		MaxPortfolioRisk float64 `yaml:"max_portfolio_risk"`
		StopLoss         float64 `yaml:"stop_loss"`
	} `yaml:"risk"`

	LLM struct {
		Provider    string  `yaml:"provider"` // OPENAI, CLAUDE or NONE
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
		System      string  `yaml:"system"`
	} `yaml:"llm"`

	Data struct {
		BaseURL        string `yaml:"base_url"`
		APIKeyEnv      string `yaml:"api_key_env"`
		MaxRetries     int    `yaml:"max_retries"`
		BackoffSeconds int    `yaml:"backoff_seconds"`
		RateBurst      int    `yaml:"rate_burst"`
		RateIntervalMs int    `yaml:"rate_interval_ms"`
	} `yaml:"data"`

	News struct {
		ScrapeFallback bool `yaml:"scrape_fallback"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
	} `yaml:"news"`
}

func (c *Config) Validate() error {
	if len(c.Analysts) == 0 {
		return errors.New("analysts cannot be empty")
	}
	if c.Decision.Mode != "MAJORITY" && c.Decision.Mode != "LLM" {
		return fmt.Errorf("invalid decision.mode '%s': must be 'MAJORITY' or 'LLM'", c.Decision.Mode)
	}
	if c.Decision.MaxPosition <= 0 {
		return fmt.Errorf("decision.max_position must be positive, got %d", c.Decision.MaxPosition)
	}
	if c.Portfolio.Cash < 0 {
		return fmt.Errorf("portfolio.cash cannot be negative, got %.2f", c.Portfolio.Cash)
	}
	if c.Risk.MaxPositionSize <= 0 {
		return fmt.Errorf("risk.max_position_size must be positive, got %.2f", c.Risk.MaxPositionSize)
	}
	if c.Risk.StopLoss < 0 || c.Risk.StopLoss > 1 {
		return fmt.Errorf("risk.stop_loss must be between 0-1, got %.2f", c.Risk.StopLoss)
	}
	if c.Data.MaxRetries < 0 {
		return fmt.Errorf("data.max_retries cannot be negative, got %d", c.Data.MaxRetries)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := defaults()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaults returns a config pre-filled so a minimal yaml file still
// validates.
func defaults() *Config {
	cfg := &Config{}
	cfg.Analysts = []string{
		"fundamentals", "warren_buffett", "ben_graham",
		"bill_ackman", "sentiment", "technicals", "risk_manager",
	}
	cfg.Portfolio.Cash = 1_000_000
	cfg.Decision.Mode = "MAJORITY"
	cfg.Decision.MaxPosition = 100
	cfg.Risk.MaxPositionSize = 100_000
	cfg.Risk.MaxPortfolioRisk = 0.20
	cfg.Risk.StopLoss = 0.15
	cfg.LLM.Provider = "NONE"
	cfg.LLM.MaxTokens = 1024
	cfg.Data.BaseURL = "https://api.polygon.io"
	cfg.Data.APIKeyEnv = "POLYGON_API_KEY"
	cfg.Data.MaxRetries = 5
	cfg.Data.BackoffSeconds = 2
	cfg.Data.RateBurst = 5
	cfg.Data.RateIntervalMs = 1000
	cfg.News.TimeoutSeconds = 10
	return cfg
}
