// Package config provides configuration management for the route scout.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/jonasrmichel/jup-routes/pkg/jupiter"
	"github.com/jonasrmichel/jup-routes/pkg/solana"
)

// Config holds the complete scout configuration.
type Config struct {
	// Route search settings
	Route RouteSettings `json:"route" yaml:"route"`

	// Upstream endpoints
	Solana  SolanaSettings  `json:"solana" yaml:"solana"`
	Jupiter JupiterSettings `json:"jupiter" yaml:"jupiter"`

	// Well-known tokens; decimals listed here skip the RPC lookup
	Tokens []TokenSettings `json:"tokens" yaml:"tokens"`

	Logging LoggingSettings `json:"logging" yaml:"logging"`
	Metrics MetricsSettings `json:"metrics" yaml:"metrics"`
	Slack   SlackSettings   `json:"slack" yaml:"slack"`
}

// RouteSettings holds route-search configuration.
type RouteSettings struct {
	MaxHops     int     `json:"max_hops" yaml:"max_hops"` // -1 = ask on stdin
	SlippageBps int     `json:"slippage_bps" yaml:"slippage_bps"`
	UIAmount    float64 `json:"ui_amount" yaml:"ui_amount"` // Nominal input per hop, in display units
	Workers     int     `json:"workers" yaml:"workers"`
	IntervalMs  int     `json:"interval_ms" yaml:"interval_ms"` // 0 = run once
}

// SolanaSettings holds Solana RPC configuration.
type SolanaSettings struct {
	RPCURL     string `json:"rpc_url" yaml:"rpc_url"`
	Commitment string `json:"commitment" yaml:"commitment"`
}

// JupiterSettings holds Jupiter API configuration.
type JupiterSettings struct {
	BaseURL     string `json:"base_url" yaml:"base_url"`
	RouteMapURL string `json:"route_map_url" yaml:"route_map_url"`
	PriceURL    string `json:"price_url" yaml:"price_url"`
	APIKey      string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	TimeoutSecs int    `json:"timeout_secs" yaml:"timeout_secs"`
}

// TokenSettings holds configuration for a token.
type TokenSettings struct {
	Symbol   string `json:"symbol" yaml:"symbol"`
	Mint     string `json:"mint" yaml:"mint"`
	Decimals int    `json:"decimals" yaml:"decimals"`
}

// LoggingSettings holds logger configuration.
type LoggingSettings struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// MetricsSettings holds the Prometheus endpoint configuration.
type MetricsSettings struct {
	Addr string `json:"addr" yaml:"addr"` // empty = disabled
}

// SlackSettings holds configuration for route alerts.
type SlackSettings struct {
	APIToken string `json:"api_token,omitempty" yaml:"api_token,omitempty"`
	Channel  string `json:"channel" yaml:"channel"`
	Enabled  bool   `json:"enabled" yaml:"enabled"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	cfg := &Config{
		Route: RouteSettings{
			MaxHops:     -1,
			SlippageBps: 100, // 1%
			UIAmount:    1.0,
			Workers:     1,
			IntervalMs:  0,
		},
		Solana: SolanaSettings{
			RPCURL:     "https://api.mainnet-beta.solana.com",
			Commitment: "confirmed",
		},
		Jupiter: JupiterSettings{
			BaseURL:     jupiter.DefaultBaseURL,
			RouteMapURL: jupiter.DefaultRouteMapURL,
			PriceURL:    jupiter.DefaultPriceURL,
			TimeoutSecs: int(jupiter.DefaultTimeout / time.Second),
		},
		Logging: LoggingSettings{
			Level:  "info",
			Pretty: true,
		},
	}

	known := jupiter.DefaultTokens()
	for _, symbol := range []string{"SOL", "USDC", "USDT", "BONK", "WIF"} {
		t := known[symbol]
		cfg.Tokens = append(cfg.Tokens, TokenSettings{Symbol: t.Symbol, Mint: t.Mint, Decimals: t.Decimals})
	}

	return cfg
}

// LoadFromFile loads configuration from a JSON or YAML file, chosen by
// extension.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	return cfg
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	setString(&c.Solana.RPCURL, "RPC_URL")
	setString(&c.Solana.Commitment, "SOLANA_COMMITMENT")

	setString(&c.Jupiter.BaseURL, "JUPITER_API_URL")
	setString(&c.Jupiter.RouteMapURL, "JUPITER_ROUTE_MAP_URL")
	setString(&c.Jupiter.PriceURL, "PRICE_API_URL")
	setString(&c.Jupiter.APIKey, "JUPITER_API_KEY")

	setInt(&c.Route.MaxHops, "ROUTE_MAX_HOPS")
	setInt(&c.Route.SlippageBps, "ROUTE_SLIPPAGE_BPS")
	setInt(&c.Route.Workers, "ROUTE_WORKERS")

	setString(&c.Logging.Level, "LOG_LEVEL")
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		c.Logging.Pretty = strings.ToLower(v) == "true" || v == "1"
	}

	setString(&c.Metrics.Addr, "METRICS_ADDR")

	// Slack token only from env
	setString(&c.Slack.APIToken, "SLACK_API_TOKEN")
	setString(&c.Slack.Channel, "SLACK_CHANNEL")
	if c.Slack.APIToken != "" && c.Slack.Channel != "" && os.Getenv("SLACK_ENABLED") != "false" {
		c.Slack.Enabled = true
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = val
		}
	}
}

// SaveToFile saves the configuration to a JSON file.
func (c *Config) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetInterval returns the repeat interval as a duration.
func (c *Config) GetInterval() time.Duration {
	return time.Duration(c.Route.IntervalMs) * time.Millisecond
}

// GetJupiterTimeout returns the Jupiter HTTP timeout as a duration.
func (c *Config) GetJupiterTimeout() time.Duration {
	return time.Duration(c.Jupiter.TimeoutSecs) * time.Second
}

// ResolveMint maps a configured token symbol (case-insensitive) to its mint.
// Anything else is returned unchanged.
func (c *Config) ResolveMint(s string) string {
	s = strings.TrimSpace(s)
	for _, t := range c.Tokens {
		if strings.EqualFold(t.Symbol, s) {
			return t.Mint
		}
	}
	return s
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Route.MaxHops < -1 {
		return fmt.Errorf("route.max_hops must be -1 (ask) or a non-negative bound")
	}

	if c.Route.SlippageBps < 0 || c.Route.SlippageBps > 10000 {
		return fmt.Errorf("route.slippage_bps must be between 0 and 10000")
	}

	if c.Route.UIAmount <= 0 {
		return fmt.Errorf("route.ui_amount must be positive")
	}

	if c.Route.Workers < 1 {
		return fmt.Errorf("route.workers must be at least 1")
	}

	if c.Route.IntervalMs != 0 && c.Route.IntervalMs < 1000 {
		return fmt.Errorf("route.interval_ms must be 0 or at least 1000 (1 second)")
	}

	switch c.Solana.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("unknown solana.commitment %q", c.Solana.Commitment)
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %w", err)
	}

	for _, t := range c.Tokens {
		if !solana.IsValidAddress(t.Mint) {
			return fmt.Errorf("token %s: invalid mint %q", t.Symbol, t.Mint)
		}
		if t.Decimals < 0 || t.Decimals > 255 {
			return fmt.Errorf("token %s: decimals out of range", t.Symbol)
		}
	}

	return nil
}
