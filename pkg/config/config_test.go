package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonasrmichel/jup-routes/pkg/jupiter"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"RPC_URL", "SOLANA_COMMITMENT", "JUPITER_API_URL", "JUPITER_ROUTE_MAP_URL", "PRICE_API_URL",
		"JUPITER_API_KEY", "ROUTE_MAX_HOPS", "ROUTE_SLIPPAGE_BPS", "ROUTE_WORKERS", "LOG_LEVEL",
		"LOG_PRETTY", "METRICS_ADDR", "SLACK_API_TOKEN", "SLACK_CHANNEL", "SLACK_ENABLED",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	clearEnv(t)
	c := LoadFromEnv()

	assert.Equal(t, "https://api.mainnet-beta.solana.com", c.Solana.RPCURL)
	assert.Equal(t, 100, c.Route.SlippageBps)
	assert.Equal(t, 1, c.Route.Workers)
	assert.Equal(t, -1, c.Route.MaxHops)
	assert.Equal(t, jupiter.DefaultBaseURL, c.Jupiter.BaseURL)
	assert.Equal(t, jupiter.DefaultTimeout, c.GetJupiterTimeout())
	assert.Zero(t, c.GetInterval())
	assert.Len(t, c.Tokens, 5)
	require.NoError(t, c.Validate())
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RPC_URL", "http://localhost:8899")
	t.Setenv("SOLANA_COMMITMENT", "finalized")
	t.Setenv("JUPITER_API_KEY", "k")
	t.Setenv("ROUTE_MAX_HOPS", "3")
	t.Setenv("ROUTE_SLIPPAGE_BPS", "50")
	t.Setenv("ROUTE_WORKERS", "notanumber")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "false")
	t.Setenv("METRICS_ADDR", ":9100")

	c := LoadFromEnv()
	assert.Equal(t, "http://localhost:8899", c.Solana.RPCURL)
	assert.Equal(t, "finalized", c.Solana.Commitment)
	assert.Equal(t, "k", c.Jupiter.APIKey)
	assert.Equal(t, 3, c.Route.MaxHops)
	assert.Equal(t, 50, c.Route.SlippageBps)
	assert.Equal(t, 1, c.Route.Workers, "unparsable values are ignored")
	assert.Equal(t, "debug", c.Logging.Level)
	assert.False(t, c.Logging.Pretty)
	assert.Equal(t, ":9100", c.Metrics.Addr)
	assert.False(t, c.Slack.Enabled)
}

func TestEnvOverrides_DirectOnlyHops(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROUTE_MAX_HOPS", "0")

	c := LoadFromEnv()
	assert.Equal(t, 0, c.Route.MaxHops)
	require.NoError(t, c.Validate())
}

func TestEnvOverrides_Slack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SLACK_API_TOKEN", "xoxb")
	t.Setenv("SLACK_CHANNEL", "#routes")

	c := LoadFromEnv()
	assert.Equal(t, "xoxb", c.Slack.APIToken)
	assert.Equal(t, "#routes", c.Slack.Channel)
	assert.True(t, c.Slack.Enabled)

	t.Setenv("SLACK_ENABLED", "false")
	assert.False(t, LoadFromEnv().Slack.Enabled)
}

func TestLoadFromFile_JSON(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROUTE_WORKERS", "8")

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"route":{"max_hops":2,"interval_ms":5000},"logging":{"level":"warn"}}`), 0o644))

	c, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Route.MaxHops)
	assert.Equal(t, 5*time.Second, c.GetInterval())
	assert.Equal(t, "warn", c.Logging.Level)
	assert.Equal(t, 100, c.Route.SlippageBps, "defaults survive partial files")
	assert.Equal(t, 8, c.Route.Workers, "env wins over file")
}

func TestLoadFromFile_YAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
route:
  max_hops: 4
  ui_amount: 2.5
solana:
  commitment: processed
tokens:
  - symbol: JUP
    mint: JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN
    decimals: 6
`), 0o644))

	c, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Route.MaxHops)
	assert.Equal(t, 2.5, c.Route.UIAmount)
	assert.Equal(t, "processed", c.Solana.Commitment)
	require.Len(t, c.Tokens, 1)
	assert.Equal(t, "JUP", c.Tokens[0].Symbol)
	require.NoError(t, c.Validate())
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("route: [unclosed"), 0o644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestSaveToFile_RoundTrip(t *testing.T) {
	clearEnv(t)
	c := DefaultConfig()
	c.Route.MaxHops = 3
	path := filepath.Join(t.TempDir(), "saved.json")
	require.NoError(t, c.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestResolveMint(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, jupiter.USDCMint, c.ResolveMint("usdc"))
	assert.Equal(t, jupiter.SOLMint, c.ResolveMint(" SOL "))
	assert.Equal(t, "SomethingElse", c.ResolveMint("SomethingElse"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative hops", func(c *Config) { c.Route.MaxHops = -2 }},
		{"slippage", func(c *Config) { c.Route.SlippageBps = 20000 }},
		{"amount", func(c *Config) { c.Route.UIAmount = 0 }},
		{"workers", func(c *Config) { c.Route.Workers = 0 }},
		{"interval", func(c *Config) { c.Route.IntervalMs = 10 }},
		{"commitment", func(c *Config) { c.Solana.Commitment = "recent" }},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"token decimals", func(c *Config) { c.Tokens[0].Decimals = 300 }},
		{"token mint", func(c *Config) { c.Tokens[0].Mint = "not a mint" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
