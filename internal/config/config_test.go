package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, doc map[string]any) string {
	t.Helper()
	raw, err := yaml.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("minimal file gets full defaults", func(t *testing.T) {
		path := writeConfig(t, map[string]any{
			"app": map[string]any{"env": "testnet"},
		})
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "info", cfg.App.LogLevel)
		assert.Equal(t, ":5000", cfg.App.HTTPAddr)
		assert.Equal(t, 500, cfg.Kline.MaxCached)
		assert.Equal(t, "data/smcbot.db", cfg.Store.Path)
		assert.Equal(t, []string{"BTCUSD", "ETHUSD"}, cfg.Trading.Symbols)
		assert.Equal(t, "15m", cfg.Trading.Timeframe)
		assert.Equal(t, 200, cfg.Trading.CandleLimit)
		assert.Equal(t, 50, cfg.Trading.OrderBlockLookback)
		assert.Equal(t, 0.65, cfg.Trading.MinCombinedConfidence)
		assert.Equal(t, 0.01, cfg.Risk.MaxRiskPerTrade)
		assert.Equal(t, 0.05, cfg.Risk.MaxPositionSize)
		assert.Equal(t, 2.0, cfg.Risk.RewardRiskRatio)
		assert.Equal(t, 0.15, cfg.Risk.MaxDrawdown)
		assert.Equal(t, 3, cfg.Risk.MaxOpenTrades)
		assert.Equal(t, 10, cfg.Delta.TimeoutSeconds)
		assert.Equal(t, "https://testnet-api.delta.exchange", cfg.Delta.Testnet.RESTBaseURL)
		assert.Equal(t, "https://api.delta.exchange", cfg.Delta.Live.RESTBaseURL)
	})

	t.Run("explicit values survive defaulting", func(t *testing.T) {
		path := writeConfig(t, map[string]any{
			"app": map[string]any{"env": "live", "http_addr": ":8080", "log_level": "debug"},
			"trading": map[string]any{
				"symbols":                 []string{"SOLUSD"},
				"timeframe":               "1h",
				"candle_limit":            300,
				"order_block_lookback":    20,
				"min_combined_confidence": 0.7,
			},
			"risk": map[string]any{
				"max_risk_per_trade": 0.02,
				"max_open_trades":    5,
			},
		})
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "live", cfg.App.Env)
		assert.Equal(t, ":8080", cfg.App.HTTPAddr)
		assert.Equal(t, []string{"SOLUSD"}, cfg.Trading.Symbols)
		assert.Equal(t, "1h", cfg.Trading.Timeframe)
		assert.Equal(t, 300, cfg.Trading.CandleLimit)
		assert.Equal(t, 0.7, cfg.Trading.MinCombinedConfidence)
		assert.Equal(t, 0.02, cfg.Risk.MaxRiskPerTrade)
		assert.Equal(t, 5, cfg.Risk.MaxOpenTrades)
		// untouched sections still get defaults
		assert.Equal(t, 0.05, cfg.Risk.MaxPositionSize)
	})

	t.Run("invalid env is rejected", func(t *testing.T) {
		path := writeConfig(t, map[string]any{
			"app": map[string]any{"env": "staging"},
		})
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.env")
	})

	t.Run("unparseable timeframe is rejected", func(t *testing.T) {
		path := writeConfig(t, map[string]any{
			"trading": map[string]any{"timeframe": "15x"},
		})
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timeframe")
	})

	t.Run("out-of-range confidence is rejected", func(t *testing.T) {
		path := writeConfig(t, map[string]any{
			"trading": map[string]any{"min_combined_confidence": 1.4},
		})
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "min_combined_confidence")
	})

	t.Run("unknown market source is rejected", func(t *testing.T) {
		path := writeConfig(t, map[string]any{
			"market": map[string]any{
				"active_source": "kraken",
				"sources":       []map[string]any{{"name": "kraken", "enabled": true}},
			},
		})
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown source")
	})

	t.Run("credentials come from the environment", func(t *testing.T) {
		t.Setenv("DELTA_TESTNET_API_KEY", "env-key")
		t.Setenv("DELTA_TESTNET_SECRET", "env-secret")
		t.Setenv("DELTA_LIVE_API_KEY", "live-key")
		t.Setenv("DELTA_LIVE_SECRET", "live-secret")

		path := writeConfig(t, map[string]any{
			"delta": map[string]any{
				"testnet": map[string]any{"api_key": "file-key"},
			},
		})
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "env-key", cfg.Delta.Testnet.APIKey)
		assert.Equal(t, "env-secret", cfg.Delta.Testnet.APISecret)
		assert.Equal(t, "live-key", cfg.Delta.Live.APIKey)
		assert.Equal(t, "live-secret", cfg.Delta.Live.APISecret)
	})
}

func TestResolveActiveSource(t *testing.T) {
	t.Run("no sources falls back to delta", func(t *testing.T) {
		src := MarketConfig{}.ResolveActiveSource()
		assert.Equal(t, "delta", src.Name)
		assert.True(t, src.Enabled)
	})

	t.Run("picks the enabled source matching the name", func(t *testing.T) {
		m := MarketConfig{
			ActiveSource: "Binance",
			Sources: []MarketSource{
				{Name: "delta", Enabled: true},
				{Name: "binance", Enabled: true, RESTBaseURL: "https://fapi.binance.com"},
			},
		}
		src := m.ResolveActiveSource()
		assert.Equal(t, "binance", src.Name)
	})

	t.Run("disabled source is skipped", func(t *testing.T) {
		m := MarketConfig{
			ActiveSource: "binance",
			Sources: []MarketSource{
				{Name: "delta", Enabled: true},
				{Name: "binance", Enabled: false},
			},
		}
		src := m.ResolveActiveSource()
		assert.Equal(t, "delta", src.Name)
	})
}
