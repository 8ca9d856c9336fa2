package config

import "strings"

// Config is the main configuration carrier for the bot.
type Config struct {
	App     AppConfig     `toml:"app"`
	Market  MarketConfig  `toml:"market"`
	Delta   DeltaConfig   `toml:"delta"`
	Kline   KlineConfig   `toml:"kline"`
	Trading TradingConfig `toml:"trading"`
	Risk    RiskConfig    `toml:"risk"`
	Store   StoreConfig   `toml:"store"`
}

type AppConfig struct {
	Env      string `toml:"env"` // "testnet" | "live"
	LogLevel string `toml:"log_level"`
	HTTPAddr string `toml:"http_addr"`
	LogPath  string `toml:"log_path"`
}

type KlineConfig struct {
	MaxCached int `toml:"max_cached"`
}

type StoreConfig struct {
	Path string `toml:"path"`
}

// TradingConfig controls which symbols are evaluated and how often.
type TradingConfig struct {
	Symbols               []string `toml:"symbols"`
	Timeframe             string   `toml:"timeframe"`
	CandleLimit           int      `toml:"candle_limit"`
	OrderBlockLookback    int      `toml:"order_block_lookback"`
	MinCombinedConfidence float64  `toml:"min_combined_confidence"`
}

// RiskConfig mirrors strategy.RiskPolicy as configuration input. It may be
// hot-reloaded between evaluation cycles; the running session swaps it in
// atomically.
type RiskConfig struct {
	MaxRiskPerTrade float64 `toml:"max_risk_per_trade"`
	MaxPositionSize float64 `toml:"max_position_size"`
	RewardRiskRatio float64 `toml:"reward_risk_ratio"`
	MaxDrawdown     float64 `toml:"max_drawdown"`
	MaxOpenTrades   int     `toml:"max_open_trades"`
}

type MarketConfig struct {
	ActiveSource string         `toml:"active_source"`
	Sources      []MarketSource `toml:"sources"`
}

type MarketSource struct {
	Name        string `toml:"name"`
	Enabled     bool   `toml:"enabled"`
	RESTBaseURL string `toml:"rest_base_url"`
}

func (m MarketConfig) ResolveActiveSource() MarketSource {
	if len(m.Sources) == 0 {
		return MarketSource{Name: "delta", Enabled: true}
	}
	active := strings.ToLower(strings.TrimSpace(m.ActiveSource))
	var fallback MarketSource
	for _, src := range m.Sources {
		if fallback.Name == "" {
			fallback = src
		}
		if !src.Enabled {
			continue
		}
		if active == "" || strings.ToLower(src.Name) == active {
			return src
		}
	}
	return fallback
}

// DeltaConfig carries both environments; App.Env picks which one is active.
type DeltaConfig struct {
	Testnet        DeltaEnv `toml:"testnet"`
	Live           DeltaEnv `toml:"live"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

type DeltaEnv struct {
	RESTBaseURL string `toml:"rest_base_url"`
	APIKey      string `toml:"api_key"`
	APISecret   string `toml:"api_secret"`
}
