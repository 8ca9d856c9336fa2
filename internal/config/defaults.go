package config

import "strings"

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.App.Env) == "" {
		c.App.Env = "testnet"
	}
	if strings.TrimSpace(c.App.LogLevel) == "" {
		c.App.LogLevel = "info"
	}
	if strings.TrimSpace(c.App.HTTPAddr) == "" {
		c.App.HTTPAddr = ":5000"
	}
	if c.Kline.MaxCached <= 0 {
		c.Kline.MaxCached = 500
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		c.Store.Path = "data/smcbot.db"
	}

	if len(c.Trading.Symbols) == 0 {
		c.Trading.Symbols = []string{"BTCUSD", "ETHUSD"}
	}
	if strings.TrimSpace(c.Trading.Timeframe) == "" {
		c.Trading.Timeframe = "15m"
	}
	if c.Trading.CandleLimit <= 0 {
		c.Trading.CandleLimit = 200
	}
	if c.Trading.OrderBlockLookback <= 0 {
		c.Trading.OrderBlockLookback = 50
	}
	if c.Trading.MinCombinedConfidence <= 0 {
		c.Trading.MinCombinedConfidence = 0.65
	}

	if c.Risk.MaxRiskPerTrade <= 0 {
		c.Risk.MaxRiskPerTrade = 0.01
	}
	if c.Risk.MaxPositionSize <= 0 {
		c.Risk.MaxPositionSize = 0.05
	}
	if c.Risk.RewardRiskRatio <= 0 {
		c.Risk.RewardRiskRatio = 2.0
	}
	if c.Risk.MaxDrawdown <= 0 {
		c.Risk.MaxDrawdown = 0.15
	}
	if c.Risk.MaxOpenTrades <= 0 {
		c.Risk.MaxOpenTrades = 3
	}

	if c.Delta.TimeoutSeconds <= 0 {
		c.Delta.TimeoutSeconds = 10
	}
	if strings.TrimSpace(c.Delta.Testnet.RESTBaseURL) == "" {
		c.Delta.Testnet.RESTBaseURL = "https://testnet-api.delta.exchange"
	}
	if strings.TrimSpace(c.Delta.Live.RESTBaseURL) == "" {
		c.Delta.Live.RESTBaseURL = "https://api.delta.exchange"
	}
}
