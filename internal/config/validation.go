package config

import (
	"fmt"
	"strings"

	"smcbot/internal/scheduler"
)

func validate(c *Config) error {
	if err := c.App.validate(); err != nil {
		return err
	}
	if err := c.Trading.validate(); err != nil {
		return err
	}
	if err := c.Risk.validate(); err != nil {
		return err
	}
	if err := c.Market.validate(); err != nil {
		return err
	}
	return nil
}

func (a AppConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(a.Env)) {
	case "testnet", "live":
		return nil
	default:
		return fmt.Errorf("app.env must be testnet or live, got %q", a.Env)
	}
}

func (t TradingConfig) validate() error {
	if len(t.Symbols) == 0 {
		return fmt.Errorf("trading.symbols requires at least one symbol")
	}
	for _, s := range t.Symbols {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("trading.symbols contains an empty symbol")
		}
	}
	if _, ok := scheduler.ParseIntervalDuration(t.Timeframe); !ok {
		return fmt.Errorf("trading.timeframe %q is not a valid interval", t.Timeframe)
	}
	if t.OrderBlockLookback < 0 {
		return fmt.Errorf("trading.order_block_lookback must be >= 0, got %d", t.OrderBlockLookback)
	}
	if t.MinCombinedConfidence < 0 || t.MinCombinedConfidence > 1 {
		return fmt.Errorf("trading.min_combined_confidence must be in [0,1], got %v", t.MinCombinedConfidence)
	}
	return nil
}

func (r RiskConfig) validate() error {
	if r.MaxRiskPerTrade <= 0 || r.MaxRiskPerTrade > 1 {
		return fmt.Errorf("risk.max_risk_per_trade must be in (0,1], got %v", r.MaxRiskPerTrade)
	}
	if r.MaxPositionSize < 0 || r.MaxPositionSize > 1 {
		return fmt.Errorf("risk.max_position_size must be in [0,1], got %v", r.MaxPositionSize)
	}
	if r.RewardRiskRatio < 0 {
		return fmt.Errorf("risk.reward_risk_ratio must be >= 0, got %v", r.RewardRiskRatio)
	}
	if r.MaxDrawdown < 0 || r.MaxDrawdown > 1 {
		return fmt.Errorf("risk.max_drawdown must be in [0,1], got %v", r.MaxDrawdown)
	}
	if r.MaxOpenTrades < 0 {
		return fmt.Errorf("risk.max_open_trades must be >= 0, got %d", r.MaxOpenTrades)
	}
	return nil
}

func (m MarketConfig) validate() error {
	for _, src := range m.Sources {
		name := strings.ToLower(strings.TrimSpace(src.Name))
		switch name {
		case "delta", "binance":
		default:
			return fmt.Errorf("market.sources contains unknown source %q", src.Name)
		}
	}
	return nil
}
