package strategy

import "fmt"

// RiskPolicy bounds what a single evaluation cycle is allowed to commit.
// The policy is read-only to the strategy; callers own mutation and must
// not update it mid-call.
type RiskPolicy struct {
	MaxRiskPerTrade float64 `json:"max_risk_per_trade"`
	MaxPositionSize float64 `json:"max_position_size"`
	RewardRiskRatio float64 `json:"reward_risk_ratio"`
	MaxDrawdown     float64 `json:"max_drawdown"`
	MaxOpenTrades   int     `json:"max_open_trades"`
}

func (p RiskPolicy) Validate() error {
	if p.MaxRiskPerTrade <= 0 || p.MaxRiskPerTrade > 1 {
		return fmt.Errorf("risk policy: max_risk_per_trade must be in (0,1], got %v", p.MaxRiskPerTrade)
	}
	if p.MaxPositionSize < 0 || p.MaxPositionSize > 1 {
		return fmt.Errorf("risk policy: max_position_size must be in [0,1], got %v", p.MaxPositionSize)
	}
	if p.RewardRiskRatio < 0 {
		return fmt.Errorf("risk policy: reward_risk_ratio must be >= 0, got %v", p.RewardRiskRatio)
	}
	if p.MaxDrawdown < 0 || p.MaxDrawdown > 1 {
		return fmt.Errorf("risk policy: max_drawdown must be in [0,1], got %v", p.MaxDrawdown)
	}
	if p.MaxOpenTrades < 0 {
		return fmt.Errorf("risk policy: max_open_trades must be >= 0, got %d", p.MaxOpenTrades)
	}
	return nil
}
