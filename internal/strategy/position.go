package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"smcbot/internal/analysis/smc"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Confidence gates of the sizer. Anything below MinActionableConfidence is
// not tradeable at all; only StrongConfidence and above may source a stop
// from an order block, so the band in between composes a signal but never
// sizes a position.
const (
	MinActionableConfidence = 0.6
	StrongConfidence        = 0.7
)

// TradePlan is a fully specified, risk-bounded trade.
type TradePlan struct {
	Side            Side    `json:"side"`
	Entry           float64 `json:"entry"`
	StopLoss        float64 `json:"stop_loss"`
	TakeProfit      float64 `json:"take_profit"`
	Size            float64 `json:"size"`
	RiskAmount      float64 `json:"risk_amount"`
	PotentialProfit float64 `json:"potential_profit"`
}

// CalculatePosition turns a signal into a trade plan under the given policy,
// or declines with (nil, nil). Entry and stop come from the latest order
// block: a bullish block buys its high and stops at its low, a bearish block
// sells its low and stops at its high. Size is risk_amount/stop_distance,
// capped so the position never exceeds policy.MaxPositionSize of equity;
// after capping, risk_amount is recomputed so size*stop_distance still
// equals the risked amount.
func CalculatePosition(signal Signal, equity float64, policy RiskPolicy) (*TradePlan, error) {
	if equity < 0 {
		return nil, fmt.Errorf("%w: negative equity %v", ErrInvalidParameter, equity)
	}
	if signal.Confidence < MinActionableConfidence {
		return nil, nil
	}
	block, ok := signal.LatestBlock()
	if !ok {
		return nil, nil
	}
	if signal.Confidence < StrongConfidence {
		return nil, nil
	}

	var side Side
	var entry, stop float64
	if block.Kind == smc.BlockBullish {
		side, entry, stop = SideBuy, block.High, block.Low
	} else {
		side, entry, stop = SideSell, block.Low, block.High
	}

	entryDec := decimal.NewFromFloat(entry)
	stopDec := decimal.NewFromFloat(stop)
	stopDistance := entryDec.Sub(stopDec).Abs()
	if stopDistance.IsZero() {
		return nil, fmt.Errorf("%w: order block at %d has zero range", ErrDegenerateStop, block.Time)
	}

	equityDec := decimal.NewFromFloat(equity)
	riskAmount := equityDec.Mul(decimal.NewFromFloat(policy.MaxRiskPerTrade))
	size := riskAmount.Div(stopDistance)

	if policy.MaxPositionSize > 0 && entryDec.IsPositive() {
		maxUnits := equityDec.Mul(decimal.NewFromFloat(policy.MaxPositionSize)).Div(entryDec)
		if size.GreaterThan(maxUnits) {
			size = maxUnits
			riskAmount = size.Mul(stopDistance)
		}
	}

	rr := decimal.NewFromFloat(policy.RewardRiskRatio)
	takeProfit := entryDec.Add(entryDec.Sub(stopDec).Mul(rr))
	potential := size.Mul(takeProfit.Sub(entryDec).Abs())

	return &TradePlan{
		Side:            side,
		Entry:           entry,
		StopLoss:        stop,
		TakeProfit:      decToFloat(takeProfit),
		Size:            decToFloat(size),
		RiskAmount:      decToFloat(riskAmount),
		PotentialProfit: decToFloat(potential),
	}, nil
}

func decToFloat(val decimal.Decimal) float64 {
	f, _ := val.Float64()
	return f
}
