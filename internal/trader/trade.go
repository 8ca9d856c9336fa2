package trader

import (
	"time"

	"smcbot/internal/strategy"
)

const (
	TradeOpen   = "OPEN"
	TradeClosed = "CLOSED"
)

// Trade is one live or finished position tracked by the session.
type Trade struct {
	ID              string        `json:"id"`
	OrderID         string        `json:"order_id"`
	Symbol          string        `json:"symbol"`
	Side            strategy.Side `json:"side"`
	Entry           float64       `json:"entry_price"`
	StopLoss        float64       `json:"stop_loss"`
	TakeProfit      float64       `json:"take_profit"`
	Size            float64       `json:"size"`
	RiskAmount      float64       `json:"risk"`
	PotentialProfit float64       `json:"potential_profit"`
	PnL             float64       `json:"pnl"`
	Status          string        `json:"status"`
	OpenedAt        time.Time     `json:"opened_at"`
	ClosedAt        time.Time     `json:"closed_at,omitempty"`
}
