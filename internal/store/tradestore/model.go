package tradestore

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

// TradeModel is the persisted form of one trade, opened through closed.
// Signal keeps the originating signal snapshot for later inspection.
type TradeModel struct {
	ID              string         `gorm:"primaryKey;size:64" json:"id"`
	OrderID         string         `gorm:"size:64;index" json:"order_id"`
	Symbol          string         `gorm:"size:32;index" json:"symbol"`
	Side            string         `gorm:"size:8" json:"side"`
	Environment     string         `gorm:"size:16" json:"environment"`
	Entry           float64        `json:"entry"`
	StopLoss        float64        `json:"stop_loss"`
	TakeProfit      float64        `json:"take_profit"`
	Size            float64        `json:"size"`
	RiskAmount      float64        `json:"risk_amount"`
	PotentialProfit float64        `json:"potential_profit"`
	PnL             float64        `gorm:"column:pnl" json:"pnl"`
	Status          string         `gorm:"size:16;index" json:"status"`
	Signal          datatypes.JSON `json:"signal,omitempty"`
	OpenedAt        time.Time      `json:"opened_at"`
	ClosedAt        *time.Time     `json:"closed_at,omitempty"`
}

func (TradeModel) TableName() string { return "trades" }
