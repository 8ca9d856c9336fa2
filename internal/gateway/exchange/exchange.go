// Package exchange defines the trading-side boundary of the bot. Market
// data flows through market.Source; everything that touches the account
// (balance, positions, orders) goes through Exchange.
package exchange

import (
	"context"

	"smcbot/internal/market"
)

type Position struct {
	Symbol      string  `json:"symbol"`
	Size        float64 `json:"size"`
	EntryPrice  float64 `json:"entry_price"`
	RealizedPnL float64 `json:"realized_pnl"`
}

type OrderRequest struct {
	ProductID int64   `json:"product_id"`
	Side      string  `json:"side"`
	Size      float64 `json:"size"`
	OrderType string  `json:"order_type"`
	Price     float64 `json:"price,omitempty"`
}

type OrderResult struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

type Exchange interface {
	market.Source

	WalletEquity(ctx context.Context) (float64, error)
	Positions(ctx context.Context) ([]Position, error)
	PlaceOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
	CancelOrder(ctx context.Context, orderID string) error
	ProductID(ctx context.Context, symbol string) (int64, error)
}
