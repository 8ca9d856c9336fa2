package app

import (
	"context"

	"smcbot/internal/gateway/exchange"
	"smcbot/internal/market"
)

// switchableExchange routes every call to the testnet or live client
// depending on the current session environment, so an environment switch
// needs no client rebuild.
type switchableExchange struct {
	testnet exchange.Exchange
	live    exchange.Exchange
	env     func() string
}

var _ exchange.Exchange = (*switchableExchange)(nil)

func (s *switchableExchange) active() exchange.Exchange {
	if s.env() == "live" {
		return s.live
	}
	return s.testnet
}

func (s *switchableExchange) FetchHistory(ctx context.Context, symbol, interval string, limit int) ([]market.Candle, error) {
	return s.active().FetchHistory(ctx, symbol, interval, limit)
}

func (s *switchableExchange) WalletEquity(ctx context.Context) (float64, error) {
	return s.active().WalletEquity(ctx)
}

func (s *switchableExchange) Positions(ctx context.Context) ([]exchange.Position, error) {
	return s.active().Positions(ctx)
}

func (s *switchableExchange) PlaceOrder(ctx context.Context, req exchange.OrderRequest) (exchange.OrderResult, error) {
	return s.active().PlaceOrder(ctx, req)
}

func (s *switchableExchange) CancelOrder(ctx context.Context, orderID string) error {
	return s.active().CancelOrder(ctx, orderID)
}

func (s *switchableExchange) ProductID(ctx context.Context, symbol string) (int64, error) {
	return s.active().ProductID(ctx, symbol)
}

func (s *switchableExchange) Close() error {
	errTest := s.testnet.Close()
	errLive := s.live.Close()
	if errTest != nil {
		return errTest
	}
	return errLive
}
