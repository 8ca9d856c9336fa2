package market

import "context"

// Source provides historical candles from one exchange.
type Source interface {
	FetchHistory(ctx context.Context, symbol, interval string, limit int) ([]Candle, error)

	Close() error
}
