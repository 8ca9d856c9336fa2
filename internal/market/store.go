package market

import (
	"context"
	"sync"
)

type KlineStore interface {
	Get(ctx context.Context, symbol, interval string) ([]Candle, error)
	Set(ctx context.Context, symbol, interval string, klines []Candle) error
	Put(ctx context.Context, symbol, interval string, klines []Candle, max int) error
}

// MemoryStore keeps candle series in memory, keyed by symbol+interval.
type MemoryStore struct {
	mu     sync.RWMutex
	series map[string][]Candle
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{series: make(map[string][]Candle)}
}

func storeKey(symbol, interval string) string {
	return symbol + "|" + interval
}

func (s *MemoryStore) Get(_ context.Context, symbol, interval string) ([]Candle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.series[storeKey(symbol, interval)]
	if len(src) == 0 {
		return nil, nil
	}
	out := make([]Candle, len(src))
	copy(out, src)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, symbol, interval string, klines []Candle) error {
	cp := make([]Candle, len(klines))
	copy(cp, klines)
	s.mu.Lock()
	s.series[storeKey(symbol, interval)] = cp
	s.mu.Unlock()
	return nil
}

// Put merges klines into the cached series, replacing candles that share an
// open time and trimming the head so at most max candles remain.
func (s *MemoryStore) Put(_ context.Context, symbol, interval string, klines []Candle, max int) error {
	if len(klines) == 0 {
		return nil
	}
	key := storeKey(symbol, interval)
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := s.series[key]
	for _, k := range klines {
		n := len(merged)
		switch {
		case n == 0 || k.OpenTime > merged[n-1].OpenTime:
			merged = append(merged, k)
		case k.OpenTime == merged[n-1].OpenTime:
			merged[n-1] = k
		default:
			// out-of-order candle, resolve by scanning backwards
			idx := -1
			for i := n - 1; i >= 0; i-- {
				if merged[i].OpenTime == k.OpenTime {
					idx = i
					break
				}
				if merged[i].OpenTime < k.OpenTime {
					break
				}
			}
			if idx >= 0 {
				merged[idx] = k
			}
		}
	}
	if max > 0 && len(merged) > max {
		merged = merged[len(merged)-max:]
	}
	s.series[key] = merged
	return nil
}
