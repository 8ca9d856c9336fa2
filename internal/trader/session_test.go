package trader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smcbot/internal/strategy"
)

func newTestSession() *Session {
	return NewSession("testnet",
		strategy.RiskPolicy{
			MaxRiskPerTrade: 0.01,
			RewardRiskRatio: 2.0,
			MaxDrawdown:     0.15,
			MaxOpenTrades:   3,
		},
		Params{
			Symbols:               []string{"BTCUSD"},
			Timeframe:             "15m",
			CandleLimit:           200,
			OrderBlockLookback:    2,
			MinCombinedConfidence: 0.65,
		})
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestSession()
	assert.False(t, s.Running())
	s.Start()
	assert.True(t, s.Running())
	s.Stop()
	assert.False(t, s.Running())

	assert.Equal(t, "testnet", s.Environment())
	s.SetEnvironment("live")
	assert.Equal(t, "live", s.Environment())
}

func TestSessionDrawdown(t *testing.T) {
	s := newTestSession()
	assert.Zero(t, s.Drawdown())

	s.UpdateEquity(10_000)
	assert.Zero(t, s.Drawdown())

	s.UpdateEquity(9_000)
	assert.InDelta(t, 0.1, s.Drawdown(), 1e-9)
	assert.Equal(t, 9_000.0, s.Equity())

	// a new peak resets the reference
	s.UpdateEquity(12_000)
	assert.Zero(t, s.Drawdown())
}

func TestSessionTradeLedger(t *testing.T) {
	s := newTestSession()
	closedAt := time.Now()

	s.RecordOpen(Trade{ID: "a", Symbol: "BTCUSD", Side: strategy.SideBuy, Status: TradeOpen})
	s.RecordOpen(Trade{ID: "b", Symbol: "ETHUSD", Side: strategy.SideSell, Status: TradeOpen})

	assert.Len(t, s.OpenTrades(), 2)
	assert.True(t, s.HasOpenSymbol("BTCUSD"))
	assert.False(t, s.HasOpenSymbol("SOLUSD"))

	got, ok := s.OpenTrade("b")
	require.True(t, ok)
	assert.Equal(t, "ETHUSD", got.Symbol)

	closed, ok := s.RecordClose("a", 25, closedAt)
	require.True(t, ok)
	assert.Equal(t, TradeClosed, closed.Status)
	assert.Equal(t, 25.0, closed.PnL)
	assert.Equal(t, closedAt, closed.ClosedAt)

	_, ok = s.RecordClose("a", 10, closedAt)
	assert.False(t, ok, "closing twice must fail")

	_, ok = s.RecordClose("b", -5, closedAt)
	require.True(t, ok)

	snap := s.Snapshot()
	assert.Zero(t, snap.OpenTrades)
	assert.Equal(t, 2, snap.TotalTrades)
	assert.InDelta(t, 20.0, snap.TotalPnL, 1e-9)
	assert.InDelta(t, 0.5, snap.WinRate, 1e-9)
}

func TestSessionClosedTrades(t *testing.T) {
	s := newTestSession()
	now := time.Now()
	for _, id := range []string{"a", "b", "c"} {
		s.RecordOpen(Trade{ID: id, Symbol: "BTCUSD"})
		_, ok := s.RecordClose(id, 1, now)
		require.True(t, ok)
	}

	assert.Len(t, s.ClosedTrades(0), 3)
	assert.Len(t, s.ClosedTrades(10), 3)

	last := s.ClosedTrades(2)
	require.Len(t, last, 2)
	assert.Equal(t, "b", last[0].ID)
	assert.Equal(t, "c", last[1].ID)
}

func TestSessionParamsIsolation(t *testing.T) {
	s := newTestSession()
	p := s.Params()
	p.Symbols[0] = "MUTATED"
	assert.Equal(t, []string{"BTCUSD"}, s.Params().Symbols)
}
