package tradestore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "trades.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func openTrade(id, symbol string, openedAt time.Time) TradeModel {
	return TradeModel{
		ID:         id,
		OrderID:    "order-" + id,
		Symbol:     symbol,
		Side:       "BUY",
		Entry:      110,
		StopLoss:   100,
		TakeProfit: 130,
		Size:       10,
		RiskAmount: 100,
		Status:     StatusOpen,
		OpenedAt:   openedAt,
	}
}

func TestNew(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)

	_, err = NewFromDB(nil)
	assert.Error(t, err)
}

func TestInsertAndListRecent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	require.Error(t, s.Insert(ctx, TradeModel{}), "empty id must be rejected")

	for i, id := range []string{"t1", "t2", "t3"} {
		rec := openTrade(id, "BTCUSD", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.Insert(ctx, rec))
	}

	records, err := s.ListRecent(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "t3", records[0].ID, "newest first")

	records, err = s.ListRecent(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestMarkClosed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().Truncate(time.Second)

	require.NoError(t, s.Insert(ctx, openTrade("t1", "BTCUSD", now)))
	require.NoError(t, s.MarkClosed(ctx, "t1", 25.5, now))

	assert.Error(t, s.MarkClosed(ctx, "missing", 0, now))

	closed, err := s.ListRecent(ctx, StatusClosed, 10)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, 25.5, closed[0].PnL)
	assert.Equal(t, StatusClosed, closed[0].Status)
	require.NotNil(t, closed[0].ClosedAt)

	open, err := s.ListRecent(ctx, StatusOpen, 10)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestSignalSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	snapshot, err := json.Marshal(map[string]any{"symbol": "BTCUSD", "confidence": 0.95})
	require.NoError(t, err)

	rec := openTrade("t1", "BTCUSD", time.Now())
	rec.Signal = snapshot
	require.NoError(t, s.Insert(ctx, rec))

	records, err := s.ListRecent(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, records, 1)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(records[0].Signal, &decoded))
	assert.Equal(t, "BTCUSD", decoded["symbol"])
	assert.Equal(t, 0.95, decoded["confidence"])
}
