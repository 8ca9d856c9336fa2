package smc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smcbot/internal/market"
)

func flatCandles(n int, price float64) []market.Candle {
	out := make([]market.Candle, n)
	for i := range out {
		out[i] = market.Candle{
			OpenTime: int64(i) * 60_000,
			Open:     price,
			High:     price + 0.5,
			Low:      price - 0.5,
			Close:    price,
		}
	}
	return out
}

func candle(i int, open, high, low, close float64) market.Candle {
	return market.Candle{
		OpenTime: int64(i) * 60_000,
		Open:     open,
		High:     high,
		Low:      low,
		Close:    close,
	}
}

func TestDetectOrderBlocks(t *testing.T) {
	t.Run("flat candles produce nothing", func(t *testing.T) {
		blocks, err := DetectOrderBlocks(flatCandles(5, 100), 2)
		require.NoError(t, err)
		assert.Empty(t, blocks)
	})

	t.Run("series shorter than lookback+2 is empty, not an error", func(t *testing.T) {
		blocks, err := DetectOrderBlocks(flatCandles(3, 100), 10)
		require.NoError(t, err)
		assert.Empty(t, blocks)
	})

	t.Run("negative lookback is rejected", func(t *testing.T) {
		_, err := DetectOrderBlocks(flatCandles(5, 100), -1)
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("up body followed by down body emits a bullish block", func(t *testing.T) {
		candles := []market.Candle{
			candle(0, 100, 100.5, 99.5, 100),
			candle(1, 100, 100.5, 99.5, 100),
			candle(2, 100, 110, 100, 110),
			candle(3, 108, 108.5, 94, 95),
		}
		blocks, err := DetectOrderBlocks(candles, 2)
		require.NoError(t, err)
		require.Len(t, blocks, 1)
		assert.Equal(t, BlockBullish, blocks[0].Kind)
		assert.Equal(t, 110.0, blocks[0].High)
		assert.Equal(t, 100.0, blocks[0].Low)
		assert.Equal(t, candles[2].OpenTime, blocks[0].Time)
		assert.False(t, blocks[0].Confirmed)
	})

	t.Run("down body followed by up body emits a bearish block", func(t *testing.T) {
		candles := []market.Candle{
			candle(0, 100, 102, 95, 96),
			candle(1, 96, 99, 95.5, 98),
		}
		blocks, err := DetectOrderBlocks(candles, 0)
		require.NoError(t, err)
		require.Len(t, blocks, 1)
		assert.Equal(t, BlockBearish, blocks[0].Kind)
	})

	t.Run("high is never below low", func(t *testing.T) {
		candles := []market.Candle{
			candle(0, 100, 111, 99, 110),
			candle(1, 110, 112, 104, 105),
			candle(2, 105, 106, 95, 96),
			candle(3, 96, 101, 95, 100),
		}
		blocks, err := DetectOrderBlocks(candles, 0)
		require.NoError(t, err)
		require.NotEmpty(t, blocks)
		for _, b := range blocks {
			assert.GreaterOrEqual(t, b.High, b.Low)
		}
	})

	t.Run("idempotent over identical input", func(t *testing.T) {
		candles := []market.Candle{
			candle(0, 100, 111, 99, 110),
			candle(1, 110, 112, 104, 105),
			candle(2, 105, 106, 95, 96),
		}
		first, err := DetectOrderBlocks(candles, 0)
		require.NoError(t, err)
		second, err := DetectOrderBlocks(candles, 0)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestDetectChoch(t *testing.T) {
	t.Run("break above the rolling high is bullish", func(t *testing.T) {
		candles := flatCandles(25, 100)
		candles[22] = candle(22, 100, 105, 99.9, 104.8)
		events := DetectChoch(candles)
		require.Len(t, events, 1)
		assert.Equal(t, ChochBullish, events[0].Kind)
		assert.Equal(t, 105.0, events[0].Price)
		assert.Equal(t, candles[22].OpenTime, events[0].Time)
	})

	t.Run("break below the rolling low is bearish", func(t *testing.T) {
		candles := flatCandles(25, 100)
		candles[20] = candle(20, 100, 100.4, 97, 97.5)
		events := DetectChoch(candles)
		require.Len(t, events, 1)
		assert.Equal(t, ChochBearish, events[0].Kind)
		assert.Equal(t, 97.0, events[0].Price)
	})

	t.Run("bullish event exceeds every high in its reference window", func(t *testing.T) {
		candles := flatCandles(30, 100)
		candles[12] = candle(12, 100, 103, 99.5, 102)
		candles[28] = candle(28, 100, 106, 99.5, 105)
		for _, ev := range DetectChoch(candles) {
			if ev.Kind != ChochBullish {
				continue
			}
			idx := int(ev.Time / 60_000)
			start := idx - ChochWindow
			if start < 0 {
				start = 0
			}
			refHigh, _ := rangeExtremes(candles[start:idx])
			assert.Greater(t, candles[idx].High, refHigh)
		}
	})

	t.Run("series shorter than three candles is silent", func(t *testing.T) {
		assert.Empty(t, DetectChoch(flatCandles(2, 100)))
	})
}

func TestDetectEngulfing(t *testing.T) {
	t.Run("bullish engulfing with positive strength", func(t *testing.T) {
		candles := []market.Candle{
			candle(0, 100, 100.2, 98.8, 99), // down body of 1
			candle(1, 98.9, 100.6, 98.7, 100.4),
		}
		events := DetectEngulfing(candles)
		require.Len(t, events, 1)
		assert.Equal(t, EngulfingBullish, events[0].Kind)
		assert.InDelta(t, 1.5, events[0].Strength, 1e-9)
		assert.Positive(t, events[0].Strength)
	})

	t.Run("bearish engulfing with positive strength", func(t *testing.T) {
		candles := []market.Candle{
			candle(0, 100, 101.2, 99.8, 101), // up body of 1
			candle(1, 101.5, 101.6, 99.4, 99.5),
		}
		events := DetectEngulfing(candles)
		require.Len(t, events, 1)
		assert.Equal(t, EngulfingBearish, events[0].Kind)
		// (101.5-99.5)/(101.5-100) = 2/1.5
		assert.InDelta(t, 2.0/1.5, events[0].Strength, 1e-9)
	})

	t.Run("flat previous candle never divides by zero", func(t *testing.T) {
		candles := []market.Candle{
			candle(0, 100, 100.5, 99.5, 100), // zero body
			candle(1, 99, 102, 98.9, 101.5),
		}
		assert.NotPanics(t, func() {
			assert.Empty(t, DetectEngulfing(candles))
		})
	})

	t.Run("non-containing bodies are ignored", func(t *testing.T) {
		candles := []market.Candle{
			candle(0, 100, 100.2, 98.8, 99),
			candle(1, 99.2, 100.1, 99.1, 99.9), // closes below prev open
		}
		assert.Empty(t, DetectEngulfing(candles))
	})
}

func TestStrength(t *testing.T) {
	block := OrderBlock{Kind: BlockBullish, High: 110, Low: 100}
	choch := ChochEvent{Kind: ChochBearish, Price: 95}
	engulf := EngulfingEvent{Kind: EngulfingBullish, Strength: 1.5}

	t.Run("no patterns is neutral", func(t *testing.T) {
		score, dir := Strength(nil, nil, nil)
		assert.Zero(t, score)
		assert.Equal(t, DirectionNeutral, dir)
	})

	t.Run("latest block fixes the direction", func(t *testing.T) {
		score, dir := Strength([]OrderBlock{block}, []ChochEvent{choch}, nil)
		assert.InDelta(t, 0.7, score, 1e-9)
		assert.Equal(t, DirectionBuy, dir)
	})

	t.Run("all three components cap at one", func(t *testing.T) {
		score, dir := Strength([]OrderBlock{block}, []ChochEvent{choch}, []EngulfingEvent{engulf})
		assert.Equal(t, 1.0, score)
		assert.Equal(t, DirectionBuy, dir)
	})

	t.Run("choch leads when no block exists", func(t *testing.T) {
		score, dir := Strength(nil, []ChochEvent{choch}, nil)
		assert.InDelta(t, 0.3, score, 1e-9)
		assert.Equal(t, DirectionSell, dir)
	})
}
