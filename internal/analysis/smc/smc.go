// Package smc implements Smart-Money-Concepts structure detection over a
// candle series: order blocks, change-of-character breaks and engulfing
// candles. All detectors are pure functions of their input slice.
package smc

import (
	"fmt"

	"smcbot/internal/market"
)

// ChochWindow is the number of trailing candles forming the reference
// window for a change-of-character break.
const ChochWindow = 20

type BlockKind string

const (
	BlockBullish BlockKind = "BULLISH"
	BlockBearish BlockKind = "BEARISH"
)

// OrderBlock marks a candle treated as a supply/demand zone: a directional
// candle immediately followed by a candle of the opposite direction.
type OrderBlock struct {
	Kind      BlockKind `json:"kind"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Time      int64     `json:"time"`
	Confirmed bool      `json:"confirmed"`
}

type ChochKind string

const (
	ChochBullish ChochKind = "BULLISH_CHOCH"
	ChochBearish ChochKind = "BEARISH_CHOCH"
)

// ChochEvent records a break of the rolling high/low of the reference window.
type ChochEvent struct {
	Kind  ChochKind `json:"kind"`
	Price float64   `json:"price"`
	Time  int64     `json:"time"`
}

type EngulfingKind string

const (
	EngulfingBullish EngulfingKind = "BULLISH_ENGULFING"
	EngulfingBearish EngulfingKind = "BEARISH_ENGULFING"
)

// EngulfingEvent records a two-candle formation where the second body fully
// contains the first. Strength is the ratio of the engulfing body to the
// engulfed one, unbounded above.
type EngulfingEvent struct {
	Kind     EngulfingKind `json:"kind"`
	Time     int64         `json:"time"`
	Strength float64       `json:"strength"`
}

// DetectOrderBlocks scans candles from index lookback onward and emits an
// order block whenever a directional candle is followed by a candle of the
// opposite direction. The block takes high/low from the first candle of the
// pair and is never auto-confirmed; confirmation is a caller concern.
// A series shorter than lookback+2 yields an empty result, not an error.
func DetectOrderBlocks(candles []market.Candle, lookback int) ([]OrderBlock, error) {
	if lookback < 0 {
		return nil, fmt.Errorf("%w: negative lookback %d", ErrInvalidParameter, lookback)
	}
	var blocks []OrderBlock
	for i := lookback; i+1 < len(candles); i++ {
		curr, next := candles[i], candles[i+1]
		switch {
		case curr.IsBullish() && next.IsBearish():
			blocks = append(blocks, OrderBlock{
				Kind: BlockBullish,
				High: curr.High,
				Low:  curr.Low,
				Time: curr.OpenTime,
			})
		case curr.IsBearish() && next.IsBullish():
			blocks = append(blocks, OrderBlock{
				Kind: BlockBearish,
				High: curr.High,
				Low:  curr.Low,
				Time: curr.OpenTime,
			})
		}
	}
	return blocks, nil
}

// DetectChoch emits a change-of-character event whenever a candle breaks the
// rolling extreme of the up-to-ChochWindow candles before it. The candle is
// excluded from its own reference window, and a bullish break takes priority
// over a bearish one at the same index.
func DetectChoch(candles []market.Candle) []ChochEvent {
	var events []ChochEvent
	for i := 2; i < len(candles); i++ {
		start := i - ChochWindow
		if start < 0 {
			start = 0
		}
		refHigh, refLow := rangeExtremes(candles[start:i])
		switch {
		case candles[i].High > refHigh:
			events = append(events, ChochEvent{
				Kind:  ChochBullish,
				Price: candles[i].High,
				Time:  candles[i].OpenTime,
			})
		case candles[i].Low < refLow:
			events = append(events, ChochEvent{
				Kind:  ChochBearish,
				Price: candles[i].Low,
				Time:  candles[i].OpenTime,
			})
		}
	}
	return events
}

// DetectEngulfing emits an event for every candle whose body fully contains
// the body of the candle before it, in either direction. When the strength
// denominator is zero the event is skipped rather than emitted with an
// undefined ratio.
func DetectEngulfing(candles []market.Candle) []EngulfingEvent {
	var events []EngulfingEvent
	for i := 1; i < len(candles); i++ {
		prev, curr := candles[i-1], candles[i]
		if prev.IsBearish() && curr.Close > prev.Open && curr.Open < prev.Close {
			// engulfed body magnitude; keeps strength positive
			denom := -prev.Body()
			if denom == 0 {
				continue
			}
			events = append(events, EngulfingEvent{
				Kind:     EngulfingBullish,
				Time:     curr.OpenTime,
				Strength: curr.Body() / denom,
			})
			continue
		}
		if prev.IsBullish() && curr.Close < prev.Open && curr.Open > prev.Close {
			denom := curr.Open - prev.Open
			if denom == 0 {
				continue
			}
			events = append(events, EngulfingEvent{
				Kind:     EngulfingBearish,
				Time:     curr.OpenTime,
				Strength: -curr.Body() / denom,
			})
		}
	}
	return events
}

func rangeExtremes(candles []market.Candle) (high, low float64) {
	high = candles[0].High
	low = candles[0].Low
	for _, c := range candles[1:] {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	return high, low
}
