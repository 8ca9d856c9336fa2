package strategy

import (
	"fmt"

	"smcbot/internal/analysis/smc"
	"smcbot/internal/market"
)

// MaxTrackedBlocks is how many of the most recent order blocks a signal
// carries (most recent last).
const MaxTrackedBlocks = 3

// Signal is one evaluation of a symbol: the structural patterns currently
// present plus a fused confidence score. Built fresh per call, never mutated.
type Signal struct {
	Symbol      string              `json:"symbol"`
	Confidence  float64             `json:"confidence"`
	OrderBlocks []smc.OrderBlock    `json:"order_blocks"`
	Choch       *smc.ChochEvent     `json:"choch,omitempty"`
	Engulfing   *smc.EngulfingEvent `json:"engulfing,omitempty"`
	Timestamp   int64               `json:"timestamp"`
}

// GenerateSignal runs the three detectors over candles and composes their
// latest findings with the supplied confidence. Deterministic: identical
// inputs always produce an identical signal.
func GenerateSignal(candles []market.Candle, symbol string, confidence float64, lookback int) (Signal, error) {
	if len(candles) == 0 {
		return Signal{}, fmt.Errorf("%w: empty candle series for %s", ErrInsufficientData, symbol)
	}
	if confidence < 0 || confidence > 1 {
		return Signal{}, fmt.Errorf("%w: confidence %v outside [0,1]", ErrInvalidParameter, confidence)
	}

	blocks, err := smc.DetectOrderBlocks(candles, lookback)
	if err != nil {
		return Signal{}, err
	}
	if len(blocks) > MaxTrackedBlocks {
		blocks = blocks[len(blocks)-MaxTrackedBlocks:]
	}

	sig := Signal{
		Symbol:      symbol,
		Confidence:  confidence,
		OrderBlocks: blocks,
		Timestamp:   candles[len(candles)-1].OpenTime,
	}
	if choch := smc.DetectChoch(candles); len(choch) > 0 {
		latest := choch[len(choch)-1]
		sig.Choch = &latest
	}
	if engulfing := smc.DetectEngulfing(candles); len(engulfing) > 0 {
		latest := engulfing[len(engulfing)-1]
		sig.Engulfing = &latest
	}
	return sig, nil
}

// LatestBlock returns the most recent order block of the signal, if any.
func (s Signal) LatestBlock() (smc.OrderBlock, bool) {
	if len(s.OrderBlocks) == 0 {
		return smc.OrderBlock{}, false
	}
	return s.OrderBlocks[len(s.OrderBlocks)-1], true
}
