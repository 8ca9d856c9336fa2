package strategy

import (
	"context"

	"smcbot/internal/market"
)

// ScoreProvider supplies an externally computed confidence in [0,1] for a
// symbol. The strategy treats the score as opaque; any capability (a model
// inference service, a replayed backtest score, a fixed stub) can plug in.
type ScoreProvider interface {
	Score(ctx context.Context, symbol string, candles []market.Candle) (float64, error)
}

// StaticScore is a ScoreProvider returning a fixed confidence.
type StaticScore float64

func (s StaticScore) Score(context.Context, string, []market.Candle) (float64, error) {
	return clamp01(float64(s)), nil
}

// Blend averages the structural score with any number of provider scores
// and clamps the result to [0,1].
func Blend(structural float64, scores ...float64) float64 {
	sum := structural
	for _, s := range scores {
		sum += s
	}
	return clamp01(sum / float64(len(scores)+1))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
