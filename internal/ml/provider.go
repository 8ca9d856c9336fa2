// Package ml scores a candle series with a [0,1] directional confidence.
// The production model behind this interface is trained and served outside
// the bot; Provider is a deterministic feature-based stand-in that keeps the
// same contract, so swapping in a served model is a one-line change at
// composition time.
package ml

import (
	"context"
	"math"

	"smcbot/internal/logger"
	"smcbot/internal/market"
)

// NeutralScore is returned when the series is too short to extract features.
const NeutralScore = 0.5

// Provider implements strategy.ScoreProvider over extracted features.
type Provider struct{}

func NewProvider() *Provider {
	return &Provider{}
}

// Score maps momentum features onto (0,1) through a logistic squash:
// RSI distance from the midline, MACD scaled by ATR, and mean return scaled
// by volatility. Identical candles always yield the identical score.
func (p *Provider) Score(_ context.Context, symbol string, candles []market.Candle) (float64, error) {
	fs, ok := ExtractFeatures(candles)
	if !ok {
		logger.Debugf("ml: %s has %d candles, below feature minimum, neutral score", symbol, len(candles))
		return NeutralScore, nil
	}

	rsiBias := (last(fs.RSI) - 50) / 50

	macdBias := 0.0
	if atr := last(fs.ATR); atr > 0 {
		macdBias = math.Tanh(last(fs.MACD) / atr)
	}

	momentum := 0.0
	if vol := last(fs.Volatility); vol > 0 {
		momentum = math.Tanh(mean(fs.Returns) / vol)
	}

	raw := 0.4*rsiBias + 0.35*macdBias + 0.25*momentum
	score := 1 / (1 + math.Exp(-3*raw))
	return score, nil
}
