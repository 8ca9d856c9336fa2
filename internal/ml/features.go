package ml

import (
	"math"

	"github.com/markcheno/go-talib"

	"smcbot/internal/market"
)

// FeatureWindow is how many closed candles the feature rows cover.
const FeatureWindow = 30

// minBars is the shortest series the extractor accepts: enough candles for
// the slowest lookback (MACD 26 + signal 9) plus the feature window tail.
const minBars = 35

// FeatureSet holds the per-candle feature series used for confidence
// scoring, trimmed to the last FeatureWindow rows.
type FeatureSet struct {
	Returns    []float64
	Volatility []float64
	RSI        []float64
	MACD       []float64
	ATR        []float64
}

// ExtractFeatures computes returns, rolling volatility, RSI-14, MACD and
// ATR-14 over the series. Returns false when the series is too short.
func ExtractFeatures(candles []market.Candle) (FeatureSet, bool) {
	if len(candles) < minBars {
		return FeatureSet{}, false
	}
	n := len(candles)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}

	returns := pctChange(closes)
	fs := FeatureSet{
		Returns:    tail(returns, FeatureWindow),
		Volatility: tail(rollingStd(returns, 20), FeatureWindow),
		RSI:        tail(sanitize(talib.Rsi(closes, 14)), FeatureWindow),
		ATR:        tail(sanitize(talib.Atr(highs, lows, closes, 14)), FeatureWindow),
	}
	macd, _, _ := talib.Macd(closes, 12, 26, 9)
	fs.MACD = tail(sanitize(macd), FeatureWindow)
	return fs, true
}

func pctChange(series []float64) []float64 {
	out := make([]float64, len(series))
	for i := 1; i < len(series); i++ {
		if series[i-1] != 0 {
			out[i] = (series[i] - series[i-1]) / series[i-1]
		}
	}
	return out
}

func rollingStd(series []float64, window int) []float64 {
	out := make([]float64, len(series))
	for i := window; i < len(series); i++ {
		out[i] = stddev(series[i-window+1 : i+1])
	}
	return out
}

func stddev(window []float64) float64 {
	if len(window) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(len(window))
	var sum float64
	for _, v := range window {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(window)-1))
}

func sanitize(series []float64) []float64 {
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			series[i] = 0
		}
	}
	return series
}

func tail(series []float64, n int) []float64 {
	if len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}

func last(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

func mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}
