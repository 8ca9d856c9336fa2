package market

import (
	"fmt"
	"time"
)

type Candle struct {
	OpenTime  int64   `json:"open_time"`
	CloseTime int64   `json:"close_time"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Body returns the signed candle body (close - open).
func (c Candle) Body() float64 {
	return c.Close - c.Open
}

// IsBullish reports whether the candle closed above its open.
func (c Candle) IsBullish() bool {
	return c.Close > c.Open
}

// IsBearish reports whether the candle closed below its open.
func (c Candle) IsBearish() bool {
	return c.Close < c.Open
}

// OpenAt returns the candle open time as time.Time (OpenTime is unix ms).
func (c Candle) OpenAt() time.Time {
	return time.UnixMilli(c.OpenTime)
}

// ValidateSeries checks the series invariant: open times strictly increasing,
// no duplicate timestamps. An empty series is valid.
func ValidateSeries(candles []Candle) error {
	for i := 1; i < len(candles); i++ {
		if candles[i].OpenTime <= candles[i-1].OpenTime {
			return fmt.Errorf("candle series not strictly increasing at index %d (open_time %d after %d)",
				i, candles[i].OpenTime, candles[i-1].OpenTime)
		}
	}
	return nil
}
