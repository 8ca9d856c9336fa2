package strategy

import (
	"errors"

	"smcbot/internal/analysis/smc"
)

var (
	// ErrInsufficientData means the candle series is too short or empty
	// for the requested analysis.
	ErrInsufficientData = errors.New("insufficient candle data")

	// ErrInvalidParameter shares identity with the detector-level sentinel
	// so callers can match either layer with a single errors.Is.
	ErrInvalidParameter = smc.ErrInvalidParameter

	// ErrDegenerateStop means the computed stop distance is zero, leaving
	// position sizing undefined.
	ErrDegenerateStop = errors.New("degenerate stop distance")
)
