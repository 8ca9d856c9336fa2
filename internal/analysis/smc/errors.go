package smc

import "errors"

// ErrInvalidParameter flags a caller-supplied argument outside its valid
// range (negative lookback, out-of-range confidence, negative equity).
var ErrInvalidParameter = errors.New("invalid parameter")
