package stats

import "errors"

var (
	ErrEmptyPopulation = errors.New("statistics require at least one employee")
	ErrEmptySample     = errors.New("median of empty sample")
	ErrUnknownPolicy   = errors.New("unknown rounding policy")
)
