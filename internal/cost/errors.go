package cost

import "errors"

var (
	// ErrInvalidWindow indicates a time window with t0 > tf or NaN bounds.
	ErrInvalidWindow = errors.New("cost: invalid time window")

	// ErrNotEvaluated indicates Value was called before any successful Update.
	ErrNotEvaluated = errors.New("cost: no evaluation has completed yet")
)
