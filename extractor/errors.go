package extractor

import "errors"

var (
	// ErrProtocolViolation indicates a callback broke the cursor contract: it
	// moved the cursor, left it at another depth or returned a step-out count
	// outside [0, depth]. The evaluation is aborted and the cursor state is
	// undefined.
	ErrProtocolViolation = errors.New("extractor: callback protocol violation")

	// ErrConfiguration indicates a missing or contradictory setting detected
	// while building or starting an extractor.
	ErrConfiguration = errors.New("extractor: invalid configuration")

	// ErrCallback wraps an error returned by a callback.
	ErrCallback = errors.New("extractor: callback failed")
)
