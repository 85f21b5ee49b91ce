package failure

import (
	"errors"
)

var (
	// ErrUnknownScheme is returned for a scheme name or identifier that is not in the dispatch table.
	ErrUnknownScheme = errors.New("unknown scheme")
	// ErrMalformedParameter is returned for a missing, extra, non-numeric or out of domain parameter.
	ErrMalformedParameter = errors.New("malformed parameter")
	// ErrInternal is returned for a degenerate computation, e.g. the logarithm of a zero probability.
	ErrInternal = errors.New("internal computation error")
	// ErrWorkerFailure is returned when a block task fails, which aborts the whole evaluation.
	ErrWorkerFailure = errors.New("worker failure")
)
