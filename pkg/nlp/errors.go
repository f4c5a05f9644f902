package nlp

import "errors"

var (
	// ErrNoProvider means a pattern consults a lazy attribute no provider
	// was registered for. This is a configuration error and is reported
	// at compile time, never per match.
	ErrNoProvider = errors.New("no attribute provider registered")

	// ErrBadPattern means a pattern tree was built with invalid arguments,
	// such as a repetition with min greater than max.
	ErrBadPattern = errors.New("invalid pattern")

	// ErrUnknownPattern means a sequence names a gap pattern that is not
	// registered on the pipeline.
	ErrUnknownPattern = errors.New("unknown named pattern")
)
