package eqnos

import "errors"

// Sentinel errors for filter operations.
var (
	ErrMalformedDocument = errors.New("malformed pandoc document")
	ErrPandocVersion     = errors.New("pandoc version required")
	ErrUnsupportedFormat = errors.New("output format required")
	ErrWriteDocument     = errors.New("failed to write document")
	ErrDefaults          = errors.New("invalid option defaults")
)
