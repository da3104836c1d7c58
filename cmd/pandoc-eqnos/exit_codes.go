package main

import (
	"errors"
	"os"

	eqnos "github.com/alnah/go-eqnos"
	"github.com/alnah/go-eqnos/internal/config"
)

// Exit codes for the pandoc-eqnos CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Document processed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags or option defaults
	ExitIO      = 3 // Malformed document, read or write failure
	ExitHost    = 4 // Pandoc version undeterminable
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Host errors (exit 4)
	if errors.Is(err, eqnos.ErrPandocVersion) {
		return ExitHost
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, eqnos.ErrMalformedDocument) ||
		errors.Is(err, eqnos.ErrWriteDocument) {
		return ExitIO
	}

	// Usage/config errors (exit 2)
	if errors.Is(err, eqnos.ErrDefaults) ||
		errors.Is(err, eqnos.ErrUnsupportedFormat) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, ErrMissingFormat) ||
		errors.Is(err, ErrTooManyArgs) {
		return ExitUsage
	}

	return ExitGeneral
}
