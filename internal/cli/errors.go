package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrEndWithoutStart indicates --end was given without --start.
	ErrEndWithoutStart = errors.New("--end requires --start")

	// ErrInvalidChunkSize indicates a --chunk value of zero or less.
	ErrInvalidChunkSize = errors.New("--chunk must be greater than zero")

	// ErrInvalidTimeout indicates a negative --timeout.
	ErrInvalidTimeout = errors.New("--timeout cannot be negative")

	// ErrUnsupportedPlatform indicates no desktop handler is known for this OS.
	ErrUnsupportedPlatform = errors.New("no desktop handler for this platform")
)
