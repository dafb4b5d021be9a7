package common

import "errors"

var (
	// ErrUsage is returned for invalid command-line usage.
	ErrUsage = errors.New("invalid usage")

	// ErrIncomplete is returned when at least one document did not finish with status ok.
	// The reports have already been written, so callers only need to set the exit code.
	ErrIncomplete = errors.New("one or more documents could not be traced")
)
