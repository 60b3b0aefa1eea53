package treegen

import "errors"

var (
	// ErrPathNotFound is returned when the root, or a directory about to be
	// listed, does not exist.
	ErrPathNotFound = errors.New("no such file or directory")

	// ErrConfiguration is returned for invalid styles, unknown presets and
	// missing pattern files. It is always raised before traversal starts.
	ErrConfiguration = errors.New("invalid configuration")
)
