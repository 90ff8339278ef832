package api

import "errors"

// Coarse error kinds reported by drivers. Detail is carried by wrapping;
// callers classify with errors.Is.
var (
	// ErrUnrecognizedFormat means probe or header validation failed: the
	// file is not in this driver's format.
	ErrUnrecognizedFormat = errors.New("unrecognized format")

	// ErrUnsupportedElement means a known but unimplemented entity type is
	// present. Partial support is not offered: the whole load aborts.
	ErrUnsupportedElement = errors.New("unsupported element type")

	// ErrFileNotFound means a required file (or sibling file of a multi-file
	// format) is missing or unopenable.
	ErrFileNotFound = errors.New("required file not found")

	// ErrCorruptData means a structural violation: short read, ordering
	// invariant broken, incomplete record.
	ErrCorruptData = errors.New("corrupt data")

	// ErrWriteFailure means the save destination could not be written.
	ErrWriteFailure = errors.New("write failure")
)
