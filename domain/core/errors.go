package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Dataset resolution errors
	ErrUnknownDataset  = errors.New("unknown interaction dataset")
	ErrMissingResource = errors.New("dataset resource not found")

	// Record errors
	ErrMalformedRecord = errors.New("malformed record")

	// Input errors
	ErrEmptyInput        = errors.New("input list is empty")
	ErrInvalidIdentifier = errors.New("invalid gene identifier")

	// Option errors
	ErrUnknownResolution = errors.New("unknown resolution level")
	ErrUnknownSortKey    = errors.New("unknown sort key")
)

// NewMalformedRecordError reports a background or rank record that cannot be split.
func NewMalformedRecordError(source string, line int, record string) error {
	return fmt.Errorf("%w: %s record %d %q", ErrMalformedRecord, source, line, record)
}

// NewValidationError reports a field that failed validation.
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// IsDatasetError reports whether err stems from dataset resolution.
func IsDatasetError(err error) bool {
	return errors.Is(err, ErrUnknownDataset) || errors.Is(err, ErrMissingResource)
}
