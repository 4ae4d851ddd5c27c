package services

import "errors"

var (
	// ErrParsingFailed wraps any failure to turn an upload into a bet sheet.
	ErrParsingFailed = errors.New("failed to parse bet sheet")
	// ErrDatasetNotFound is returned for unknown or expired dataset IDs.
	ErrDatasetNotFound = errors.New("dataset not found")
)
