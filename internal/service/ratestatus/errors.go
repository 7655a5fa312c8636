package ratestatus

import "errors"

var (
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("required column is missing")

	// ErrRecordNotFound is returned when a record does not match any row.
	ErrRecordNotFound = errors.New("record not found")

	// ErrEmptyFile is returned when the file has no header.
	ErrEmptyFile = errors.New("rate file is empty")
)
