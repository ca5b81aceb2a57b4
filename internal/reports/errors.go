package reports

import "errors"

var (
	// ErrNotFound indicates the report does not exist on disk or in the registry.
	ErrNotFound = errors.New("report not found")
	// ErrInvalidInput indicates a malformed generation request.
	ErrInvalidInput = errors.New("invalid input")
)
