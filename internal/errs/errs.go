package errs

import "errors"

var (
	// ErrTicketNotFound marks an empty single-record read. Distinct from a
	// store failure so handlers can map it to 404 instead of 500.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrProfileNotFound marks a missing row in the profiles side table.
	ErrProfileNotFound = errors.New("profile not found")
)
