package domain

import "errors"

// Error kinds for the public boundary. Lower layers wrap one of these with
// fmt.Errorf("%w: ...") so handlers can map them with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrTransient    = errors.New("storage unavailable")
	ErrInternal     = errors.New("internal error")
)
