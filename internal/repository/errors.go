// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the availability tracker to distinguish between failure
// scenarios: a checkout against a busy resource, a return against a
// loan that was already closed, or a delete blocked by dependent
// records.
package repository

import "errors"

// ErrResourceNotAvailable is returned when a checkout is attempted
// against a room that is occupied or an equipment item that is in use
// or damaged. Handlers should translate this into an HTTP 409 response.
var ErrResourceNotAvailable = errors.New("resource not available")

// ErrLoanNotFound is returned when a loan lookup by reference fails.
var ErrLoanNotFound = errors.New("loan not found")

// ErrAlreadyReturned is returned when a return is recorded against a
// loan whose close timestamp is already set. Recording a second return
// is rejected rather than silently overwriting the close fields.
var ErrAlreadyReturned = errors.New("loan already returned")

// ErrBorrowerNotFound is returned when the referenced student or
// professor does not exist in its registry.
var ErrBorrowerNotFound = errors.New("borrower not found")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as deleting a room that still has
// loan records. Handlers should translate this into an HTTP 409
// response.
var ErrConflict = errors.New("conflict")
