// Package repository defines error sentinels reused across the individual
// repositories.  Handlers compare against these with errors.Is and translate
// them into one HTTP response each: ErrNotFound -> 404, ErrForbidden -> 403,
// ErrSoldOut and ErrConflict and ErrInvalidStatus -> 400.  Anything else is
// an unexpected store failure and surfaces as 500.
package repository

import "errors"

// ErrNotFound is returned when the requested entity does not exist.  A
// malformed identifier is treated the same way as a missing row.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of the
// entity's current state, such as deleting a booking that has been paid.
var ErrConflict = errors.New("conflict")

// ErrSoldOut is returned when a reservation loses the inventory race: the
// conditional decrement matched zero rows because fewer seats remain than
// were requested.
var ErrSoldOut = errors.New("sold out")

// ErrEmailExists is returned when inserting a user whose email is already
// registered.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidStatus is returned when a status transition names a value the
// target state machine does not accept.
var ErrInvalidStatus = errors.New("invalid status")
