// Package repository implements raw-SQL data access for the booking
// service.  This file defines sentinel errors shared across the
// individual repositories so that handlers can map failure modes to
// HTTP statuses without inspecting driver errors.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else (a property, booking, block or feed
// belonging to another user).  Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot proceed because of
// dependent state, such as deleting a property that still has
// upcoming bookings.  Handlers translate this into 409.
var ErrConflict = errors.New("conflict")
