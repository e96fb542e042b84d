// Package seating defines error values shared by the seating map model.
// These sentinels let higher layers such as handlers distinguish failure
// scenarios. For example, ErrInvalidSeat signals that an assignment
// targeted a seat that no longer exists in the layout, while
// ErrDuplicateSection signals a section name collision during editing.
package seating

import "errors"

// ErrValidation is returned when user input is rejected before any state
// change, such as a blank section or member name. Handlers should
// translate this into an HTTP 400 response.
var ErrValidation = errors.New("validation failed")

// ErrDuplicateSection is returned when adding a section whose normalized
// name is already present in the layout. Handlers should translate this
// into an HTTP 409 response.
var ErrDuplicateSection = errors.New("section already exists")

// ErrNotFound is returned when an edit references a section, row or
// member that does not exist. Idempotent removals swallow this case and
// never return it.
var ErrNotFound = errors.New("not found")

// ErrInvalidSeat is returned by AssignMember when the target section,
// row or seat index does not currently exist in the layout.
var ErrInvalidSeat = errors.New("invalid seat")

// ErrInvalidMember is returned by AssignMember when the member identifier
// does not exist in the roster.
var ErrInvalidMember = errors.New("invalid member")

// ErrStorage is returned by snapshot adapters when a local save or load
// fails. The in-memory map is left unchanged when it occurs.
var ErrStorage = errors.New("storage failure")
