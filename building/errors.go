/*
errors.go - Error types for store mutations

PURPOSE:
  The derivation functions (availability, occupancy, calendar) never fail;
  they fall back to defaults. Only Store mutations return errors, and only
  for lookups and illegal status transitions.

USAGE:
  if errors.Is(err, building.ErrInvalidTransition) {
      // 409 in the API
  }

SEE ALSO:
  - store.go: Returns these errors
  - ../api/handlers.go: Maps them to HTTP status codes
*/
package building

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	ErrFloorNotFound       = errors.New("floor not found")
	ErrReservationNotFound = errors.New("viewing reservation not found")
	ErrApplicationNotFound = errors.New("application not found")

	// ErrFloorOccupied is returned when moving a tenant into, or booking a
	// viewing on, a floor that already has a tenant.
	ErrFloorOccupied = errors.New("floor is occupied")

	// ErrFloorVacant is returned when moving a tenant out of a floor that
	// has none.
	ErrFloorVacant = errors.New("floor is vacant")

	// ErrInvalidTransition is returned for a status change the entity's
	// lifecycle does not allow (e.g. completing a cancelled viewing).
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput is returned for missing required fields.
	ErrInvalidInput = errors.New("invalid input")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// TransitionError names the entity and both statuses of a rejected change.
type TransitionError struct {
	Entity string
	ID     string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s %s: cannot change status from %s to %s", e.Entity, e.ID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFloorNotFound) ||
		errors.Is(err, ErrReservationNotFound) ||
		errors.Is(err, ErrApplicationNotFound)
}

// IsConflict returns true if the error is a state conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrFloorOccupied) ||
		errors.Is(err, ErrFloorVacant)
}
