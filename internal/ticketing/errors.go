// Package ticketing implements the seat-inventory and sale consistency
// core: computing sold seats for a showtime, validating a requested
// seat batch, pricing each seat by class, and atomically committing the
// resulting tickets.  The package never logs and never renders; every
// failure is a typed error the transport layer maps to a response.
package ticketing

import (
	"errors"
	"fmt"
)

// ErrEmptySelection is returned when a sale request contains no seats.
var ErrEmptySelection = errors.New("no seats selected")

// CapacityError reports a batch that would exceed the showtime's seat
// capacity snapshot.  Remaining is how many seats were still available
// when the request was validated.
type CapacityError struct {
	Remaining int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded: %d seats remaining", e.Remaining)
}

// SeatSoldError reports the first requested seat that is already sold.
// A seat repeated within one request collides with itself and is
// reported the same way.
type SeatSoldError struct {
	Seat string
}

func (e *SeatSoldError) Error() string {
	return fmt.Sprintf("seat %s already sold", e.Seat)
}

// PersistenceError wraps a storage failure during commit.  No tickets
// were written when this is returned; callers may retry at their own
// discretion but the core never retries on its own.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting tickets: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
