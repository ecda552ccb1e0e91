// Package layout derives seat identifiers from a screening room's seat
// geometry and classifies each seat as standard or VIP.  A seat
// identifier is a row letter followed by a one-based column number
// ("A1", "C12"); the row letter maps to a zero-based row index and the
// seat is VIP iff that index is one of the layout's VIP rows.  All
// functions are pure.
package layout

import (
	"fmt"

	"github.com/cinebox/box-office/internal/model"
)

// ErrInvalidSeatID is returned when a seat identifier cannot be parsed
// or falls outside the layout's row or column range.
type ErrInvalidSeatID struct {
	Seat string
}

func (e *ErrInvalidSeatID) Error() string {
	return fmt.Sprintf("invalid seat id %q", e.Seat)
}

// Parse splits a seat identifier into its zero-based row index and
// one-based column number, validating both against the layout.
func Parse(seatID string, l model.SeatLayout) (row, col int, err error) {
	if len(seatID) < 2 {
		return 0, 0, &ErrInvalidSeatID{Seat: seatID}
	}
	r := seatID[0]
	if r < 'A' || r > 'Z' {
		return 0, 0, &ErrInvalidSeatID{Seat: seatID}
	}
	row = int(r - 'A')
	if row >= l.Rows {
		return 0, 0, &ErrInvalidSeatID{Seat: seatID}
	}
	col = 0
	for i := 1; i < len(seatID); i++ {
		d := seatID[i]
		if d < '0' || d > '9' {
			return 0, 0, &ErrInvalidSeatID{Seat: seatID}
		}
		col = col*10 + int(d-'0')
		if col > l.Cols {
			return 0, 0, &ErrInvalidSeatID{Seat: seatID}
		}
	}
	if col < 1 || seatID[1] == '0' {
		return 0, 0, &ErrInvalidSeatID{Seat: seatID}
	}
	return row, col, nil
}

// Classify returns the seat class for a seat identifier under the given
// layout.  It fails with ErrInvalidSeatID when the identifier is outside
// the layout.
func Classify(seatID string, l model.SeatLayout) (model.SeatClass, error) {
	row, _, err := Parse(seatID, l)
	if err != nil {
		return "", err
	}
	if l.IsVIPRow(row) {
		return model.SeatVIP, nil
	}
	return model.SeatStandard, nil
}

// SeatID builds the identifier for a zero-based row index and one-based
// column number.
func SeatID(row, col int) string {
	return fmt.Sprintf("%c%d", 'A'+rune(row), col)
}

// Enumerate lists every valid seat identifier for the layout, row by
// row, columns ascending.
func Enumerate(l model.SeatLayout) []string {
	seats := make([]string, 0, l.Rows*l.Cols)
	for row := 0; row < l.Rows; row++ {
		for col := 1; col <= l.Cols; col++ {
			seats = append(seats, SeatID(row, col))
		}
	}
	return seats
}
