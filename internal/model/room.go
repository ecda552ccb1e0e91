package model

// SeatLayout describes the seat geometry of a screening room: how many
// rows and columns of seats it has and which zero-based row indices are
// VIP rows.  Seat identifiers are derived from the layout (row letter +
// column number, e.g. "A1"); a seat is VIP iff its row index appears in
// VIPRows.
type SeatLayout struct {
	Rows    int   `json:"rows"`
	Cols    int   `json:"cols"`
	VIPRows []int `json:"vipRows,omitempty"`
}

// Capacity returns the number of seats the layout describes.
func (l SeatLayout) Capacity() int {
	return l.Rows * l.Cols
}

// IsVIPRow reports whether the given zero-based row index is a VIP row.
func (l SeatLayout) IsVIPRow(row int) bool {
	for _, r := range l.VIPRows {
		if r == row {
			return true
		}
	}
	return false
}

// ScreeningRoom is a room inside a theater.  Its seat capacity is fixed
// at creation; showtimes snapshot it into Showtime.TotalSeats when they
// are scheduled, and that snapshot stays authoritative for sale
// validation even if the room is edited afterwards.
//
// Fields:
//  ID        - unique room identifier.
//  TheaterID - theater that owns the room.
//  Name      - display name (e.g. "Room 1").
//  Layout    - seat geometry and VIP rows.
//  Seats     - total seat count; falls back to Layout.Capacity() when zero.
type ScreeningRoom struct {
	ID        string     `json:"id"`
	TheaterID int        `json:"theaterId"`
	Name      string     `json:"name"`
	Layout    SeatLayout `json:"layout"`
	Seats     int        `json:"seats"`
}

// Capacity returns the explicit seat count when set, otherwise the
// capacity derived from the layout.
func (r ScreeningRoom) Capacity() int {
	if r.Seats > 0 {
		return r.Seats
	}
	return r.Layout.Capacity()
}
