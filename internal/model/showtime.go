package model

// Showtime is one scheduled screening of a movie in a room during a
// shift on a date.  It carries its own price tiers and a snapshot of the
// room capacity taken at scheduling time.  TotalSeats is authoritative
// for sale validation: if the room is later edited, existing showtimes
// keep selling against the snapshot.  Showtimes are created and deleted
// by scheduling actions and never mutated otherwise.
//
// Fields:
//  ID            - unique showtime identifier.
//  MovieID       - movie being screened.
//  RoomID        - screening room.
//  TheaterID     - owning theater (denormalized for authorization checks).
//  ShiftID       - time slot the screening is scheduled into.
//  Date          - screening date, "YYYY-MM-DD".
//  StandardPrice - price for standard seats, in the smallest currency unit.
//  VIPPrice      - price for VIP seats.
//  TotalSeats    - room capacity snapshot at creation time.
type Showtime struct {
	ID            string `json:"id"`
	MovieID       string `json:"movieId"`
	RoomID        string `json:"roomId"`
	TheaterID     int    `json:"theaterId"`
	ShiftID       string `json:"shiftId"`
	Date          string `json:"date"`
	StandardPrice int64  `json:"standardPrice"`
	VIPPrice      int64  `json:"vipPrice"`
	TotalSeats    int    `json:"totalSeats"`
}
