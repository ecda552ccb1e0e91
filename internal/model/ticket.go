package model

import "time"

// SeatClass distinguishes standard and VIP seats.  The class decides
// which of the showtime's two price tiers applies.
type SeatClass string

const (
	SeatStandard SeatClass = "standard"
	SeatVIP      SeatClass = "vip"
)

// Ticket is a sold seat for a showtime.  Tickets are created only by the
// sale committer and are immutable once written.  Price is copied from
// the showtime's tier at sale time and is never recomputed, even if the
// showtime's tiers change later.  Tickets are removed only as a side
// effect of deleting their parent showtime.
//
// Fields:
//  ID         - unique ticket identifier.
//  ShowtimeID - showtime the seat was sold for.
//  Seat       - seat identifier, e.g. "A1".
//  Class      - seat class at sale time.
//  Price      - amount charged, copied from the showtime tier.
//  SoldAt     - UTC timestamp of the sale.
//  SoldBy     - identity of the seller, for attribution.
type Ticket struct {
	ID         string    `json:"id"`
	ShowtimeID string    `json:"showtimeId"`
	Seat       string    `json:"seat"`
	Class      SeatClass `json:"class"`
	Price      int64     `json:"price"`
	SoldAt     time.Time `json:"soldAt"`
	SoldBy     string    `json:"soldBy"`
}
