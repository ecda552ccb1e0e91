// Package queue defines the messages exchanged over the broker and the
// background consumer that records them.
package queue

// TicketSoldEvent is published after a batch sale commits.  It carries
// enough for downstream consumers (sales log, notifications,
// analytics) without re-reading the store.
type TicketSoldEvent struct {
	ShowtimeID  string   `json:"showtime_id"`
	TheaterID   int      `json:"theater_id"`
	Seats       []string `json:"seats"`
	TotalAmount int64    `json:"total_amount"`
	SoldBy      string   `json:"sold_by"`
	SoldAt      string   `json:"sold_at"` // RFC 3339
}
