package model

// Shift is a named time slot showtimes are scheduled into, e.g. a
// morning or evening slot.  A room can host at most one showtime per
// shift per date.
type Shift struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Time string `json:"time,omitempty"` // display range, e.g. "08:00-12:00"
}
