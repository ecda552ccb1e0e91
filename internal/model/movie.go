package model

// Movie is a film available for scheduling.
type Movie struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration,omitempty"` // minutes
}
