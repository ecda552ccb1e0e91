package model

// Theater represents a single cinema location.  Theaters own screening
// rooms and are the unit of management authorization: a management user
// may only schedule showtimes and read reports for theaters assigned to
// them.  Theaters are immutable during a sale.
//
// Fields:
//  ID      - unique theater identifier.
//  Name    - display name of the theater.
//  Address - optional street address.
type Theater struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// TheaterManager maps a management user to the set of theaters they are
// allowed to manage.  The assignment is read at login and carried in the
// access token; the core never reads it ambiently.
type TheaterManager struct {
	UserID     string `json:"userId"`
	TheaterIDs []int  `json:"theaterIds"`
}
