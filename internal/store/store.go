// Package store is the persistence layer.  It exposes a single Store
// interface with two drivers: a flat JSON document store that reads and
// rewrites the whole document on every call, and a MySQL store.  Reads
// are consistent snapshots of the backing document; AppendTickets is a
// single logical write that either lands completely or not at all.
package store

import (
	"context"

	"github.com/cinebox/box-office/internal/model"
)

// ShowtimeFilter narrows a showtime search.  Empty fields match
// everything.
type ShowtimeFilter struct {
	MovieID string
	ShiftID string
	Date    string // "YYYY-MM-DD"
}

// Store is the persistence collaborator used by the domain services.
// Implementations must be safe for concurrent use; per-showtime sale
// exclusion is layered above in the ticketing package.
type Store interface {
	// Showtime loads one showtime or ErrShowtimeNotFound.
	Showtime(ctx context.Context, id string) (model.Showtime, error)
	// Room loads one screening room or ErrRoomNotFound.
	Room(ctx context.Context, id string) (model.ScreeningRoom, error)
	// Theater loads one theater or ErrTheaterNotFound.
	Theater(ctx context.Context, id int) (model.Theater, error)
	// Theaters lists all theaters.
	Theaters(ctx context.Context) ([]model.Theater, error)
	// RoomsForTheaters lists the rooms belonging to any of the given theaters.
	RoomsForTheaters(ctx context.Context, theaterIDs []int) ([]model.ScreeningRoom, error)
	// Movies lists all movies.
	Movies(ctx context.Context) ([]model.Movie, error)
	// Shifts lists all shifts.
	Shifts(ctx context.Context) ([]model.Shift, error)
	// SearchShowtimes lists showtimes matching the filter.
	SearchShowtimes(ctx context.Context, f ShowtimeFilter) ([]model.Showtime, error)
	// ShowtimesForTheaters lists showtimes scheduled in any of the given theaters.
	ShowtimesForTheaters(ctx context.Context, theaterIDs []int) ([]model.Showtime, error)

	// TicketsForShowtime lists every ticket sold for one showtime.
	TicketsForShowtime(ctx context.Context, showtimeID string) ([]model.Ticket, error)
	// TicketsForShowtimes lists every ticket sold for any of the given showtimes.
	TicketsForShowtimes(ctx context.Context, showtimeIDs []string) ([]model.Ticket, error)
	// TicketCounts returns the number of sold tickets per showtime id.
	TicketCounts(ctx context.Context, showtimeIDs []string) (map[string]int, error)
	// AppendTickets persists all tickets in one logical write.
	AppendTickets(ctx context.Context, tickets []model.Ticket) error

	// AddShowtime persists a new showtime.  It fails with
	// ErrScheduleConflict when another showtime already occupies the same
	// room, shift and date.
	AddShowtime(ctx context.Context, st model.Showtime) error
	// DeleteShowtime removes a showtime and its entire sales history.
	DeleteShowtime(ctx context.Context, id string) error

	// UserByUsername loads a user or ErrUserNotFound.
	UserByUsername(ctx context.Context, username string) (model.User, error)
	// UserByID loads a user or ErrUserNotFound.
	UserByID(ctx context.Context, id string) (model.User, error)
	// ManagedTheaterIDs returns the theaters a management user may manage.
	ManagedTheaterIDs(ctx context.Context, userID string) ([]int, error)

	// SaveRefreshToken persists a refresh token hash.
	SaveRefreshToken(ctx context.Context, tok model.RefreshToken) error
	// RefreshTokenByHash loads a refresh token by hash or ErrTokenNotFound.
	RefreshTokenByHash(ctx context.Context, hash string) (model.RefreshToken, error)
	// DeleteRefreshToken revokes a refresh token by hash.
	DeleteRefreshToken(ctx context.Context, hash string) error
}
