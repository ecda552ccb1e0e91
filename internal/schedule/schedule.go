// Package schedule implements showtime scheduling for management
// users: listing showtimes across managed theaters with sales status,
// creating showtimes with a capacity snapshot, and deleting them.
package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cinebox/box-office/internal/auth"
	"github.com/cinebox/box-office/internal/model"
	"github.com/cinebox/box-office/internal/store"
)

// ErrNotManaged is returned when the actor tries to schedule or delete
// a showtime in a theater outside their managed set.
var ErrNotManaged = errors.New("theater not managed by user")

// ErrRoomMismatch is returned when the requested room does not belong
// to the requested theater.
var ErrRoomMismatch = errors.New("room does not belong to theater")

// Service wraps scheduling operations over a Store.
type Service struct {
	store store.Store

	newShowtimeID func() string
}

// New constructs a schedule Service.
func New(st store.Store) *Service {
	return &Service{
		store:         st,
		newShowtimeID: func() string { return "st-" + uuid.NewString() },
	}
}

// Entry is one showtime in the schedule listing, joined with its sales
// status.
type Entry struct {
	Showtime    model.Showtime `json:"showtime"`
	SoldTickets int            `json:"soldTickets"`
	TotalSeats  int            `json:"totalSeats"`
	SoldOut     bool           `json:"soldOut"`
}

// List returns the showtimes of every theater the actor manages, each
// with its sold-ticket count and sold-out flag.
func (s *Service) List(ctx context.Context, actor auth.Actor) ([]Entry, error) {
	showtimes, err := s.store.ShowtimesForTheaters(ctx, actor.ManagedTheaters)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(showtimes))
	for i, st := range showtimes {
		ids[i] = st.ID
	}
	counts, err := s.store.TicketCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, len(showtimes))
	for i, st := range showtimes {
		sold := counts[st.ID]
		entries[i] = Entry{
			Showtime:    st,
			SoldTickets: sold,
			TotalSeats:  st.TotalSeats,
			SoldOut:     sold >= st.TotalSeats,
		}
	}
	return entries, nil
}

// CreateRequest carries the fields needed to schedule a showtime.
type CreateRequest struct {
	MovieID       string
	TheaterID     int
	RoomID        string
	ShiftID       string
	Date          string
	StandardPrice int64
	VIPPrice      int64
}

func (r CreateRequest) validate() error {
	switch {
	case r.MovieID == "":
		return errors.New("movie id required")
	case r.RoomID == "":
		return errors.New("room id required")
	case r.ShiftID == "":
		return errors.New("shift id required")
	case r.Date == "":
		return errors.New("date required")
	case r.StandardPrice <= 0 || r.VIPPrice <= 0:
		return errors.New("prices must be positive")
	}
	return nil
}

// Create schedules a new showtime.  The actor must manage the theater,
// the room must belong to it, and the room must be free in the
// requested shift and date.  The room's capacity is snapshotted into
// TotalSeats; later room edits do not affect this showtime.
func (s *Service) Create(ctx context.Context, actor auth.Actor, req CreateRequest) (model.Showtime, error) {
	if err := req.validate(); err != nil {
		return model.Showtime{}, err
	}
	if !actor.Manages(req.TheaterID) {
		return model.Showtime{}, ErrNotManaged
	}
	if _, err := s.store.Theater(ctx, req.TheaterID); err != nil {
		return model.Showtime{}, err
	}
	room, err := s.store.Room(ctx, req.RoomID)
	if err != nil {
		return model.Showtime{}, err
	}
	if room.TheaterID != req.TheaterID {
		return model.Showtime{}, ErrRoomMismatch
	}
	st := model.Showtime{
		ID:            s.newShowtimeID(),
		MovieID:       req.MovieID,
		RoomID:        req.RoomID,
		TheaterID:     req.TheaterID,
		ShiftID:       req.ShiftID,
		Date:          req.Date,
		StandardPrice: req.StandardPrice,
		VIPPrice:      req.VIPPrice,
		TotalSeats:    room.Capacity(),
	}
	if err := s.store.AddShowtime(ctx, st); err != nil {
		return model.Showtime{}, err
	}
	return st, nil
}

// Delete removes a showtime the actor is allowed to manage, along with
// its sales history.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, showtimeID string) error {
	st, err := s.store.Showtime(ctx, showtimeID)
	if err != nil {
		return err
	}
	if !actor.Manages(st.TheaterID) {
		return fmt.Errorf("showtime %s: %w", showtimeID, ErrNotManaged)
	}
	return s.store.DeleteShowtime(ctx, showtimeID)
}
