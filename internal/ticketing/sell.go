package ticketing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cinebox/box-office/internal/layout"
	"github.com/cinebox/box-office/internal/model"
	"github.com/cinebox/box-office/internal/store"
)

// Service sells tickets against a Store.  All mutating work goes
// through Sell, which holds a per-showtime lock from the first
// inventory read to the end of the commit, so the check-then-act
// sequence cannot interleave with a concurrent sale for the same
// showtime.
type Service struct {
	store store.Store
	locks *showtimeLocks

	// now and newTicketID are swappable for tests.
	now         func() time.Time
	newTicketID func() string
}

// New constructs a ticketing Service.
func New(st store.Store) *Service {
	return &Service{
		store:       st,
		locks:       newShowtimeLocks(),
		now:         func() time.Time { return time.Now().UTC() },
		newTicketID: func() string { return "t-" + uuid.NewString() },
	}
}

// Receipt is the result of a successful sale: the committed tickets and
// their summed price.
type Receipt struct {
	Tickets []model.Ticket `json:"tickets"`
	Total   int64          `json:"totalAmount"`
}

// Inventory is a read-only view of a showtime's sold seats.  Sold is
// the projected set of seat identifiers; Count is the raw number of
// ticket records.  Remaining capacity is computed from Count rather
// than len(Sold) so that a duplicated record in storage (which the set
// would collapse) still reduces capacity deterministically.
type Inventory struct {
	Sold  map[string]bool
	Count int
}

// Remaining returns how many seats can still be sold against the given
// capacity snapshot.
func (inv Inventory) Remaining(totalSeats int) int {
	return totalSeats - inv.Count
}

// Inventory loads every ticket for the showtime and projects the sold
// seat set.  It has no side effects; two calls with no intervening
// commit return identical views.
func (s *Service) Inventory(ctx context.Context, showtimeID string) (Inventory, error) {
	tickets, err := s.store.TicketsForShowtime(ctx, showtimeID)
	if err != nil {
		return Inventory{}, err
	}
	inv := Inventory{Sold: make(map[string]bool, len(tickets)), Count: len(tickets)}
	for _, t := range tickets {
		inv.Sold[t.Seat] = true
	}
	return inv, nil
}

// validate checks a requested batch against the showtime's capacity
// snapshot and the sold set.  Checks run in a fixed order and the first
// failure wins: empty selection, then capacity, then per-seat collision
// in input order.  A batch that both exceeds capacity and contains a
// sold seat is therefore reported as a capacity error.  A seat repeated
// within the batch collides with its own first occurrence.
func validate(st model.Showtime, inv Inventory, seats []string) error {
	if len(seats) == 0 {
		return ErrEmptySelection
	}
	if inv.Count+len(seats) > st.TotalSeats {
		return &CapacityError{Remaining: inv.Remaining(st.TotalSeats)}
	}
	pending := make(map[string]bool, len(seats))
	for _, seat := range seats {
		if inv.Sold[seat] || pending[seat] {
			return &SeatSoldError{Seat: seat}
		}
		pending[seat] = true
	}
	return nil
}

// price maps a seat to the showtime tier for its class.
func price(class model.SeatClass, st model.Showtime) int64 {
	if class == model.SeatVIP {
		return st.VIPPrice
	}
	return st.StandardPrice
}

// Sell validates and commits a batch ticket sale for a showtime.  The
// requested seats are checked against the room layout, the capacity
// snapshot and the already-sold set; on success one ticket per seat is
// priced by class, stamped with the seller identity and the current
// time, and appended to the store in a single logical write.  Either
// every ticket is committed or none is.
func (s *Service) Sell(ctx context.Context, showtimeID string, seats []string, seller string) (Receipt, error) {
	s.locks.acquire(showtimeID)
	defer s.locks.release(showtimeID)

	st, err := s.store.Showtime(ctx, showtimeID)
	if err != nil {
		return Receipt{}, err
	}
	room, err := s.store.Room(ctx, st.RoomID)
	if err != nil {
		return Receipt{}, err
	}

	if len(seats) == 0 {
		return Receipt{}, ErrEmptySelection
	}
	// classify up front: a malformed seat id is a bad request and fails
	// before any inventory accounting
	classes := make([]model.SeatClass, len(seats))
	for i, seat := range seats {
		class, err := layout.Classify(seat, room.Layout)
		if err != nil {
			return Receipt{}, err
		}
		classes[i] = class
	}

	inv, err := s.Inventory(ctx, showtimeID)
	if err != nil {
		return Receipt{}, err
	}
	if err := validate(st, inv, seats); err != nil {
		return Receipt{}, err
	}

	now := s.now()
	tickets := make([]model.Ticket, len(seats))
	var total int64
	for i, seat := range seats {
		amount := price(classes[i], st)
		tickets[i] = model.Ticket{
			ID:         s.newTicketID(),
			ShowtimeID: showtimeID,
			Seat:       seat,
			Class:      classes[i],
			Price:      amount,
			SoldAt:     now,
			SoldBy:     seller,
		}
		total += amount
	}

	if err := s.store.AppendTickets(ctx, tickets); err != nil {
		return Receipt{}, &PersistenceError{Err: err}
	}
	return Receipt{Tickets: tickets, Total: total}, nil
}

// SeatStatus is one seat in a seat map: its identifier, class, tier
// price and whether it is already sold.
type SeatStatus struct {
	Seat  string          `json:"seat"`
	Class model.SeatClass `json:"class"`
	Price int64           `json:"price"`
	Sold  bool            `json:"sold"`
}

// SeatMap is the full availability view of one showtime, as rendered by
// the seat picker.
type SeatMap struct {
	Showtime  model.Showtime      `json:"showtime"`
	Room      model.ScreeningRoom `json:"room"`
	Seats     []SeatStatus        `json:"seats"`
	Remaining int                 `json:"remaining"`
}

// SeatMap enumerates the showtime's seats from the room layout and
// marks each one sold or free.  Read-only.
func (s *Service) SeatMap(ctx context.Context, showtimeID string) (SeatMap, error) {
	st, err := s.store.Showtime(ctx, showtimeID)
	if err != nil {
		return SeatMap{}, err
	}
	room, err := s.store.Room(ctx, st.RoomID)
	if err != nil {
		return SeatMap{}, err
	}
	inv, err := s.Inventory(ctx, showtimeID)
	if err != nil {
		return SeatMap{}, err
	}
	ids := layout.Enumerate(room.Layout)
	seats := make([]SeatStatus, len(ids))
	for i, id := range ids {
		class, err := layout.Classify(id, room.Layout)
		if err != nil {
			return SeatMap{}, err
		}
		seats[i] = SeatStatus{
			Seat:  id,
			Class: class,
			Price: price(class, st),
			Sold:  inv.Sold[id],
		}
	}
	return SeatMap{
		Showtime:  st,
		Room:      room,
		Seats:     seats,
		Remaining: inv.Remaining(st.TotalSeats),
	}, nil
}
