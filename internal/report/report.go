// Package report aggregates ticket revenue for management users: count
// and revenue per shift over one calendar month, with percentage
// shares.
package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"

	"github.com/cinebox/box-office/internal/auth"
	"github.com/cinebox/box-office/internal/store"
)

// ErrNotManaged is returned when the report covers a theater the actor
// does not manage.
var ErrNotManaged = errors.New("theater not managed by user")

// ErrBadMonth is returned when the month is not "YYYY-MM".
var ErrBadMonth = errors.New("month must be YYYY-MM")

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Service builds revenue reports over a Store.
type Service struct {
	store store.Store
}

// New constructs a report Service.
func New(st store.Store) *Service {
	return &Service{store: st}
}

// ShiftLine is the per-shift row of a monthly report.
type ShiftLine struct {
	ShiftName  string  `json:"shiftName"`
	Count      int     `json:"count"`
	Revenue    int64   `json:"revenue"`
	Percentage float64 `json:"percentage"` // share of ticket count, two decimals
}

// Monthly is one month's revenue for a set of theaters, grouped by
// shift.
type Monthly struct {
	Month        string      `json:"month"`
	TheaterIDs   []int       `json:"theaterIds"`
	TotalTickets int         `json:"totalTickets"`
	TotalRevenue int64       `json:"totalRevenue"`
	Shifts       []ShiftLine `json:"shifts"`
}

// Monthly aggregates the tickets sold during the given month ("YYYY-MM")
// for showtimes in the given theaters.  When theaterIDs is empty the
// actor's whole managed set is reported.  Every requested theater must
// be in the actor's managed set.
func (s *Service) Monthly(ctx context.Context, actor auth.Actor, theaterIDs []int, month string) (Monthly, error) {
	if !monthPattern.MatchString(month) {
		return Monthly{}, ErrBadMonth
	}
	if len(theaterIDs) == 0 {
		theaterIDs = actor.ManagedTheaters
	}
	for _, id := range theaterIDs {
		if !actor.Manages(id) {
			return Monthly{}, fmt.Errorf("theater %d: %w", id, ErrNotManaged)
		}
	}

	showtimes, err := s.store.ShowtimesForTheaters(ctx, theaterIDs)
	if err != nil {
		return Monthly{}, err
	}
	shiftByShowtime := make(map[string]string, len(showtimes))
	ids := make([]string, len(showtimes))
	for i, st := range showtimes {
		ids[i] = st.ID
		shiftByShowtime[st.ID] = st.ShiftID
	}
	tickets, err := s.store.TicketsForShowtimes(ctx, ids)
	if err != nil {
		return Monthly{}, err
	}
	shifts, err := s.store.Shifts(ctx)
	if err != nil {
		return Monthly{}, err
	}
	shiftNames := make(map[string]string, len(shifts))
	for _, sh := range shifts {
		shiftNames[sh.ID] = sh.Name
	}

	type agg struct {
		count   int
		revenue int64
	}
	byShift := make(map[string]*agg)
	out := Monthly{Month: month, TheaterIDs: theaterIDs}
	for _, t := range tickets {
		if t.SoldAt.UTC().Format("2006-01") != month {
			continue
		}
		out.TotalTickets++
		out.TotalRevenue += t.Price
		name := shiftNames[shiftByShowtime[t.ShowtimeID]]
		if name == "" {
			name = "unknown"
		}
		a := byShift[name]
		if a == nil {
			a = &agg{}
			byShift[name] = a
		}
		a.count++
		a.revenue += t.Price
	}

	out.Shifts = make([]ShiftLine, 0, len(byShift))
	for name, a := range byShift {
		pct := 0.0
		if out.TotalTickets > 0 {
			pct = math.Round(float64(a.count)/float64(out.TotalTickets)*10000) / 100
		}
		out.Shifts = append(out.Shifts, ShiftLine{
			ShiftName:  name,
			Count:      a.count,
			Revenue:    a.revenue,
			Percentage: pct,
		})
	}
	sort.Slice(out.Shifts, func(i, j int) bool { return out.Shifts[i].ShiftName < out.Shifts[j].ShiftName })
	return out, nil
}
