package report

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cinebox/box-office/internal/auth"
	"github.com/cinebox/box-office/internal/model"
	"github.com/cinebox/box-office/internal/store"
)

func newTestStore(t *testing.T) *store.FileStore {
	t.Helper()
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "db.json"))
	march := func(day, hour int) time.Time {
		return time.Date(2025, 3, day, hour, 0, 0, 0, time.UTC)
	}
	doc := store.Document{
		Theaters: []model.Theater{{ID: 1, Name: "Galaxy Central"}, {ID: 2, Name: "Galaxy Riverside"}},
		Shifts:   []model.Shift{{ID: "sh1", Name: "Morning"}, {ID: "sh2", Name: "Evening"}},
		Showtimes: []model.Showtime{
			{ID: "st1", TheaterID: 1, ShiftID: "sh1", Date: "2025-03-01", TotalSeats: 100},
			{ID: "st2", TheaterID: 1, ShiftID: "sh2", Date: "2025-03-01", TotalSeats: 100},
			{ID: "st3", TheaterID: 2, ShiftID: "sh1", Date: "2025-03-01", TotalSeats: 100},
		},
		Tickets: []model.Ticket{
			{ID: "t1", ShowtimeID: "st1", Seat: "A1", Price: 80000, SoldAt: march(1, 9)},
			{ID: "t2", ShowtimeID: "st1", Seat: "A2", Price: 80000, SoldAt: march(2, 10)},
			{ID: "t3", ShowtimeID: "st2", Seat: "C1", Price: 50000, SoldAt: march(3, 19)},
			{ID: "t4", ShowtimeID: "st2", Seat: "C2", Price: 50000, SoldAt: time.Date(2025, 4, 1, 19, 0, 0, 0, time.UTC)}, // next month
			{ID: "t5", ShowtimeID: "st3", Seat: "A1", Price: 60000, SoldAt: march(1, 9)},                                  // other theater
		},
	}
	if err := fs.SeedIfMissing(doc); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return fs
}

var manager = auth.Actor{UserID: "u1", Role: model.RoleManagement, ManagedTheaters: []int{1}}

func TestMonthlyAggregation(t *testing.T) {
	rep, err := New(newTestStore(t)).Monthly(context.Background(), manager, nil, "2025-03")
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if rep.TotalTickets != 3 {
		t.Errorf("total tickets = %d, want 3", rep.TotalTickets)
	}
	if rep.TotalRevenue != 210000 {
		t.Errorf("total revenue = %d, want 210000", rep.TotalRevenue)
	}
	if len(rep.Shifts) != 2 {
		t.Fatalf("got %d shift lines, want 2", len(rep.Shifts))
	}
	evening, morning := rep.Shifts[0], rep.Shifts[1] // sorted by name
	if evening.ShiftName != "Evening" || evening.Count != 1 || evening.Revenue != 50000 {
		t.Errorf("evening line = %+v", evening)
	}
	if morning.ShiftName != "Morning" || morning.Count != 2 || morning.Revenue != 160000 {
		t.Errorf("morning line = %+v", morning)
	}
	if morning.Percentage != 66.67 || evening.Percentage != 33.33 {
		t.Errorf("percentages = %v / %v, want 66.67 / 33.33", morning.Percentage, evening.Percentage)
	}
}

func TestMonthlyEmptyMonth(t *testing.T) {
	rep, err := New(newTestStore(t)).Monthly(context.Background(), manager, nil, "2025-05")
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if rep.TotalTickets != 0 || rep.TotalRevenue != 0 || len(rep.Shifts) != 0 {
		t.Errorf("empty month report = %+v", rep)
	}
}

func TestMonthlyRejectsUnmanagedTheater(t *testing.T) {
	_, err := New(newTestStore(t)).Monthly(context.Background(), manager, []int{1, 2}, "2025-03")
	if !errors.Is(err, ErrNotManaged) {
		t.Fatalf("want ErrNotManaged, got %v", err)
	}
}

func TestMonthlyBadMonth(t *testing.T) {
	svc := New(newTestStore(t))
	for _, m := range []string{"", "2025", "2025-13", "03-2025", "2025-3"} {
		if _, err := svc.Monthly(context.Background(), manager, nil, m); !errors.Is(err, ErrBadMonth) {
			t.Errorf("month %q: want ErrBadMonth, got %v", m, err)
		}
	}
}
