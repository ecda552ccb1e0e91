package ticketing

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cinebox/box-office/internal/layout"
	"github.com/cinebox/box-office/internal/model"
	"github.com/cinebox/box-office/internal/store"
)

// newTestStore seeds a flat-file store with one theater, a 10x10 room
// whose first two rows are VIP, and two showtimes: st-big with the full
// capacity snapshot and st-two with a snapshot of two seats.
func newTestStore(t *testing.T) *store.FileStore {
	t.Helper()
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "db.json"))
	doc := store.Document{
		Theaters: []model.Theater{{ID: 1, Name: "Galaxy Central"}},
		ScreeningRooms: []model.ScreeningRoom{{
			ID:        "r1",
			TheaterID: 1,
			Name:      "Room 1",
			Layout:    model.SeatLayout{Rows: 10, Cols: 10, VIPRows: []int{0, 1}},
			Seats:     100,
		}},
		Movies: []model.Movie{{ID: "m1", Title: "Arrival"}},
		Shifts: []model.Shift{{ID: "sh1", Name: "Evening", Time: "18:00-22:00"}},
		Showtimes: []model.Showtime{
			{
				ID: "st-big", MovieID: "m1", RoomID: "r1", TheaterID: 1, ShiftID: "sh1",
				Date: "2025-03-01", StandardPrice: 50000, VIPPrice: 80000, TotalSeats: 100,
			},
			{
				ID: "st-two", MovieID: "m1", RoomID: "r1", TheaterID: 1, ShiftID: "sh1",
				Date: "2025-03-02", StandardPrice: 50000, VIPPrice: 80000, TotalSeats: 2,
			},
		},
	}
	if err := fs.SeedIfMissing(doc); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return fs
}

func TestSellPricesByClass(t *testing.T) {
	svc := New(newTestStore(t))
	ctx := context.Background()

	rec, err := svc.Sell(ctx, "st-big", []string{"A1"}, "sales1")
	if err != nil {
		t.Fatalf("Sell A1: %v", err)
	}
	if rec.Tickets[0].Class != model.SeatVIP || rec.Tickets[0].Price != 80000 {
		t.Errorf("A1: got class=%s price=%d, want vip/80000", rec.Tickets[0].Class, rec.Tickets[0].Price)
	}

	rec, err = svc.Sell(ctx, "st-big", []string{"C5"}, "sales1")
	if err != nil {
		t.Fatalf("Sell C5: %v", err)
	}
	if rec.Tickets[0].Class != model.SeatStandard || rec.Tickets[0].Price != 50000 {
		t.Errorf("C5: got class=%s price=%d, want standard/50000", rec.Tickets[0].Class, rec.Tickets[0].Price)
	}
}

func TestSellBatchReceipt(t *testing.T) {
	svc := New(newTestStore(t))
	ctx := context.Background()

	rec, err := svc.Sell(ctx, "st-two", []string{"A1", "A2"}, "sales1")
	if err != nil {
		t.Fatalf("Sell: %v", err)
	}
	if len(rec.Tickets) != 2 {
		t.Fatalf("got %d tickets, want 2", len(rec.Tickets))
	}
	if rec.Total != 160000 { // both seats in VIP row A
		t.Errorf("total = %d, want 160000", rec.Total)
	}
	for _, tk := range rec.Tickets {
		if tk.ID == "" || tk.SoldBy != "sales1" || tk.SoldAt.IsZero() {
			t.Errorf("ticket missing attribution: %+v", tk)
		}
	}
}

func TestSellSeatAlreadySold(t *testing.T) {
	svc := New(newTestStore(t))
	ctx := context.Background()

	if _, err := svc.Sell(ctx, "st-two", []string{"A1", "A2"}, "sales1"); err != nil {
		t.Fatalf("first sale: %v", err)
	}
	_, err := svc.Sell(ctx, "st-two", []string{"A1"}, "sales2")
	var sold *SeatSoldError
	if !errors.As(err, &sold) {
		t.Fatalf("want SeatSoldError, got %v", err)
	}
	if sold.Seat != "A1" {
		t.Errorf("conflicting seat = %q, want A1", sold.Seat)
	}
}

func TestSellCapacityExceeded(t *testing.T) {
	svc := New(newTestStore(t))
	ctx := context.Background()

	if _, err := svc.Sell(ctx, "st-two", []string{"A1", "A2"}, "sales1"); err != nil {
		t.Fatalf("first sale: %v", err)
	}
	_, err := svc.Sell(ctx, "st-two", []string{"B1"}, "sales1")
	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("want CapacityError, got %v", err)
	}
	if capErr.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", capErr.Remaining)
	}
}

// The capacity check runs strictly before the per-seat collision check,
// so a batch that both overflows and collides reports capacity.
func TestSellCapacityBeforeCollision(t *testing.T) {
	svc := New(newTestStore(t))
	ctx := context.Background()

	if _, err := svc.Sell(ctx, "st-two", []string{"A1"}, "sales1"); err != nil {
		t.Fatalf("first sale: %v", err)
	}
	_, err := svc.Sell(ctx, "st-two", []string{"A1", "A2"}, "sales1")
	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("want CapacityError, got %v", err)
	}
	if capErr.Remaining != 1 {
		t.Errorf("remaining = %d, want 1", capErr.Remaining)
	}
}

func TestSellEmptySelection(t *testing.T) {
	svc := New(newTestStore(t))

	_, err := svc.Sell(context.Background(), "st-big", nil, "sales1")
	if !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("want ErrEmptySelection, got %v", err)
	}
}

func TestSellInvalidSeat(t *testing.T) {
	svc := New(newTestStore(t))

	_, err := svc.Sell(context.Background(), "st-big", []string{"Z9"}, "sales1")
	var inv *layout.ErrInvalidSeatID
	if !errors.As(err, &inv) {
		t.Fatalf("want ErrInvalidSeatID, got %v", err)
	}
}

func TestSellShowtimeNotFound(t *testing.T) {
	svc := New(newTestStore(t))

	_, err := svc.Sell(context.Background(), "st-missing", []string{"A1"}, "sales1")
	if !errors.Is(err, store.ErrShowtimeNotFound) {
		t.Fatalf("want ErrShowtimeNotFound, got %v", err)
	}
}

// A seat repeated within one request collides with its own first
// occurrence.
func TestSellIntraBatchDuplicate(t *testing.T) {
	svc := New(newTestStore(t))

	_, err := svc.Sell(context.Background(), "st-big", []string{"C1", "C1"}, "sales1")
	var sold *SeatSoldError
	if !errors.As(err, &sold) {
		t.Fatalf("want SeatSoldError, got %v", err)
	}
	if sold.Seat != "C1" {
		t.Errorf("conflicting seat = %q, want C1", sold.Seat)
	}
}

// failingStore wraps a real store but rejects every ticket write.
type failingStore struct {
	store.Store
	appendErr error
}

func (f *failingStore) AppendTickets(ctx context.Context, tickets []model.Ticket) error {
	return f.appendErr
}

func TestSellPersistenceFailure(t *testing.T) {
	fs := newTestStore(t)
	broken := &failingStore{Store: fs, appendErr: errors.New("disk full")}
	svc := New(broken)

	_, err := svc.Sell(context.Background(), "st-big", []string{"C1"}, "sales1")
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("want PersistenceError, got %v", err)
	}
	// nothing may have been committed
	tickets, err := fs.TicketsForShowtime(context.Background(), "st-big")
	if err != nil {
		t.Fatalf("TicketsForShowtime: %v", err)
	}
	if len(tickets) != 0 {
		t.Fatalf("found %d committed tickets after failed write", len(tickets))
	}
}

func TestInventoryIdempotent(t *testing.T) {
	svc := New(newTestStore(t))
	ctx := context.Background()

	if _, err := svc.Sell(ctx, "st-big", []string{"A1", "B2", "C3"}, "sales1"); err != nil {
		t.Fatalf("sale: %v", err)
	}
	first, err := svc.Inventory(ctx, "st-big")
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	second, err := svc.Inventory(ctx, "st-big")
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if first.Count != second.Count || len(first.Sold) != len(second.Sold) {
		t.Fatalf("inventory views differ: %+v vs %+v", first, second)
	}
	for seat := range first.Sold {
		if !second.Sold[seat] {
			t.Errorf("seat %s missing from second view", seat)
		}
	}
}

func TestSellConcurrentDisjoint(t *testing.T) {
	svc := New(newTestStore(t))
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seat := fmt.Sprintf("%c%d", 'C'+rune(i%5), i/5+1) // disjoint seats
			_, errs[i] = svc.Sell(ctx, "st-big", []string{seat}, "sales1")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("sale %d failed: %v", i, err)
		}
	}
	inv, err := svc.Inventory(ctx, "st-big")
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if inv.Count != n || len(inv.Sold) != n {
		t.Fatalf("count=%d unique=%d, want %d/%d", inv.Count, len(inv.Sold), n, n)
	}
}

func TestSellConcurrentOverCapacity(t *testing.T) {
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "db.json"))
	doc := store.Document{
		ScreeningRooms: []model.ScreeningRoom{{
			ID: "r1", TheaterID: 1,
			Layout: model.SeatLayout{Rows: 10, Cols: 10},
			Seats:  100,
		}},
		Showtimes: []model.Showtime{{
			ID: "st-small", RoomID: "r1", TheaterID: 1,
			StandardPrice: 50000, VIPPrice: 80000, TotalSeats: 4,
		}},
	}
	if err := fs.SeedIfMissing(doc); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	svc := New(fs)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seat := fmt.Sprintf("A%d", i+1)
			_, errs[i] = svc.Sell(ctx, "st-small", []string{seat}, "sales1")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			var capErr *CapacityError
			if !errors.As(err, &capErr) {
				t.Errorf("unexpected rejection: %v", err)
			}
		}
	}
	if succeeded != 4 {
		t.Errorf("%d sales succeeded, want 4", succeeded)
	}
	inv, err := svc.Inventory(ctx, "st-small")
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if inv.Count != 4 || len(inv.Sold) != 4 {
		t.Fatalf("count=%d unique=%d, want 4/4", inv.Count, len(inv.Sold))
	}
}

func TestSeatMap(t *testing.T) {
	svc := New(newTestStore(t))
	ctx := context.Background()

	if _, err := svc.Sell(ctx, "st-big", []string{"A1"}, "sales1"); err != nil {
		t.Fatalf("sale: %v", err)
	}
	sm, err := svc.SeatMap(ctx, "st-big")
	if err != nil {
		t.Fatalf("SeatMap: %v", err)
	}
	if len(sm.Seats) != 100 {
		t.Fatalf("got %d seats, want 100", len(sm.Seats))
	}
	if sm.Remaining != 99 {
		t.Errorf("remaining = %d, want 99", sm.Remaining)
	}
	if sm.Seats[0].Seat != "A1" || !sm.Seats[0].Sold || sm.Seats[0].Price != 80000 {
		t.Errorf("A1 status wrong: %+v", sm.Seats[0])
	}
	if sm.Seats[99].Seat != "J10" || sm.Seats[99].Sold || sm.Seats[99].Price != 50000 {
		t.Errorf("J10 status wrong: %+v", sm.Seats[99])
	}
}
