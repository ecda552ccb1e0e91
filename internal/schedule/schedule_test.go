package schedule

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
	doc := store.Document{
		Theaters: []model.Theater{{ID: 1, Name: "Galaxy Central"}, {ID: 2, Name: "Galaxy Riverside"}},
		ScreeningRooms: []model.ScreeningRoom{
			{ID: "r1", TheaterID: 1, Name: "Room 1", Layout: model.SeatLayout{Rows: 10, Cols: 10, VIPRows: []int{0, 1}}, Seats: 100},
			{ID: "r2", TheaterID: 2, Name: "Room 1", Layout: model.SeatLayout{Rows: 6, Cols: 10}, Seats: 60},
		},
		Movies: []model.Movie{{ID: "m1", Title: "Arrival"}},
		Shifts: []model.Shift{{ID: "sh1", Name: "Morning"}},
		Showtimes: []model.Showtime{
			{ID: "st1", MovieID: "m1", RoomID: "r1", TheaterID: 1, ShiftID: "sh1", Date: "2025-03-01", StandardPrice: 50000, VIPPrice: 80000, TotalSeats: 2},
		},
	}
	if err := fs.SeedIfMissing(doc); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return fs
}

var manager = auth.Actor{UserID: "u1", Username: "manager1", Role: model.RoleManagement, ManagedTheaters: []int{1}}

func TestListWithSalesStatus(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()
	if err := fs.AppendTickets(ctx, []model.Ticket{
		{ID: "t1", ShowtimeID: "st1", Seat: "A1", SoldAt: time.Now().UTC()},
		{ID: "t2", ShowtimeID: "st1", Seat: "A2", SoldAt: time.Now().UTC()},
	}); err != nil {
		t.Fatalf("seed tickets: %v", err)
	}

	entries, err := New(fs).List(ctx, manager)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.SoldTickets != 2 || e.TotalSeats != 2 || !e.SoldOut {
		t.Errorf("entry = %+v, want 2 sold of 2, sold out", e)
	}
}

func TestCreateSnapshotsCapacity(t *testing.T) {
	svc := New(newTestStore(t))

	st, err := svc.Create(context.Background(), manager, CreateRequest{
		MovieID: "m1", TheaterID: 1, RoomID: "r1", ShiftID: "sh1", Date: "2025-03-02",
		StandardPrice: 50000, VIPPrice: 80000,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if st.TotalSeats != 100 {
		t.Errorf("TotalSeats = %d, want room capacity 100", st.TotalSeats)
	}
	if st.ID == "" {
		t.Error("showtime id not assigned")
	}
}

func TestCreateRejectsUnmanagedTheater(t *testing.T) {
	svc := New(newTestStore(t))

	_, err := svc.Create(context.Background(), manager, CreateRequest{
		MovieID: "m1", TheaterID: 2, RoomID: "r2", ShiftID: "sh1", Date: "2025-03-02",
		StandardPrice: 50000, VIPPrice: 80000,
	})
	if !errors.Is(err, ErrNotManaged) {
		t.Fatalf("want ErrNotManaged, got %v", err)
	}
}

func TestCreateRejectsForeignRoom(t *testing.T) {
	svc := New(newTestStore(t))

	_, err := svc.Create(context.Background(), manager, CreateRequest{
		MovieID: "m1", TheaterID: 1, RoomID: "r2", ShiftID: "sh1", Date: "2025-03-02",
		StandardPrice: 50000, VIPPrice: 80000,
	})
	if !errors.Is(err, ErrRoomMismatch) {
		t.Fatalf("want ErrRoomMismatch, got %v", err)
	}
}

func TestCreateScheduleConflict(t *testing.T) {
	svc := New(newTestStore(t))

	_, err := svc.Create(context.Background(), manager, CreateRequest{
		MovieID: "m1", TheaterID: 1, RoomID: "r1", ShiftID: "sh1", Date: "2025-03-01",
		StandardPrice: 50000, VIPPrice: 80000,
	})
	if !errors.Is(err, store.ErrScheduleConflict) {
		t.Fatalf("want ErrScheduleConflict, got %v", err)
	}
}

func TestDeleteOwnershipAndHistory(t *testing.T) {
	fs := newTestStore(t)
	ctx := context.Background()
	svc := New(fs)

	outsider := auth.Actor{UserID: "u9", Role: model.RoleManagement, ManagedTheaters: []int{2}}
	if err := svc.Delete(ctx, outsider, "st1"); !errors.Is(err, ErrNotManaged) {
		t.Fatalf("outsider delete: want ErrNotManaged, got %v", err)
	}

	if err := svc.Delete(ctx, manager, "st1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := fs.Showtime(ctx, "st1"); !errors.Is(err, store.ErrShowtimeNotFound) {
		t.Fatalf("showtime still present: %v", err)
	}

	if err := svc.Delete(ctx, manager, "st1"); !errors.Is(err, store.ErrShowtimeNotFound) {
		t.Fatalf("missing delete: %v", err)
	}
}
