package layout

import (
	"errors"
	"testing"

	"github.com/cinebox/box-office/internal/model"
)

func TestClassify(t *testing.T) {
	l := model.SeatLayout{Rows: 10, Cols: 10, VIPRows: []int{0, 1}}

	cases := []struct {
		seat string
		want model.SeatClass
	}{
		{"A1", model.SeatVIP},
		{"B10", model.SeatVIP},
		{"C5", model.SeatStandard},
		{"J10", model.SeatStandard},
	}
	for _, tc := range cases {
		got, err := Classify(tc.seat, l)
		if err != nil {
			t.Fatalf("Classify(%q): unexpected error %v", tc.seat, err)
		}
		if got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.seat, got, tc.want)
		}
	}
}

func TestClassifyInvalid(t *testing.T) {
	l := model.SeatLayout{Rows: 6, Cols: 10, VIPRows: []int{0}}

	for _, seat := range []string{"", "A", "5", "G1", "A0", "A11", "A01", "a1", "AA", "Z99"} {
		_, err := Classify(seat, l)
		var inv *ErrInvalidSeatID
		if !errors.As(err, &inv) {
			t.Errorf("Classify(%q): want ErrInvalidSeatID, got %v", seat, err)
			continue
		}
		if inv.Seat != seat {
			t.Errorf("Classify(%q): error reports seat %q", seat, inv.Seat)
		}
	}
}

func TestEnumerate(t *testing.T) {
	l := model.SeatLayout{Rows: 2, Cols: 3}
	got := Enumerate(l)
	want := []string{"A1", "A2", "A3", "B1", "B2", "B3"}
	if len(got) != len(want) {
		t.Fatalf("Enumerate: got %d seats, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Enumerate[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// Every enumerated seat must classify without error.
func TestEnumerateClassifyTotal(t *testing.T) {
	l := model.SeatLayout{Rows: 10, Cols: 10, VIPRows: []int{0, 1}}
	for _, seat := range Enumerate(l) {
		if _, err := Classify(seat, l); err != nil {
			t.Fatalf("Classify(%q): %v", seat, err)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	l := model.SeatLayout{Rows: 10, Cols: 12}
	row, col, err := Parse("D12", l)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if row != 3 || col != 12 {
		t.Fatalf("Parse(D12) = (%d,%d), want (3,12)", row, col)
	}
	if id := SeatID(row, col); id != "D12" {
		t.Fatalf("SeatID(3,12) = %q", id)
	}
}
