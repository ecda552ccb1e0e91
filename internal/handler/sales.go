package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinebox/box-office/internal/layout"
	"github.com/cinebox/box-office/internal/middleware"
	"github.com/cinebox/box-office/internal/model"
	"github.com/cinebox/box-office/internal/queue"
	"github.com/cinebox/box-office/internal/store"
	"github.com/cinebox/box-office/internal/ticketing"
)

// SalesHandler serves the counter workflow: finding a showtime, reading
// its seat map and committing a batch sale.  Publish is called after a
// committed sale; its failure is logged, never surfaced to the buyer.
type SalesHandler struct {
	Store   store.Store
	Tickets *ticketing.Service
	Publish func(context.Context, queue.TicketSoldEvent) error
}

func NewSalesHandler(st store.Store, tickets *ticketing.Service) *SalesHandler {
	return &SalesHandler{Store: st, Tickets: tickets, Publish: queue.PublishTicketSold}
}

// showtimeItem is one row of the showtime search, joined with display
// names so the counter UI needs no extra lookups.
type showtimeItem struct {
	model.Showtime
	MovieTitle  string `json:"movieTitle"`
	TheaterName string `json:"theaterName"`
	RoomName    string `json:"roomName"`
	ShiftName   string `json:"shiftName"`
	SoldTickets int    `json:"soldTickets"`
	Remaining   int    `json:"remaining"`
}

// SearchShowtimes lists showtimes matching the optional movie_id,
// shift_id and date query parameters.
func (h *SalesHandler) SearchShowtimes(c echo.Context) error {
	f := store.ShowtimeFilter{
		MovieID: strings.TrimSpace(c.QueryParam("movie_id")),
		ShiftID: strings.TrimSpace(c.QueryParam("shift_id")),
		Date:    strings.TrimSpace(c.QueryParam("date")),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	showtimes, err := h.Store.SearchShowtimes(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	ids := make([]string, len(showtimes))
	for i, st := range showtimes {
		ids[i] = st.ID
	}
	counts, err := h.Store.TicketCounts(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	movies, err := h.Store.Movies(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	shifts, err := h.Store.Shifts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	theaters, err := h.Store.Theaters(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	movieTitle := make(map[string]string, len(movies))
	for _, m := range movies {
		movieTitle[m.ID] = m.Title
	}
	shiftName := make(map[string]string, len(shifts))
	for _, s := range shifts {
		shiftName[s.ID] = s.Name
	}
	theaterName := make(map[int]string, len(theaters))
	for _, t := range theaters {
		theaterName[t.ID] = t.Name
	}

	items := make([]showtimeItem, 0, len(showtimes))
	for _, st := range showtimes {
		roomName := ""
		if room, err := h.Store.Room(ctx, st.RoomID); err == nil {
			roomName = room.Name
		}
		sold := counts[st.ID]
		items = append(items, showtimeItem{
			Showtime:    st,
			MovieTitle:  movieTitle[st.MovieID],
			TheaterName: theaterName[st.TheaterID],
			RoomName:    roomName,
			ShiftName:   shiftName[st.ShiftID],
			SoldTickets: sold,
			Remaining:   st.TotalSeats - sold,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// SeatMap returns the full per-seat availability view of one showtime.
func (h *SalesHandler) SeatMap(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sm, err := h.Tickets.SeatMap(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, sm)
}

type sellReq struct {
	Seats []string `json:"seats"`
}

// Sell commits a batch ticket sale for the showtime in the path.  The
// whole batch succeeds or nothing is sold.
func (h *SalesHandler) Sell(c echo.Context) error {
	id := c.Param("id")
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req sellReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	receipt, err := h.Tickets.Sell(ctx, id, req.Seats, actor.UserID)
	if err != nil {
		return sellError(c, err)
	}

	st, stErr := h.Store.Showtime(ctx, id)
	ev := soldEvent(st, stErr == nil, receipt, actor.UserID)
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pubCancel()
		if err := h.Publish(pubCtx, ev); err != nil {
			log.Printf("sales: ticket.sold publish failed: %v", err)
		}
	}()

	return c.JSON(http.StatusCreated, receipt)
}

func soldEvent(st model.Showtime, haveShowtime bool, r ticketing.Receipt, soldBy string) queue.TicketSoldEvent {
	ev := queue.TicketSoldEvent{
		TotalAmount: r.Total,
		SoldBy:      soldBy,
		SoldAt:      time.Now().UTC().Format(time.RFC3339),
	}
	for _, t := range r.Tickets {
		ev.ShowtimeID = t.ShowtimeID
		ev.Seats = append(ev.Seats, t.Seat)
	}
	if haveShowtime {
		ev.TheaterID = st.TheaterID
	}
	return ev
}

// sellError translates a ticketing failure into a response.  Conflicts
// (sold seat, exhausted capacity) are 409 so the counter can refresh
// its seat map and retry.
func sellError(c echo.Context, err error) error {
	var (
		invalid *layout.ErrInvalidSeatID
		soldOut *ticketing.CapacityError
		taken   *ticketing.SeatSoldError
		persist *ticketing.PersistenceError
	)
	switch {
	case errors.Is(err, store.ErrShowtimeNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
	case errors.Is(err, ticketing.ErrEmptySelection):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seats selected"})
	case errors.As(err, &invalid):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat", "seat": invalid.Seat})
	case errors.As(err, &soldOut):
		return c.JSON(http.StatusConflict, echo.Map{"error": "capacity exceeded", "remaining": soldOut.Remaining})
	case errors.As(err, &taken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seat already sold", "seat": taken.Seat})
	case errors.As(err, &persist):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sale could not be persisted"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sale failed"})
	}
}
