package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinebox/box-office/internal/middleware"
	"github.com/cinebox/box-office/internal/schedule"
	"github.com/cinebox/box-office/internal/store"
)

// ScheduleHandler serves the management scheduling endpoints.
type ScheduleHandler struct {
	Schedule *schedule.Service
}

func NewScheduleHandler(s *schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{Schedule: s}
}

type createShowtimeReq struct {
	MovieID       string `json:"movieId"`
	TheaterID     int    `json:"theaterId"`
	RoomID        string `json:"roomId"`
	ShiftID       string `json:"shiftId"`
	Date          string `json:"date"`
	StandardPrice int64  `json:"standardPrice"`
	VIPPrice      int64  `json:"vipPrice"`
}

// List returns the schedule of every theater the actor manages, with
// sales status per showtime.
func (h *ScheduleHandler) List(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.Schedule.List(ctx, actor)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": entries})
}

// Create schedules a new showtime in one of the actor's theaters.
func (h *ScheduleHandler) Create(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createShowtimeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	st, err := h.Schedule.Create(ctx, actor, schedule.CreateRequest{
		MovieID:       req.MovieID,
		TheaterID:     req.TheaterID,
		RoomID:        req.RoomID,
		ShiftID:       req.ShiftID,
		Date:          req.Date,
		StandardPrice: req.StandardPrice,
		VIPPrice:      req.VIPPrice,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrNotManaged):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "theater not managed by you"})
		case errors.Is(err, schedule.ErrRoomMismatch):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "room does not belong to theater"})
		case errors.Is(err, store.ErrTheaterNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		case errors.Is(err, store.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case errors.Is(err, store.ErrScheduleConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room already scheduled for this shift and date"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, st)
}

// Delete removes a showtime and its sales history.
func (h *ScheduleHandler) Delete(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Schedule.Delete(ctx, actor, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, store.ErrShowtimeNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		case errors.Is(err, schedule.ErrNotManaged):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "theater not managed by you"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
