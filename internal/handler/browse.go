package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinebox/box-office/internal/store"
)

// BrowseHandler serves reference data every authenticated role reads:
// movies, shifts and theaters.  These collections change rarely, so the
// routes sit behind the response cache.
type BrowseHandler struct {
	Store store.Store
}

func NewBrowseHandler(st store.Store) *BrowseHandler {
	return &BrowseHandler{Store: st}
}

// Movies lists all movies available for scheduling.
func (h *BrowseHandler) Movies(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movies, err := h.Store.Movies(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movies})
}

// Shifts lists the named time slots.
func (h *BrowseHandler) Shifts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	shifts, err := h.Store.Shifts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": shifts})
}

// Theaters lists all theater locations.
func (h *BrowseHandler) Theaters(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	theaters, err := h.Store.Theaters(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": theaters})
}
