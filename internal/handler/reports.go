package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinebox/box-office/internal/middleware"
	"github.com/cinebox/box-office/internal/report"
)

// ReportHandler serves management revenue reports.
type ReportHandler struct {
	Reports *report.Service
}

func NewReportHandler(r *report.Service) *ReportHandler {
	return &ReportHandler{Reports: r}
}

type monthlyReq struct {
	Month      string `json:"month"` // "YYYY-MM"
	TheaterIDs []int  `json:"theaterIds,omitempty"`
}

// Monthly aggregates a month of ticket sales per shift for the actor's
// theaters.  An empty theaterIds reports the whole managed set.
func (h *ReportHandler) Monthly(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req monthlyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	rep, err := h.Reports.Monthly(ctx, actor, req.TheaterIDs, req.Month)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrBadMonth):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "month must be YYYY-MM"})
		case errors.Is(err, report.ErrNotManaged):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "theater not managed by you"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "report failed"})
	}
	return c.JSON(http.StatusOK, rep)
}
