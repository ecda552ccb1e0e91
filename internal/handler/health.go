// Package handler exposes the HTTP surface of the box office: auth,
// sales, scheduling, reporting and public browsing.  Handlers bind
// request DTOs, call the domain services and translate domain errors
// into HTTP status codes.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness endpoint used by load balancers and
// monitoring.  It returns plain "ok" with a 200 status.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
