package store

// Sentinel errors shared by both store drivers.  Handlers and services
// use errors.Is against these values to map persistence failures to
// responses without caring which driver is active.

import "errors"

// ErrShowtimeNotFound is returned when no showtime exists with the
// requested id.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrRoomNotFound is returned when no screening room exists with the
// requested id.
var ErrRoomNotFound = errors.New("screening room not found")

// ErrTheaterNotFound is returned when no theater exists with the
// requested id.
var ErrTheaterNotFound = errors.New("theater not found")

// ErrUserNotFound is returned when no user exists with the requested
// username.
var ErrUserNotFound = errors.New("user not found")

// ErrTokenNotFound is returned when a refresh token hash is unknown,
// expired or already revoked.
var ErrTokenNotFound = errors.New("refresh token not found")

// ErrScheduleConflict is returned when a new showtime would occupy the
// same room, shift and date as an existing one.  Handlers translate
// this into an HTTP 409 response.
var ErrScheduleConflict = errors.New("schedule conflict")
