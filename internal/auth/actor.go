// Package auth defines the request-scoped authorization context.  The
// actor is built once per request from validated token claims and
// passed explicitly into services; nothing below the transport layer
// reads identity ambiently.
package auth

import "github.com/cinebox/box-office/internal/model"

// Actor is the authenticated identity behind a request: who they are,
// their role, and (for management users) the theaters they may manage.
type Actor struct {
	UserID          string
	Username        string
	Role            string
	ManagedTheaters []int
}

// IsManagement reports whether the actor holds the management role.
func (a Actor) IsManagement() bool { return a.Role == model.RoleManagement }

// Manages reports whether the actor may manage the given theater.
func (a Actor) Manages(theaterID int) bool {
	for _, id := range a.ManagedTheaters {
		if id == theaterID {
			return true
		}
	}
	return false
}
