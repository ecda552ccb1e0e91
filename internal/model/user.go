package model

import "time"

// Role names carried in access tokens.  Sales staff sell tickets at any
// theater; management users schedule showtimes and read reports for the
// theaters assigned to them.
const (
	RoleSales      = "sales"
	RoleManagement = "management"
)

// User is a staff account.  The plain password is never stored, only
// its bcrypt hash.
//
// Fields:
//  ID           - unique user identifier.
//  Username     - unique login name.
//  PasswordHash - bcrypt hashed password.
//  Role         - RoleSales or RoleManagement.
//  FullName     - optional display name.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password"`
	Role         string `json:"role"`
	FullName     string `json:"fullName,omitempty"`
}

// RefreshToken is a persisted long-lived session token.  The plain
// token is returned to the client once; only its SHA-256 hex digest is
// stored.
//
// Fields:
//  UserID    - owner of the token.
//  TokenHash - SHA-256 hex digest of the raw token.
//  ExpiresAt - expiration timestamp.
type RefreshToken struct {
	UserID    string    `json:"userId"`
	TokenHash string    `json:"tokenHash"`
	ExpiresAt time.Time `json:"expiresAt"`
}
