// Package middleware contains reusable HTTP middleware: JWT
// authentication, role enforcement, Redis rate limiting and response
// caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/cinebox/box-office/internal/auth"
)

// actorKey is the context key the authenticated actor is stored under.
const actorKey = "actor"

// JWTAuth validates a Bearer access token and stores the resulting
// auth.Actor in the request context.  Protected handlers retrieve it
// with ActorFrom.  The secret must match the one used to sign tokens.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			actor := auth.Actor{}
			if v, ok := claims["sub"].(string); ok {
				actor.UserID = v
			}
			if v, ok := claims["username"].(string); ok {
				actor.Username = v
			}
			if v, ok := claims["role"].(string); ok {
				actor.Role = v
			}
			// JSON numbers decode as float64
			if raw, ok := claims["theaters"].([]interface{}); ok {
				for _, v := range raw {
					if f, ok := v.(float64); ok {
						actor.ManagedTheaters = append(actor.ManagedTheaters, int(f))
					}
				}
			}
			if actor.UserID == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// ActorFrom returns the authenticated actor stored by JWTAuth.  The
// second return is false when the request was not authenticated.
func ActorFrom(c echo.Context) (auth.Actor, bool) {
	a, ok := c.Get(actorKey).(auth.Actor)
	return a, ok
}
