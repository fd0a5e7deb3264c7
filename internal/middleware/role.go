package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ticketbari/marketplace/internal/repository"
)

// RequireRole returns a middleware that enforces that the authenticated
// user's STORED role matches one of the allowed roles.  The role is read
// from the users table on every request rather than trusted from the token,
// so a demotion or a fraud ban takes effect immediately even while old
// access tokens are still circulating.  Requests with a missing user record
// or a non-matching role are rejected with 403.  It assumes Auth has already
// placed the verified email into the context.
func RequireRole(users *repository.UserRepo, roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, ok := c.Get("email").(string)
			if !ok || email == "" {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			u, err := users.GetByEmail(ctx, email)
			if err != nil || !allowed[u.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
