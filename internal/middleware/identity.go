package middleware

// identity.go holds helpers shared by the middleware and handler layers for
// pulling the verified identity back out of the Echo context.

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// CallerEmail returns the verified email stored by Auth.  The empty string
// means the request did not pass through Auth.
func CallerEmail(c echo.Context) string {
	if v, ok := c.Get("email").(string); ok {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return ""
}

// CallerID converts the subject claim stored by Auth to uint64.  JWT claim
// decoding yields float64 for numbers, so several representations are
// accepted.
func CallerID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}
