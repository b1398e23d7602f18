package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// authClaims carries the identity fields the Auth middleware stores on the
// request context.
type authClaims struct {
	UserID    string
	Username  string
	Role      string
	SessionID string
}

// ctxClaims extracts the auth claims injected by the Auth middleware. A
// missing user id or role means the middleware never ran for this route,
// which is a wiring error surfaced as 401 rather than a panic downstream.
func ctxClaims(c echo.Context) (authClaims, error) {
	claims := authClaims{}
	claims.UserID, _ = c.Get("user_id").(string)
	claims.Username, _ = c.Get("username").(string)
	claims.Role, _ = c.Get("role").(string)
	claims.SessionID, _ = c.Get("session_id").(string)

	if claims.UserID == "" || claims.Role == "" {
		return authClaims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
