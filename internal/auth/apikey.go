package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// AdminKeyAuth creates middleware that guards admin routes with the shared
// admin API key. Supports both X-API-Key header and Bearer token
// authentication. With no key configured the admin surface is closed, not
// open.
func AdminKeyAuth(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if apiKey == "" {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "Admin API is not configured")
			}

			var key string
			if v := c.Request().Header.Get("X-API-Key"); v != "" {
				key = v
			} else if authz := c.Request().Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
				key = strings.TrimPrefix(authz, "Bearer ")
			}

			if key == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing API key")
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid API key")
			}

			return next(c)
		}
	}
}
