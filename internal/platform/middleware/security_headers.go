package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityHeaders returns middleware that sets security response headers
// on every request. The API carries patient data, so responses must not
// be sniffed, framed or cached by intermediaries.
//
// Report rendering paths are exempt from the no-store rule and the strict
// CSP: the print view is a full HTML document the browser must render,
// and exported files may be re-downloaded from cache.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

			if !strings.Contains(c.Request().URL.Path, "/reports/") {
				h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
				h.Set("Cache-Control", "no-store")
			}

			return next(c)
		}
	}
}
