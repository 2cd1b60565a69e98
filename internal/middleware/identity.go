package middleware

// identity.go holds the helper shared by middleware that needs to know who
// is calling.

import "github.com/labstack/echo/v4"

// CurrentUserID returns the id stored by CookieAuth, or "" for anonymous
// requests.
func CurrentUserID(c echo.Context) string {
    if s, ok := c.Get(ContextUserID).(string); ok {
        return s
    }
    return ""
}

// userKey is CurrentUserID with a placeholder for anonymous callers, for use
// in log fields and rate-limit keys.
func userKey(c echo.Context) string {
    if id := CurrentUserID(c); id != "" {
        return id
    }
    return "anon"
}
