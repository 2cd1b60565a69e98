package middleware // middleware provides shared request processing for handlers

import (
    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/iliyamo/travel-marketplace/internal/apperr"
)

// CheckSelf fails with 403 unless the requested user id is the
// authenticated one.
func CheckSelf(requested, actual string) error {
    if requested == "" || requested != actual {
        return apperr.Forbidden("you can only act on your own account")
    }
    return nil
}

// RequireSelf returns a middleware that compares the path parameter named
// param with the user stored by CookieAuth.  It must run after CookieAuth.
func RequireSelf(param string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if err := CheckSelf(c.Param(param), CurrentUserID(c)); err != nil {
                return err
            }
            return next(c)
        }
    }
}
