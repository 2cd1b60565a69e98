package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "errors" // errors distinguishes expired tokens from other failures

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/travel-marketplace/internal/apperr" // client-facing error taxonomy
    "github.com/iliyamo/travel-marketplace/internal/utils"  // token resolution
)

// AccessTokenCookie is the cookie holding "Bearer <jwt>".
const AccessTokenCookie = "access_token"

// ContextUserID is the echo context key holding the authenticated user's id.
const ContextUserID = "user_id"

// CookieAuth returns an Echo middleware that reads the access_token cookie,
// resolves it and stores the token's subject under "user_id".  A missing
// cookie is a bad request; an unusable token is unauthorized.
func CookieAuth(tokens *utils.TokenService) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            cookie, err := c.Cookie(AccessTokenCookie)
            if err != nil || cookie.Value == "" {
                return apperr.BadRequest("authentication cookie missing")
            }
            _, sub, err := tokens.Resolve(cookie.Value)
            if err != nil {
                if errors.Is(err, utils.ErrTokenExpired) {
                    return apperr.Unauthorized("token expired").WithError(err)
                }
                return apperr.Unauthorized("invalid token").WithError(err)
            }
            c.Set(ContextUserID, sub)
            return next(c)
        }
    }
}
