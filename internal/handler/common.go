package handler // handler defines http handlers

import (
    "context"  // per-request deadlines for repository calls
    "errors"   // errors.Is/As against repository sentinels
    "strconv"  // strconv converts query and path values
    "time"     // request timeout

    "github.com/google/uuid"      // uuid parses UUID path parameters
    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/travel-marketplace/internal/apperr"     // client-facing error taxonomy
    "github.com/iliyamo/travel-marketplace/internal/middleware" // authenticated user lookup
    "github.com/iliyamo/travel-marketplace/internal/repository" // repository sentinels and paging
)

// requestTimeout bounds every database call made by a handler.
const requestTimeout = 5 * time.Second

// Default window for list endpoints.
const (
    defaultSkip  = 0
    defaultLimit = 100
)

// reqCtx derives the context used for repository calls.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// getUserID returns the authenticated user's id stored by CookieAuth.
func getUserID(c echo.Context) (uuid.UUID, error) {
    raw := middleware.CurrentUserID(c)
    if raw == "" {
        return uuid.Nil, apperr.Unauthorized("not authenticated")
    }
    id, err := uuid.Parse(raw)
    if err != nil {
        return uuid.Nil, apperr.Unauthorized("invalid token subject")
    }
    return id, nil
}

// parsePage reads ?skip= and ?limit=.  Missing values take the defaults;
// negative or non-numeric values are rejected.
func parsePage(c echo.Context) (repository.Page, error) {
    skip, err := queryInt(c, "skip", defaultSkip)
    if err != nil {
        return repository.Page{}, err
    }
    limit, err := queryInt(c, "limit", defaultLimit)
    if err != nil {
        return repository.Page{}, err
    }
    return repository.Page{Skip: skip, Limit: limit}, nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
    raw := c.QueryParam(name)
    if raw == "" {
        return def, nil
    }
    n, err := strconv.Atoi(raw)
    if err != nil || n < 0 {
        return 0, apperr.BadRequest(name + " must be a non-negative integer")
    }
    return n, nil
}

// parseUUID reads a UUID path parameter.
func parseUUID(raw string) (uuid.UUID, error) {
    id, err := uuid.Parse(raw)
    if err != nil {
        return uuid.Nil, apperr.BadRequest("invalid id")
    }
    return id, nil
}

// parseInt64 reads an integer path parameter.
func parseInt64(raw string) (int64, error) {
    id, err := strconv.ParseInt(raw, 10, 64)
    if err != nil || id <= 0 {
        return 0, apperr.BadRequest("invalid id")
    }
    return id, nil
}

// bind decodes the body into dst and runs the registered validator.
func bind(c echo.Context, dst any) error {
    if err := c.Bind(dst); err != nil {
        return apperr.BadRequest("invalid body").WithError(err)
    }
    if err := c.Validate(dst); err != nil {
        return err
    }
    return nil
}

// mapRepoErr converts repository sentinels to client errors.  what names
// the resource in the message, e.g. "area".
func mapRepoErr(err error, what string) error {
    var ae *apperr.AppError
    switch {
    case err == nil:
        return nil
    case errors.As(err, &ae):
        return ae
    case errors.Is(err, repository.ErrNotFound):
        return apperr.NotFound(what + " not found")
    case errors.Is(err, repository.ErrConflict):
        return apperr.Conflict(what + " already exists")
    case errors.Is(err, repository.ErrForbidden):
        return apperr.Forbidden("")
    }
    return apperr.Internal(err)
}
