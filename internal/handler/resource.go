package handler

import (
    "context"
    "net/http"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-marketplace/internal/apperr"
    "github.com/iliyamo/travel-marketplace/internal/repository"
)

// Creator turns a validated create body into a new entity.
type Creator[E any] interface {
    Entity() *E
}

// QueryFilter parses a query-string value into a column filter value.
type QueryFilter func(raw string) (any, error)

// Resource serves list/get/create/update/delete for one table.  C is the
// create body and U the partial-update body; both are bound and validated
// before use.  Every hook is optional.
type Resource[E any, K repository.Key, C Creator[E], U repository.Patch] struct {
    Name    string // resource name used in error messages
    Store   repository.Store[E, K]
    Param   string // path parameter carrying the id, "id" when empty
    ParseID func(raw string) (K, error)

    // Filters lists the columns a client may filter the listing by.
    Filters map[string]QueryFilter
    // Scope adds filters the caller cannot override, e.g. the owner.
    Scope func(c echo.Context) ([]repository.Filter, error)
    // Prepare runs on a new entity before insert.
    Prepare func(c echo.Context, e *E) error
    // Authorize runs on the stored entity before it is returned, changed
    // or deleted.
    Authorize func(c echo.Context, e *E) error
    // Created and Updated run after a successful write.
    Created func(c echo.Context, e *E)
    Updated func(c echo.Context, before, after *E)
}

func (h *Resource[E, K, C, U]) param() string {
    if h.Param == "" {
        return "id"
    }
    return h.Param
}

func (h *Resource[E, K, C, U]) id(c echo.Context) (K, error) {
    return h.ParseID(c.Param(h.param()))
}

// List handles GET .../list.
func (h *Resource[E, K, C, U]) List(c echo.Context) error {
    page, err := parsePage(c)
    if err != nil {
        return err
    }
    filters, err := h.filters(c)
    if err != nil {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    items, err := h.Store.List(ctx, page, filters...)
    if err != nil {
        return mapRepoErr(err, h.Name)
    }
    return c.JSON(http.StatusOK, items)
}

func (h *Resource[E, K, C, U]) filters(c echo.Context) ([]repository.Filter, error) {
    var out []repository.Filter
    for column, parse := range h.Filters {
        raw := c.QueryParam(column)
        if raw == "" {
            continue
        }
        v, err := parse(raw)
        if err != nil {
            return nil, apperr.BadRequest("invalid " + column)
        }
        out = append(out, repository.Eq(column, v))
    }
    if h.Scope != nil {
        forced, err := h.Scope(c)
        if err != nil {
            return nil, err
        }
        out = append(out, forced...)
    }
    return out, nil
}

// Get handles GET .../:id.
func (h *Resource[E, K, C, U]) Get(c echo.Context) error {
    id, err := h.id(c)
    if err != nil {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    e, err := h.load(c, ctx, id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, e)
}

// Create handles POST; responds 201 with the stored row.
func (h *Resource[E, K, C, U]) Create(c echo.Context) error {
    var in C
    if err := bind(c, &in); err != nil {
        return err
    }
    e := in.Entity()
    if h.Prepare != nil {
        if err := h.Prepare(c, e); err != nil {
            return err
        }
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    created, err := h.Store.Create(ctx, e)
    if err != nil {
        return mapRepoErr(err, h.Name)
    }
    if h.Created != nil {
        h.Created(c, created)
    }
    return c.JSON(http.StatusCreated, created)
}

// Update handles PUT and PATCH; only the fields present in the body change.
func (h *Resource[E, K, C, U]) Update(c echo.Context) error {
    id, err := h.id(c)
    if err != nil {
        return err
    }
    var in U
    if err := bind(c, &in); err != nil {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    before, err := h.load(c, ctx, id)
    if err != nil {
        return err
    }
    after, err := h.Store.Update(ctx, id, in)
    if err != nil {
        return mapRepoErr(err, h.Name)
    }
    if h.Updated != nil {
        h.Updated(c, before, after)
    }
    return c.JSON(http.StatusOK, after)
}

// Delete handles DELETE; responds 204.
func (h *Resource[E, K, C, U]) Delete(c echo.Context) error {
    id, err := h.id(c)
    if err != nil {
        return err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()

    if h.Authorize != nil {
        if _, err := h.load(c, ctx, id); err != nil {
            return err
        }
    }
    if _, err := h.Store.Delete(ctx, id); err != nil {
        return mapRepoErr(err, h.Name)
    }
    return c.NoContent(http.StatusNoContent)
}

func (h *Resource[E, K, C, U]) load(c echo.Context, ctx context.Context, id K) (*E, error) {
    e, err := h.Store.Get(ctx, id)
    if err != nil {
        return nil, mapRepoErr(err, h.Name)
    }
    if h.Authorize != nil {
        if err := h.Authorize(c, e); err != nil {
            return nil, err
        }
    }
    return e, nil
}

func uuidFilter(raw string) (any, error) { return uuid.Parse(raw) }

func int64Filter(raw string) (any, error) { return parseInt64(raw) }
