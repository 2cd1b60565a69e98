package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-marketplace/internal/handler"
    "github.com/iliyamo/travel-marketplace/internal/middleware"
)

// RegisterPoint registers point events, details and the balance lookup.
// Reading events and balances requires the owner's cookie.
func RegisterPoint(api *echo.Group, h *handler.PointHandler, auth echo.MiddlewareFunc) {
    g := api.Group("/point")

    g.GET("/events", h.MyEvents.List, auth)
    g.GET("/events/:id", h.MyEvents.Get, auth)
    g.POST("/events", h.Events.Create)
    g.PUT("/events/:id", h.Events.Update)
    g.PATCH("/events/:id", h.Events.Update)
    g.DELETE("/events/:id", h.Events.Delete)

    g.GET("/details/list", h.Details.List)
    g.GET("/details/:id", h.Details.Get)
    g.POST("/details", h.Details.Create)
    g.PUT("/details/:id", h.Details.Update)
    g.PATCH("/details/:id", h.Details.Update)
    g.DELETE("/details/:id", h.Details.Delete)

    g.GET("/user/:user_id/balance", h.Balance, auth, middleware.RequireSelf("user_id"))
}
