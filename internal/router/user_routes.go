package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-marketplace/internal/handler"
    "github.com/iliyamo/travel-marketplace/internal/middleware"
)

// RegisterUser registers the account routes.  Signup, login and logout are
// open; editing and deleting require the caller's own cookie.
func RegisterUser(api *echo.Group, h *handler.UserHandler, auth echo.MiddlewareFunc) {
    g := api.Group("/user")
    g.GET("/list", h.List)
    g.GET("/:id", h.Get)
    g.POST("/signup", h.Signup)
    g.POST("/login", h.Login)
    g.POST("/logout", h.Logout)

    self := middleware.RequireSelf("id")
    g.PUT("/:id", h.Update, auth, self)
    g.PATCH("/:id", h.Update, auth, self)
    g.DELETE("/:id", h.Delete, auth, self)
}
