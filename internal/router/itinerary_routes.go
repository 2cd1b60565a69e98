package router

import (
    "github.com/jmoiron/sqlx"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-marketplace/internal/handler"
    "github.com/iliyamo/travel-marketplace/internal/repository"
)

// RegisterItinerary registers itineraries, their containers and the
// owner-only itinerary request routes.
func RegisterItinerary(api *echo.Group, db *sqlx.DB, auth echo.MiddlewareFunc) {
    requestRepo := repository.NewItineraryRequestRepo(db)
    itineraryRepo := repository.NewItineraryRepo(db)

    g := api.Group("/itinerary")

    // ---- Requests (owner only) ----
    req := handler.NewRequestResource(requestRepo)
    g.GET("/request/", req.List, auth)
    g.POST("/request/", req.Create, auth)
    g.GET("/request/:id", req.Get, auth)
    g.PUT("/request/:id", req.Update, auth)
    g.PATCH("/request/:id", req.Update, auth)
    g.DELETE("/request/:id", req.Delete, auth)
    g.POST("/request/:id/delete", req.Delete, auth)

    // ---- Itineraries ----
    mount(g, handler.NewItineraryResource(itineraryRepo, requestRepo))

    // ---- Containers ----
    places := handler.NewPlaceResource(repository.NewPlaceContainerRepo(db), itineraryRepo)
    g.GET("/:id/places", places.List)
    g.POST("/:id/places", places.Create)
    g.GET("/places/:cid", places.Get)
    g.PUT("/places/:cid", places.Update)
    g.PATCH("/places/:cid", places.Update)
    g.DELETE("/places/:cid", places.Delete)

    transports := handler.NewTransportResource(repository.NewTransportContainerRepo(db), itineraryRepo)
    g.GET("/:id/transports", transports.List)
    g.POST("/:id/transports", transports.Create)
    g.GET("/transports/:cid", transports.Get)
    g.PUT("/transports/:cid", transports.Update)
    g.PATCH("/transports/:cid", transports.Update)
    g.DELETE("/transports/:cid", transports.Delete)
}
