package router

import (
    "github.com/jmoiron/sqlx"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-marketplace/internal/curation"
    "github.com/iliyamo/travel-marketplace/internal/handler"
    "github.com/iliyamo/travel-marketplace/internal/repository"
    "github.com/iliyamo/travel-marketplace/internal/service"
)

// RegisterCatalog registers areas (with images and curation), listings,
// orders, reviews and hashtags.  None of them require authentication.
func RegisterCatalog(api *echo.Group, db *sqlx.DB, curator *curation.Service, n *service.Notifier) {
    areas := handler.NewAreaHandler(repository.NewAreaRepo(db), repository.NewAreaImageRepo(db), curator)

    ag := api.Group("/area")
    ag.GET("/curation", areas.Curation)
    ag.POST("/add", areas.Areas.Create)
    mount(ag, areas.Areas)

    ag.GET("/:id/images", areas.ListImages)
    ag.POST("/:id/images", areas.AddImage)
    ag.GET("/images/:image_id", areas.Images.Get)
    ag.PUT("/images/:image_id", areas.Images.Update)
    ag.PATCH("/images/:image_id", areas.Images.Update)
    ag.DELETE("/images/:image_id", areas.Images.Delete)

    mount(api.Group("/listing"), handler.NewListingResource(repository.NewListingRepo(db)))
    mount(api.Group("/order"), handler.NewOrderResource(repository.NewOrderRepo(db), n))

    rg := api.Group("/review")
    mount(rg.Group("/user"), handler.NewUserReviewResource(repository.NewUserReviewRepo(db)))
    mount(rg.Group("/area"), handler.NewAreaReviewResource(repository.NewAreaReviewRepo(db)))

    mount(api.Group("/hashtag"), handler.NewHashtagResource(repository.NewHashtagRepo(db)))
}
