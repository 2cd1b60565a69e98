package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/jmoiron/sqlx"                          // database handle shared by every repository
    "github.com/labstack/echo/v4"                      // import the Echo web framework to handle routing
    echomw "github.com/labstack/echo/v4/middleware"    // Echo's stock middleware (recover, CORS)
    "github.com/prometheus/client_golang/prometheus"   // metrics registry exposed on /metrics
    "github.com/redis/go-redis/v9"                     // optional backend of the rate limiter
    "github.com/rs/zerolog"                            // structured logging

    "github.com/iliyamo/travel-marketplace/internal/config"
    "github.com/iliyamo/travel-marketplace/internal/curation"
    "github.com/iliyamo/travel-marketplace/internal/handler"
    "github.com/iliyamo/travel-marketplace/internal/metrics"
    "github.com/iliyamo/travel-marketplace/internal/middleware"
    "github.com/iliyamo/travel-marketplace/internal/repository"
    "github.com/iliyamo/travel-marketplace/internal/service"
    "github.com/iliyamo/travel-marketplace/internal/utils"
)

// APIPrefix is the common prefix of every resource route.
const APIPrefix = "/api/v1"

// Deps is everything the HTTP layer needs.  Redis, Metrics, Gatherer and
// Curator are optional.
type Deps struct {
    Cfg       config.Config
    RateLimit config.RateLimitConfig
    DB        *sqlx.DB
    Redis     *redis.Client
    Tokens    *utils.TokenService
    Notifier  *service.Notifier
    Curator   *curation.Service
    Metrics   *metrics.Collector
    Gatherer  prometheus.Gatherer
    Log       zerolog.Logger
}

// New builds the Echo instance with the global middleware chain and every
// route registered.
func New(d Deps) *echo.Echo {
    e := echo.New()
    e.HideBanner = true
    e.HidePort = true
    e.Validator = handler.NewValidator()
    e.HTTPErrorHandler = middleware.ErrorHandler(d.Log)

    // RequestLog sits outermost so it sees errors produced by Recover and
    // the rate limiter.
    var rec middleware.RequestRecorder
    var bal handler.BalanceRecorder
    if d.Metrics != nil {
        rec, bal = d.Metrics, d.Metrics
    }
    e.Use(middleware.RequestLog(d.Log, rec))
    e.Use(echomw.Recover())
    if d.Cfg.CORSAll {
        e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
            AllowOrigins:     []string{"*"},
            AllowCredentials: true,
            // reflect the caller's origin; CORS_ALL is a development switch
            UnsafeWildcardOriginWithAllowCredentials: true,
        }))
    }
    e.Use(middleware.RateLimit(d.RateLimit, d.Redis, d.Log))

    if d.Notifier == nil {
        d.Notifier = service.NewNotifier(nil, d.Log, nil)
    }
    if d.Curator == nil {
        d.Curator = curation.NewService(repository.NewAreaRepo(d.DB), nil, d.Log)
    }

    if d.Gatherer != nil {
        e.GET("/metrics", echo.WrapHandler(metrics.Handler(d.Gatherer)))
    }

    api := e.Group(APIPrefix)
    api.GET("/ping", handler.Ping)

    auth := middleware.CookieAuth(d.Tokens)

    RegisterUser(api, handler.NewUserHandler(d.Cfg, repository.NewUserRepo(d.DB), d.Tokens, d.Notifier), auth)
    RegisterCatalog(api, d.DB, d.Curator, d.Notifier)
    RegisterItinerary(api, d.DB, auth)
    RegisterPoint(api, handler.NewPointHandler(
        repository.NewPointEventRepo(d.DB),
        repository.NewPointDetailRepo(d.DB),
        d.Notifier,
        bal,
    ), auth)
    return e
}

// resource is the handler set behind the uniform list/get/create/update/
// delete routes.
type resource interface {
    List(c echo.Context) error
    Get(c echo.Context) error
    Create(c echo.Context) error
    Update(c echo.Context) error
    Delete(c echo.Context) error
}

// mount registers the uniform routes of r on g.
func mount(g *echo.Group, r resource) {
    g.GET("/list", r.List)
    g.GET("/:id", r.Get)
    g.POST("/", r.Create)
    g.PUT("/:id", r.Update)
    g.PATCH("/:id", r.Update)
    g.DELETE("/:id", r.Delete)
}
