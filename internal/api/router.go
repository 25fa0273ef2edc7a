package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/russiantown/portal/internal/api/handler"
	"github.com/russiantown/portal/internal/api/middleware"
	"github.com/russiantown/portal/internal/core/ports"
	"github.com/russiantown/portal/internal/core/service"
	"github.com/russiantown/portal/internal/core/state"
	"github.com/russiantown/portal/internal/infrastructure/http/handlers"
)

// Dependencies is everything the portal router needs.
type Dependencies struct {
	Actions *service.Actions
	Session ports.SessionService
	Store   *state.Store
	// Checks are pinged by the readiness probe, keyed by dependency name.
	Checks map[string]handlers.Pinger
	// Registry receives the HTTP metrics. Use a fresh registry per router.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal_http",
		Registerer: deps.Registry,
	}))
	e.Use(middleware.Session(deps.Session))

	// --- Health probes and metrics (no session required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{deps.Registry, prometheus.DefaultGatherer},
	}))

	sessionHandler := handler.NewSessionHandler(deps.Actions, deps.Store)
	profileHandler := handler.NewProfileHandler(deps.Actions, deps.Store)
	moderationHandler := handler.NewModerationHandler(deps.Actions, deps.Store)
	catalogHandler := handler.NewCatalogHandler()

	g := e.Group("/api")

	// --- Public ---
	g.GET("/state", sessionHandler.State)
	g.POST("/reload", sessionHandler.Reload)
	g.POST("/session/login", sessionHandler.Login)
	g.POST("/session/register", sessionHandler.Register)
	g.DELETE("/session", sessionHandler.Logout)
	g.GET("/factions", catalogHandler.Factions)
	g.GET("/administration", catalogHandler.Administration)

	// --- Signed-in users ---
	g.POST("/posts", profileHandler.CreatePost, middleware.RequireUser())
	g.PUT("/me/avatar", profileHandler.SetAvatar, middleware.RequireUser())

	// --- Admin panel: any staff role ---
	staff := middleware.RequirePanel(middleware.AdminPanel)
	g.GET("/admin/targets", moderationHandler.AdminTargets, staff)
	g.PUT("/users/:id/ban", moderationHandler.ToggleBan, staff)
	g.PUT("/users/:id/mute", moderationHandler.ToggleMute, staff)

	// --- Owner panel ---
	owner := middleware.RequirePanel(middleware.OwnerPanel)
	g.GET("/owner/targets", moderationHandler.OwnerTargets, owner)
	g.PUT("/users/:id/role", moderationHandler.SetRole, owner)
	g.PUT("/users/:id/faction", moderationHandler.SetFaction, owner)
	g.DELETE("/users/:id", moderationHandler.Remove, owner)

	return e
}
