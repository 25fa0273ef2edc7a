package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/russiantown/portal/internal/backend"
	"github.com/russiantown/portal/internal/infrastructure/http/handlers"
)

// EndpointPath is where the reference backend serves its single endpoint.
const EndpointPath = "/api"

// NewRouter builds the reference backend: health probes plus the action
// endpoint, open to any origin.
func NewRouter(h *backend.Handler, checks map[string]handlers.Pinger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{echo.HeaderContentType},
		MaxAge:       86400,
	}))

	// --- Health probes ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Action endpoint ---
	e.Any(EndpointPath, h.Handle)

	return e
}
