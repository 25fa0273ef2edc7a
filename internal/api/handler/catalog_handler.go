package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/russiantown/portal/internal/core/domain"
)

// CatalogHandler serves the static faction and staff directories.
type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// Factions handles GET /api/factions[?type=open|closed|criminal].
func (h *CatalogHandler) Factions(c echo.Context) error {
	typ := c.QueryParam("type")
	if typ == "" {
		return c.JSON(http.StatusOK, factionsResponse{Factions: domain.Factions()})
	}

	ft := domain.FactionType(typ)
	if !ft.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "type must be one of: open closed criminal")
	}
	return c.JSON(http.StatusOK, factionsResponse{Factions: domain.FactionsByType(ft)})
}

// Administration handles GET /api/administration.
func (h *CatalogHandler) Administration(c echo.Context) error {
	return c.JSON(http.StatusOK, administrationResponse{Staff: domain.Administration()})
}
