package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// targetID reads the :id path parameter of a moderation route.
func targetID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}
