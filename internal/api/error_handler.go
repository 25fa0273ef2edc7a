package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/russiantown/portal/internal/api/handler"
	"github.com/russiantown/portal/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler renders every error returned by a handler as
// {"error": "..."}. Echo errors keep their code, portal errors go through
// handler.StatusFor, and anything unknown is logged and hidden behind a 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := classify(err)
		switch {
		case code == http.StatusInternalServerError:
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		case code == http.StatusBadGateway:
			log.Warn().Err(err).Str("path", c.Path()).Msg("backend unavailable")
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func classify(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}
	if code := handler.StatusFor(err); code != http.StatusInternalServerError {
		return code, domain.ErrorMessage(err)
	}
	return http.StatusInternalServerError, "internal server error"
}
