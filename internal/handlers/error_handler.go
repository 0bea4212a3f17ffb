package handlers

import (
	"net/http"

	"collabhub/internal/common"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// NewHTTPErrorHandler converts every error that escapes a handler into the
// shared wire shape. Internal causes are logged with the request id and never
// serialized.
func NewHTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		requestID := common.GetRequestIDFromContext(c.Request().Context())

		var appErr *common.AppError
		if httpErr, ok := err.(*echo.HTTPError); ok {
			switch httpErr.Code {
			case http.StatusNotFound:
				appErr = common.NotFound("Route not found")
			case http.StatusMethodNotAllowed:
				appErr = common.BadRequest("Method not allowed")
			default:
				appErr = common.Internal(err)
			}
		} else {
			appErr = common.AsAppError(err)
		}

		if appErr.Kind == common.KindInternal {
			logger.Error().Err(err).
				Str("request_id", requestID).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		if writeErr := c.JSON(appErr.HTTPStatus(), common.NewErrorResponse(appErr, requestID)); writeErr != nil {
			logger.Error().Err(writeErr).Str("request_id", requestID).Msg("failed to write error response")
		}
	}
}
