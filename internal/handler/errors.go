package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-screening-booking/internal/apperror"
)

type errorDetail struct {
	Message string                `json:"message"`
	Fields  []apperror.FieldError `json:"fields,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

// ErrorHandler is the single place where errors become HTTP responses.
// Classified errors keep their status and message, echo errors (unknown
// route, wrong method, rate limit) keep their code, and anything else is a
// logged 500 whose cause is not exposed.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := errorBody{Error: errorDetail{Message: "internal server error"}}

		var he *echo.HTTPError
		if ae, ok := apperror.As(err); ok && ae.Kind != apperror.KindInternal {
			status = ae.Kind.Status()
			body.Error = errorDetail{Message: ae.Message, Fields: ae.Fields}
		} else if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				body.Error.Message = m
			} else {
				body.Error.Message = fmt.Sprint(he.Message)
			}
		}

		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}
