package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/svgholder/svgholder/common/apperrors"
	"github.com/svgholder/svgholder/common/logger"
	"github.com/svgholder/svgholder/common/models"
	"github.com/svgholder/svgholder/common/validation"
)

// NewHTTPErrorHandler maps every error class to a status code and a
// failure envelope. Internal error detail is included only outside
// production.
func NewHTTPErrorHandler(log *logger.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := classify(err, log, production)

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			log.Error("failed to write error response", "error", writeErr)
		}
	}
}

func classify(err error, log *logger.Logger, production bool) (int, models.Response) {
	var (
		ve *apperrors.ValidationError
		nf *apperrors.NotFoundError
		ie *apperrors.InternalError
		he *echo.HTTPError
	)

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, models.Fail(ve.Message)

	case errors.As(err, &nf):
		return http.StatusNotFound, models.Fail(nf.Message)

	case errors.As(err, &ie):
		log.Error("internal failure", "error", err)
		body := models.Fail(ie.Message)
		if !production && ie.Cause != nil {
			body.Error = ie.Cause.Error()
		}
		return http.StatusInternalServerError, body

	case errors.As(err, &he):
		return classifyHTTPError(he)

	default:
		log.Error("unhandled error", "error", err)
		body := models.Fail("Internal server error")
		if !production {
			body.Error = err.Error()
		}
		return http.StatusInternalServerError, body
	}
}

// classifyHTTPError handles errors raised by Echo itself: unmatched
// routes and the body-limit edge check.
func classifyHTTPError(he *echo.HTTPError) (int, models.Response) {
	switch he.Code {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return http.StatusNotFound, models.Fail("Route not found")

	case http.StatusRequestEntityTooLarge:
		// Oversized body rejected before validation ever sees it
		return http.StatusBadRequest, models.Fail(validation.MsgFileTooLarge)

	default:
		if msg, ok := he.Message.(string); ok {
			return he.Code, models.Fail(msg)
		}
		return he.Code, models.Fail(http.StatusText(he.Code))
	}
}
