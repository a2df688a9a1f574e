package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fulfillment/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Error codes returned in the code field of an error body.
const (
	CodeInvalidInput        = "InvalidInput"
	CodeNotFound            = "NotFound"
	CodeActorNotAllowed     = "ActorNotAllowed"
	CodeInvalidTransition   = "InvalidTransition"
	CodeCodeInvalid         = "CodeInvalid"
	CodeAlreadyConsumed     = "AlreadyConsumed"
	CodeAttemptsExceeded    = "AttemptsExceeded"
	CodeTooManyAttempts     = "TooManyAttempts"
	CodeDriverUnavailable   = "DriverUnavailable"
	CodeInsufficientBalance = "InsufficientBalance"
	CodeAlreadySettled      = "AlreadySettled"
	CodeConcurrencyConflict = "ConcurrencyConflict"
	CodeDuplicateRequest    = "DuplicateRequest"
	CodeStorageError        = "StorageError"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters: the first matching sentinel wins.
var errorMappings = []errorMapping{
	{errs.ErrTooManyAttempts, http.StatusTooManyRequests, CodeTooManyAttempts},
	{errs.ErrAttemptsExceeded, http.StatusLocked, CodeAttemptsExceeded},
	{errs.ErrAlreadyConsumed, http.StatusConflict, CodeAlreadyConsumed},
	{errs.ErrCodeInvalid, http.StatusUnprocessableEntity, CodeCodeInvalid},
	{errs.ErrInvalidTransition, http.StatusConflict, CodeInvalidTransition},
	{errs.ErrDriverUnavailable, http.StatusConflict, CodeDriverUnavailable},
	{errs.ErrInsufficientBalance, http.StatusUnprocessableEntity, CodeInsufficientBalance},
	{errs.ErrAlreadySettled, http.StatusConflict, CodeAlreadySettled},
	{errs.ErrConcurrencyConflict, http.StatusConflict, CodeConcurrencyConflict},
	{errs.ErrActorNotAllowed, http.StatusForbidden, CodeActorNotAllowed},
	{errs.ErrObjectNotFound, http.StatusNotFound, CodeNotFound},
	{errs.ErrValueIsInvalid, http.StatusBadRequest, CodeInvalidInput},
	{errs.ErrValueIsRequired, http.StatusBadRequest, CodeInvalidInput},
	{errs.ErrValueIsOutOfRange, http.StatusBadRequest, CodeInvalidInput},
}

// classify returns the HTTP status and error code for err. Unknown errors are
// storage or programming failures and map to 500.
func classify(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest, CodeInvalidInput
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.Code {
		case http.StatusNotFound:
			return httpErr.Code, CodeNotFound
		case http.StatusTooManyRequests:
			return httpErr.Code, CodeTooManyAttempts
		case http.StatusInternalServerError:
			return httpErr.Code, CodeStorageError
		default:
			return httpErr.Code, CodeInvalidInput
		}
	}

	return http.StatusInternalServerError, CodeStorageError
}

// errorHandler replaces echo's default so that every failure, including
// routing and binding errors, leaves as {code, message}.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code := classify(err)
		message := err.Error()
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
			message = http.StatusText(status)
		} else {
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				message = messageOf(httpErr)
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, errorResponse{Code: code, Message: message})
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "write error response", "error", err)
		}
	}
}

func messageOf(httpErr *echo.HTTPError) string {
	if m, ok := httpErr.Message.(string); ok {
		return m
	}
	if httpErr.Internal != nil {
		return httpErr.Internal.Error()
	}
	return http.StatusText(httpErr.Code)
}
