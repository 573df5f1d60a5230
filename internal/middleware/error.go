package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mr3x-notificacoes/internal/domain"
)

type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
	TraceID string              `json:"trace_id,omitempty"`
}

var errorStatus = []struct {
	err  error
	code int
}{
	{domain.ErrNoticeNotFound, fiber.StatusNotFound},
	{domain.ErrCEPNotFound, fiber.StatusNotFound},
	{domain.ErrAlreadyAccepted, fiber.StatusConflict},
	{domain.ErrNoticeIgnored, fiber.StatusConflict},
	{domain.ErrTokenConflict, fiber.StatusConflict},
	{domain.ErrAcceptanceRequired, fiber.StatusForbidden},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{domain.ErrSearchTermRequired, fiber.StatusBadRequest},
	{domain.ErrInvalidCEP, fiber.StatusBadRequest},
	{domain.ErrInvalidExportFormat, fiber.StatusBadRequest},
	{domain.ErrInvalidStatusFilter, fiber.StatusBadRequest},
	{domain.ErrIPLookupFailed, fiber.StatusBadGateway},
	{domain.ErrPostalUnavailable, fiber.StatusBadGateway},
	{domain.ErrStorageUnavailable, fiber.StatusServiceUnavailable},
}

// MapError turns a domain error into a *fiber.Error. Unknown errors are
// returned unchanged.
func MapError(err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return fiber.NewError(m.code, m.err.Error())
		}
	}
	return err
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	case fiber.StatusBadGateway:
		return "UPSTREAM_ERROR"
	case fiber.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	}
	return "INTERNAL_ERROR"
}

func NewErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		traceID := uuid.New().String()[:8]

		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
				Code:    errorCode(fiber.StatusUnprocessableEntity),
				Message: "Validation failed",
				Fields:  verr.Fields,
				TraceID: traceID,
			})
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(MapError(err), &fe) {
			code = fe.Code
			message = fe.Message
		}

		entry := log.WithFields(logrus.Fields{
			"trace_id": traceID,
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   code,
		})
		if code >= fiber.StatusInternalServerError {
			entry.WithError(err).Error("request failed")
		} else {
			entry.WithError(err).Debug("request rejected")
		}

		return c.Status(code).JSON(ErrorResponse{
			Code:    errorCode(code),
			Message: message,
			TraceID: traceID,
		})
	}
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}
