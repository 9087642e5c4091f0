package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"dealdocs/internal/apperr"
	"dealdocs/internal/http/middleware"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Details fiber.Map `json:"details,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeErrorDetails(c, status, code, message, nil)
}

func writeErrorDetails(c *fiber.Ctx, status int, code, message string, details fiber.Map) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps the document error taxonomy onto HTTP statuses.
// Gone is deliberately not 404: the metadata row exists, the bytes do not,
// and the details tell the caller whether a re-upload would help.
func writeServiceError(c *fiber.Ctx, err error) error {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return writeError(c, fiber.StatusBadRequest, "INVALID_DOCUMENT", ve.Error())
	}

	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", nf.Error())
	}

	var cross *apperr.CrossDealAccessError
	if errors.As(err, &cross) {
		// The recorded owner stays out of the response body.
		return writeError(c, fiber.StatusForbidden, "CROSS_DEAL_ACCESS", "document belongs to a different deal")
	}

	var gone *apperr.GoneError
	if errors.As(err, &gone) {
		return writeErrorDetails(c, fiber.StatusGone, "CONTENT_GONE", "document content is no longer available", fiber.Map{
			"expected_path": gone.ExpectedPath,
			"recorded_size": gone.RecordedSize,
			"has_db_data":   gone.HasDBData,
			"has_file_path": gone.HasFilePath,
		})
	}

	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
