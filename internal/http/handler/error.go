package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docchat/internal/http/middleware"
	"docchat/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// translateServiceError maps service-layer sentinel errors onto the
// standardized error body. Unknown errors become a generic 500 so internal
// details never leak to clients.
func translateServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSessionIDRequired):
		return writeError(c, fiber.StatusBadRequest, "MISSING_SESSION_ID", "session_id is required")
	case errors.Is(err, service.ErrQuestionRequired):
		return writeError(c, fiber.StatusBadRequest, "MISSING_QUESTION", "question is required")
	case errors.Is(err, service.ErrFilenameRequired):
		return writeError(c, fiber.StatusBadRequest, "MISSING_FILENAME", "filename is required")
	case errors.Is(err, service.ErrInvalidMode):
		return writeError(c, fiber.StatusBadRequest, "INVALID_MODE", "mode must be 'local' or 'global'")
	case errors.Is(err, service.ErrSessionNotFound):
		return writeError(c, fiber.StatusNotFound, "SESSION_NOT_FOUND", "session not found")
	case errors.Is(err, service.ErrDocumentNotFound):
		return writeError(c, fiber.StatusNotFound, "DOCUMENT_NOT_FOUND", "file not found in session")
	case errors.Is(err, service.ErrAnswerService):
		return writeError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "answer service unavailable")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
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
