package handler

import (
	"github.com/gofiber/fiber/v2"

	"docchat/internal/service"
)

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type createSessionRequest struct {
	Description string `json:"description"`
}

// CreateSession handles POST /session/create.
func CreateSession(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createSessionRequest
		// An empty body is fine; the service generates a default description.
		_ = c.BodyParser(&req)

		sess, err := svc.Create(c.UserContext(), req.Description)
		if err != nil {
			return translateServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"session_id":  sess.ID,
			"description": sess.Description,
			"message":     "Session created",
		})
	}
}

// ListSessions handles GET /session/list. Chat history is omitted from the listing.
func ListSessions(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessions, err := svc.List(c.UserContext())
		if err != nil {
			return translateServiceError(c, err)
		}
		return c.JSON(sessions)
	}
}

// ToggleMode handles POST /session/toggle_mode, flipping local <-> global.
func ToggleMode(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, errResp := parseSessionRequest(c)
		if req == nil {
			return errResp
		}
		newMode, err := svc.ToggleMode(c.UserContext(), req.SessionID)
		if err != nil {
			return translateServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "new_mode": newMode})
	}
}

// DeleteSession handles POST /session/delete. Attached blobs are released.
func DeleteSession(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, errResp := parseSessionRequest(c)
		if req == nil {
			return errResp
		}
		if err := svc.Delete(c.UserContext(), req.SessionID); err != nil {
			return translateServiceError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "message": "Session deleted"})
	}
}

// ChatHistory handles POST /chat/history, returning the full turn list.
func ChatHistory(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, errResp := parseSessionRequest(c)
		if req == nil {
			return errResp
		}
		sess, err := svc.Get(c.UserContext(), req.SessionID)
		if err != nil {
			return translateServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"session_id":   sess.ID,
			"description":  sess.Description,
			"chat_history": sess.ChatHistory,
		})
	}
}

func parseSessionRequest(c *fiber.Ctx) (*sessionRequest, error) {
	var req sessionRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
	}
	if req.SessionID == "" {
		return nil, writeError(c, fiber.StatusBadRequest, "MISSING_SESSION_ID", "session_id is required")
	}
	return &req, nil
}
