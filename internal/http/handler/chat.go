package handler

import (
	"github.com/gofiber/fiber/v2"

	"docchat/internal/service"
)

type askRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
	Mode      string `json:"mode"`
}

type searchRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"q"`
}

// AskQuestion handles POST /ask. Mode is optional; when present it overrides
// the session's stored mode for this question only.
func AskQuestion(svc service.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req askRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}
		if req.SessionID == "" {
			return writeError(c, fiber.StatusBadRequest, "MISSING_SESSION_ID", "session_id is required")
		}

		res, err := svc.Ask(c.UserContext(), req.SessionID, req.Question, req.Mode)
		if err != nil {
			return translateServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// SearchDocuments handles POST /search/documents.
func SearchDocuments(svc service.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, errResp := parseSearchRequest(c)
		if req == nil {
			return errResp
		}
		res, err := svc.SearchDocuments(c.UserContext(), req.SessionID, req.Query)
		if err != nil {
			return translateServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"query":     req.Query,
			"matches":   res.Matches,
			"documents": res.Reports,
		})
	}
}

// SearchChat handles POST /search/chat.
func SearchChat(svc service.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, errResp := parseSearchRequest(c)
		if req == nil {
			return errResp
		}
		matches, err := svc.SearchChat(c.UserContext(), req.SessionID, req.Query)
		if err != nil {
			return translateServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"query":   req.Query,
			"matches": matches,
		})
	}
}

func parseSearchRequest(c *fiber.Ctx) (*searchRequest, error) {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
	}
	if req.SessionID == "" {
		return nil, writeError(c, fiber.StatusBadRequest, "MISSING_SESSION_ID", "session_id is required")
	}
	return &req, nil
}
