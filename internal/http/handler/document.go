package handler

import (
	"bytes"
	"encoding/base64"

	"github.com/gofiber/fiber/v2"

	"docchat/internal/service"
)

type uploadJSONRequest struct {
	SessionID   string `json:"session_id"`
	Filename    string `json:"filename"`
	FileContent string `json:"file_content"`
}

type deleteDocumentRequest struct {
	SessionID string `json:"session_id"`
	Filename  string `json:"filename"`
}

// UploadDocument handles POST /document/upload. Two request shapes are
// accepted: multipart/form-data with a "file" field plus "session_id", and a
// JSON body carrying the file content as base64.
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if fh, err := c.FormFile("file"); err == nil {
			sessionID := c.FormValue("session_id")
			if sessionID == "" {
				return writeError(c, fiber.StatusBadRequest, "MISSING_SESSION_ID", "session_id is required")
			}

			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()

			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}

			doc, err := svc.Upload(c.UserContext(), sessionID, f, fh.Filename, ct, fh.Size)
			if err != nil {
				return translateServiceError(c, err)
			}
			return c.Status(fiber.StatusCreated).JSON(doc)
		}

		var req uploadJSONRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "use multipart form-data or JSON")
		}
		if req.SessionID == "" || req.Filename == "" || req.FileContent == "" {
			return writeError(c, fiber.StatusBadRequest, "MISSING_FIELDS", "session_id, filename, and file_content are required")
		}

		data, err := base64.StdEncoding.DecodeString(req.FileContent)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BASE64", "file_content is not valid base64")
		}

		doc, err := svc.Upload(c.UserContext(), req.SessionID, bytes.NewReader(data), req.Filename, "application/octet-stream", int64(len(data)))
		if err != nil {
			return translateServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListDocuments handles POST /document/list.
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, errResp := parseSessionRequest(c)
		if req == nil {
			return errResp
		}
		docs, err := svc.List(c.UserContext(), req.SessionID)
		if err != nil {
			return translateServiceError(c, err)
		}
		return c.JSON(fiber.Map{"documents": docs})
	}
}

// DeleteDocument handles POST /document/delete, detaching by filename and
// freeing the stored blob.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req deleteDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}
		if req.SessionID == "" || req.Filename == "" {
			return writeError(c, fiber.StatusBadRequest, "MISSING_FIELDS", "session_id and filename are required")
		}
		if err := svc.Detach(c.UserContext(), req.SessionID, req.Filename); err != nil {
			return translateServiceError(c, err)
		}
		return c.JSON(fiber.Map{"message": req.Filename + " deleted successfully"})
	}
}
