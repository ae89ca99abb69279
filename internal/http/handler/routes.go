package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"docchat/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers are
// thin request/response mappings; all business logic lives in the services.
func RegisterRoutes(app *fiber.App, db *sql.DB, sessionSvc service.SessionService, docSvc service.DocumentService, chatSvc service.ChatService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/session/create", CreateSession(sessionSvc))
	app.Get("/session/list", ListSessions(sessionSvc))
	app.Post("/session/toggle_mode", ToggleMode(sessionSvc))
	app.Post("/session/delete", DeleteSession(sessionSvc))

	app.Post("/document/upload", UploadDocument(docSvc))
	app.Post("/document/list", ListDocuments(docSvc))
	app.Post("/document/delete", DeleteDocument(docSvc))

	app.Post("/ask", AskQuestion(chatSvc))
	app.Post("/chat/history", ChatHistory(sessionSvc))
	app.Post("/search/documents", SearchDocuments(chatSvc))
	app.Post("/search/chat", SearchChat(chatSvc))
}

// HealthCheck verifies DB connectivity with a short timeout.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness check with no dependencies.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
