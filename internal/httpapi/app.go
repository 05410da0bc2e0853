// internal/httpapi/app.go

// Package httpapi exposes the admin surface: health, metrics, and the
// server-registration endpoints the poll loop reads from.
package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"farmwatch/internal/notify"
	"farmwatch/internal/poller"
	"farmwatch/internal/registry"
	"farmwatch/internal/statuscache"
)

// Deps collects the collaborators the handlers need.
type Deps struct {
	Registry *registry.Registry
	Cache    *statuscache.Cache
	Sink     notify.Sink
	Throttle *poller.RenameThrottle

	// AdminToken guards the mutating endpoints. Empty disables the
	// check, for local use only.
	AdminToken string
}

// NewApp builds the Fiber application with all routes registered.
func NewApp(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(metricsMiddleware())

	h := &handlers{deps: deps}

	app.Get("/health", h.health)
	app.Get("/metrics", metricsHandler())

	servers := app.Group("/servers", requireToken(deps.AdminToken))
	servers.Get("/", h.listServers)
	servers.Post("/", h.addServer)
	servers.Delete("/:id", h.removeServer)
	servers.Put("/:id/memberlog", h.setMemberLog)
	servers.Get("/:id/status", h.serverStatus)

	return app
}

// requireToken rejects requests without the configured bearer token.
func requireToken(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return c.Next()
		}
		if c.Get(fiber.HeaderAuthorization) != "Bearer "+token {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid token",
			})
		}
		return c.Next()
	}
}
