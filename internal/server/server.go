package server

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/triagegrid/triagegrid/internal/controllers"
	"github.com/triagegrid/triagegrid/internal/version"
	"github.com/triagegrid/triagegrid/internal/webui"
)

type HTTPServerDependencies struct {
	BoardController *controllers.BoardController
}

func NewHTTPServer(deps HTTPServerDependencies) *fiber.App {
	router := fiber.New(fiber.Config{
		AppName: "triagegrid",
	})

	// Add basic middleware
	router.Use(cors.New())
	router.Use(logger.New())

	// Health check endpoint
	router.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"service":   "triagegrid",
			"version":   version.GetVersion(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Grid web UI
	router.Get("/", webui.Handler)

	api := router.Group("/api")

	api.Get("/rows", deps.BoardController.ListRows)
	api.Post("/rows", deps.BoardController.AddRow)
	api.Delete("/rows", deps.BoardController.ClearRows)
	api.Put("/rows/:rowID/message", deps.BoardController.UpdateMessage)
	api.Get("/events", deps.BoardController.Events)

	return router
}
