package api

import (
	"math-routing-agent/internal/api/handlers"
	"math-routing-agent/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func SetupRouter(
	cfg *config.ServerConfig,
	askHandler *handlers.AskHandler,
	feedbackHandler *handlers.FeedbackHandler,
	debugHandler *handlers.DebugHandler,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(logger.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Math Routing Agent running"})
	})

	api := app.Group("/api")
	api.Get("/debug", debugHandler.Debug)
	api.Post("/ask", askHandler.Ask)

	feedback := api.Group("/feedback")
	feedback.Post("", feedbackHandler.Submit)
	feedback.Get("/all", feedbackHandler.List)
	feedback.Post("/train", feedbackHandler.Train)

	return app
}
