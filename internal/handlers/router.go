package handlers

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// multipart framing and the jobDescription field ride on top of the file
const bodyLimitSlack = 1 << 20

type AppConfig struct {
	AppName     string
	MaxFileSize int64
	StaticDir   string
	Production  bool
	// DisableRequestLog silences the access log, for tests.
	DisableRequestLog bool
}

// NewApp builds the Fiber app with middleware and every route registered.
func NewApp(cfg AppConfig, analyzeHandler *AnalyzeHandler, historyHandler *HistoryHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    int(cfg.MaxFileSize) + bodyLimitSlack,
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: !cfg.Production,
	}))
	if !cfg.DisableRequestLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	RegisterRoutes(app, analyzeHandler, historyHandler)

	if cfg.StaticDir != "" {
		registerStatic(app, cfg.StaticDir)
	}

	return app
}

func RegisterRoutes(app *fiber.App, analyzeHandler *AnalyzeHandler, historyHandler *HistoryHandler) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Get("/history", historyHandler.HandleGetHistory)
	api.Get("/history/:id", historyHandler.HandleGetHistoryItem)
	api.Get("/history/:id/similar", historyHandler.HandleGetSimilar)
}

// registerStatic serves the built dashboard and falls back to index.html for
// client-side routes. Unknown /api paths still 404.
func registerStatic(app *fiber.App, dir string) {
	app.Static("/", dir)

	index := filepath.Join(dir, "index.html")
	app.Get("/*", func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return fiber.ErrNotFound
		}
		return c.SendFile(index)
	})
}

// ErrorHandler renders unhandled errors as {"error": message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	message := err.Error()
	if message == "" {
		message = "Internal Server Error"
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
