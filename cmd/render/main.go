package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"playops/internal/common/config"
	"playops/internal/common/logging"
	"playops/internal/common/middleware"
	"playops/internal/render"
	"playops/internal/render/handlers"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Render Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3001"
	}

	if _, err := logging.Init(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel}); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Sync()

	png, err := render.NewPNGRenderer()
	if err != nil {
		log.Fatalf("init png renderer: %v", err)
	}
	defer png.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Render Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("RENDER"))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Render Routes
	// ============================================================

	handlers.NewRenderHandler(render.NewSVGRenderer(), png).Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Render Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
