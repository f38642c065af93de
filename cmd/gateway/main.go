package main

import (
	"fmt"
	"log"
	"time"

	"playops/internal/common/config"
	"playops/internal/common/docs"
	"playops/internal/common/logging"
	"playops/internal/common/middleware"
	"playops/internal/gateway/handlers"
	"playops/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

const apiPrefix = "/api/v1"

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg := config.Load()

	if _, err := logging.Init(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel}); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Sync()

	upstreamTimeout := time.Duration(cfg.WriteTimeout) * time.Second
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: upstreamTimeout,
		AppName:      "API Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("GATEWAY"))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	handlers.NewHealth(map[string]string{
		"playbook": cfg.PlaybookURL,
		"render":   cfg.RenderURL,
	}, 2*time.Second).Register(app)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group(apiPrefix)

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "PlayOps API Gateway v1",
			"status":  "ok",
		})
	})
	docs.Register(api, "docs/playops.openapi.yaml", "PlayOps API")

	// ============================================================
	// Service Routes (Proxy)
	// ============================================================

	// Playbook Service
	playbook := proxy.New(cfg.PlaybookURL, apiPrefix, upstreamTimeout)
	api.All("/plays", playbook.Handler)
	api.All("/plays/*", playbook.Handler)
	api.All("/sessions", playbook.Handler)
	api.All("/sessions/*", playbook.Handler)

	// Render Service
	renderer := proxy.New(cfg.RenderURL, apiPrefix, upstreamTimeout)
	api.Post("/render/*", renderer.Handler)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting API Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying plays and sessions to %s, render to %s", cfg.PlaybookURL, cfg.RenderURL)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
