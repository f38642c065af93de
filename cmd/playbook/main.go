package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"playops/internal/common/config"
	"playops/internal/common/docs"
	"playops/internal/common/logging"
	"playops/internal/common/middleware"
	editorhandlers "playops/internal/editor/handlers"
	"playops/internal/editor/session"
	"playops/internal/editor/stream"
	"playops/internal/playbook/handlers"
	"playops/internal/playbook/repository"
	"playops/internal/playbook/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// ============================================================
// Playbook Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3002"
	}

	logger, err := logging.Init(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ============================================================
	// Storage
	// ============================================================

	store, err := repository.Open(ctx, repository.Options{
		Driver:        cfg.StoreDriver,
		SQLitePath:    cfg.SQLitePath,
		PostgresDSN:   cfg.PostgresDSN,
		RedisURL:      cfg.RedisURL,
		MigrationsDir: cfg.MigrationsDir,
	})
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	plays := service.NewPlaybook(store)
	if cfg.Seed {
		n, err := plays.Seed(ctx)
		if err != nil {
			log.Fatalf("seed store: %v", err)
		}
		if n > 0 {
			log.Printf("[PLAYBOOK] Seeded %d sample plays", n)
		}
	}

	sessions := session.NewManager(store, session.Options{
		Duration:  cfg.AnimationDuration,
		FrameRate: cfg.FrameRate,
	}, logger.Named("session"))

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Playbook Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("PLAYBOOK"))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	playHandler := handlers.NewPlayHandler(plays, cfg.PublicURL)

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	app.Get("/health/ready", playHandler.Ready)

	// ============================================================
	// Playbook & Editor Routes
	// ============================================================

	playHandler.Register(app)
	editorhandlers.NewSessionHandler(sessions, plays).Register(app)
	docs.Register(app, "docs/playops.openapi.yaml", "PlayOps Playbook API")

	// ============================================================
	// Frame Stream
	// ============================================================

	wsServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.WSPort),
		Handler:           stream.NewRouter(stream.NewHandler(sessions, logger.Named("stream")), cfg.CORSOrigins),
		ReadHeaderTimeout: time.Duration(cfg.ReadTimeout) * time.Second,
	}

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Starting Playbook Service on %s (env: %s, store: %s)", addr, cfg.Environment, cfg.StoreDriver)
		return app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	})

	g.Go(func() error {
		log.Printf("Starting frame stream on %s", wsServer.Addr)
		if err := wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("frame stream: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Printf("[PLAYBOOK] Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if n := sessions.SaveAll(shutdownCtx); n > 0 {
			log.Printf("[PLAYBOOK] Saved %d open sessions", n)
		}
		sessions.CloseAll()

		if err := wsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[PLAYBOOK] Frame stream shutdown error: %v", err)
		}
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("[PLAYBOOK] Server error: %v", err)
		os.Exit(1)
	}
	log.Printf("[PLAYBOOK] Stopped")
}
