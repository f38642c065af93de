package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/sync/errgroup"
)

// ============================================================
// Health Check Handlers
// ============================================================

type Health struct {
	upstreams map[string]string
	client    *http.Client
}

// NewHealth checks each upstream's /health/ready; upstreams maps service
// names to base URLs.
func NewHealth(upstreams map[string]string, timeout time.Duration) *Health {
	return &Health{
		upstreams: upstreams,
		client:    &http.Client{Timeout: timeout},
	}
}

func (h *Health) Register(r fiber.Router) {
	r.Get("/health/live", h.Liveness)
	r.Get("/health/ready", h.Readiness)
	r.Get("/health/startup", h.Startup)
}

// Liveness reports that the process is running.
func (h *Health) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// Readiness probes every upstream concurrently and fails with 503 when any
// of them is not ready.
func (h *Health) Readiness(c fiber.Ctx) error {
	services := h.check(c.Context())

	status, code := "ready", http.StatusOK
	for _, s := range services {
		if s != "ready" {
			status, code = "degraded", http.StatusServiceUnavailable
			break
		}
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"services": services,
	})
}

func (h *Health) Startup(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}

func (h *Health) check(ctx context.Context) map[string]string {
	var mu sync.Mutex
	out := make(map[string]string, len(h.upstreams))

	g, ctx := errgroup.WithContext(ctx)
	for name, base := range h.upstreams {
		g.Go(func() error {
			state := "ready"
			if err := h.probe(ctx, base+"/health/ready"); err != nil {
				state = err.Error()
			}
			mu.Lock()
			out[name] = state
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return out
}

func (h *Health) probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("unreachable")
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
