package respond

import (
	"errors"
	"log"
	"net/http"

	"playops/internal/playbook/repository"
	"playops/internal/scene"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Error Responses
// ============================================================

// Status maps a domain error to an HTTP status and a client message.
func Status(err error) (int, string) {
	var verr *scene.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "play not found"
	case errors.Is(err, repository.ErrUnavailable):
		return http.StatusServiceUnavailable, "storage unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// Error writes err as a fiber.Map{"error": ...} body. Server side failures
// are logged under tag.
func Error(c fiber.Ctx, tag string, err error) error {
	status, msg := Status(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[%s] %s %s: %v", tag, c.Method(), c.Path(), err)
	}

	body := fiber.Map{"error": msg}
	var verr *scene.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		body["field"] = verr.Field
	}
	return c.Status(status).JSON(body)
}

// BadRequest writes a 400 with msg.
func BadRequest(c fiber.Ctx, msg string) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
