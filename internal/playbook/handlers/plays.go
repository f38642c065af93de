package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"playops/internal/common/respond"
	"playops/internal/playbook/models"
	"playops/internal/playbook/service"

	"github.com/gofiber/fiber/v3"
	"github.com/skip2/go-qrcode"
)

const (
	tag = "PLAYBOOK"

	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

// ============================================================
// Play Handler
// ============================================================

type PlayHandler struct {
	plays     *service.Playbook
	publicURL string
}

// NewPlayHandler builds the handler. publicURL is the base of the share
// links encoded in QR codes.
func NewPlayHandler(plays *service.Playbook, publicURL string) *PlayHandler {
	return &PlayHandler{
		plays:     plays,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Register mounts the play routes on r.
func (h *PlayHandler) Register(r fiber.Router) {
	r.Get("/plays", h.List)
	r.Post("/plays", h.Create)
	r.Get("/plays/:id", h.Get)
	r.Patch("/plays/:id", h.Update)
	r.Delete("/plays/:id", h.Delete)
	r.Post("/plays/:id/duplicate", h.Duplicate)
	r.Get("/plays/:id/qr", h.QRCode)
}

// List returns all plays, newest first, filtered by ?q= when given.
func (h *PlayHandler) List(c fiber.Ctx) error {
	plays, err := h.plays.List(c.Context(), c.Query("q"))
	if err != nil {
		return respond.Error(c, tag, err)
	}
	return c.JSON(plays)
}

func (h *PlayHandler) Get(c fiber.Ctx) error {
	play, err := h.plays.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respond.Error(c, tag, err)
	}
	return c.JSON(play)
}

func (h *PlayHandler) Create(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return respond.BadRequest(c, "empty body")
	}

	n, err := models.DecodeNewPlay(c.Body())
	if err != nil {
		return respond.Error(c, tag, err)
	}

	play, err := h.plays.Create(c.Context(), n)
	if err != nil {
		return respond.Error(c, tag, err)
	}
	log.Printf("[%s] Created play %s (%s)", tag, play.ID, play.Name)
	return c.Status(http.StatusCreated).JSON(play)
}

func (h *PlayHandler) Update(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return respond.BadRequest(c, "empty body")
	}

	patch, err := models.DecodePatch(c.Body())
	if err != nil {
		return respond.Error(c, tag, err)
	}

	play, err := h.plays.Update(c.Context(), c.Params("id"), patch)
	if err != nil {
		return respond.Error(c, tag, err)
	}
	return c.JSON(play)
}

func (h *PlayHandler) Delete(c fiber.Ctx) error {
	id := c.Params("id")
	if err := h.plays.Delete(c.Context(), id); err != nil {
		return respond.Error(c, tag, err)
	}
	log.Printf("[%s] Deleted play %s", tag, id)
	return c.SendStatus(http.StatusNoContent)
}

// Duplicate copies a play under a new id with " (Copy)" appended.
func (h *PlayHandler) Duplicate(c fiber.Ctx) error {
	play, err := h.plays.Duplicate(c.Context(), c.Params("id"))
	if err != nil {
		return respond.Error(c, tag, err)
	}
	return c.Status(http.StatusCreated).JSON(play)
}

// QRCode returns a PNG QR code of the play share URL. ?size= sets the edge
// length in pixels.
func (h *PlayHandler) QRCode(c fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.plays.Get(c.Context(), id); err != nil {
		return respond.Error(c, tag, err)
	}

	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < minQRSize || v > maxQRSize {
			return respond.BadRequest(c, "size must be between 64 and 1024")
		}
		size = v
	}

	png, err := qrcode.Encode(h.ShareURL(id), qrcode.Medium, size)
	if err != nil {
		log.Printf("[%s] qr encode error: %v", tag, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to encode qr"})
	}

	c.Set("Content-Type", "image/png")
	return c.Send(png)
}

// ShareURL is the link that opens play id in the editor.
func (h *PlayHandler) ShareURL(id string) string {
	return h.publicURL + "/plays/" + id
}

// Ready reports whether the store answers.
func (h *PlayHandler) Ready(c fiber.Ctx) error {
	if err := h.plays.Store().Ping(c.Context()); err != nil {
		log.Printf("[%s] readiness ping failed: %v", tag, err)
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
