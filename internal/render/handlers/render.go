package handlers

import (
	"bytes"
	"log"
	"strconv"

	"playops/internal/common/respond"
	"playops/internal/render"
	"playops/internal/scene"

	"github.com/gofiber/fiber/v3"
)

const tag = "RENDER"

// ============================================================
// Render Handler
// ============================================================

type RenderHandler struct {
	svg *render.SVGRenderer
	png *render.PNGRenderer
}

func NewRenderHandler(svg *render.SVGRenderer, png *render.PNGRenderer) *RenderHandler {
	return &RenderHandler{svg: svg, png: png}
}

func (h *RenderHandler) Register(r fiber.Router) {
	r.Post("/render/svg", h.RenderSVG)
	r.Post("/render/png", h.RenderPNG)
}

// RenderSVG renders the scene in the body as SVG at progress ?t=.
func (h *RenderHandler) RenderSVG(c fiber.Ctx) error {
	s, opts, err := h.parse(c)
	if err != nil {
		return respond.Error(c, tag, err)
	}

	svg, err := h.svg.Render(s, opts)
	if err != nil {
		return respond.Error(c, tag, err)
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// RenderPNG renders the scene in the body as PNG at progress ?t= and the
// optional ?width= and ?height=.
func (h *RenderHandler) RenderPNG(c fiber.Ctx) error {
	s, opts, err := h.parse(c)
	if err != nil {
		return respond.Error(c, tag, err)
	}

	var buf bytes.Buffer
	if err := h.png.Render(&buf, s, opts); err != nil {
		return respond.Error(c, tag, err)
	}

	c.Set("Content-Type", "image/png")
	return c.Send(buf.Bytes())
}

func (h *RenderHandler) parse(c fiber.Ctx) (scene.Scene, render.Options, error) {
	var opts render.Options
	if len(c.Body()) == 0 {
		return scene.Scene{}, opts, &scene.ValidationError{Message: "body required"}
	}

	s, err := scene.Parse(c.Body())
	if err != nil {
		log.Printf("[%s] Decode error: %v", tag, err)
		return scene.Scene{}, opts, &scene.ValidationError{Message: "invalid json"}
	}

	if opts.Progress, err = queryFloat(c, "t", 0); err != nil {
		return scene.Scene{}, opts, err
	}
	if opts.Progress < 0 || opts.Progress > 1 {
		return scene.Scene{}, opts, &scene.ValidationError{Field: "t", Message: "must be within [0, 1]"}
	}
	if opts.Width, err = queryInt(c, "width"); err != nil {
		return scene.Scene{}, opts, err
	}
	if opts.Height, err = queryInt(c, "height"); err != nil {
		return scene.Scene{}, opts, err
	}
	return s, opts, nil
}

func queryFloat(c fiber.Ctx, key string, def float64) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &scene.ValidationError{Field: key, Message: "must be a number"}
	}
	return v, nil
}

func queryInt(c fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > render.MaxDimension {
		return 0, &scene.ValidationError{Field: key, Message: "must be between 1 and " + strconv.Itoa(render.MaxDimension)}
	}
	return v, nil
}
