package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"playops/internal/common/respond"
	"playops/internal/editor/session"
	"playops/internal/editor/tool"
	"playops/internal/playbook/service"
	"playops/internal/scene"

	"github.com/gofiber/fiber/v3"
)

const tag = "EDITOR"

// ============================================================
// Session Handler
// ============================================================

type SessionHandler struct {
	sessions *session.Manager
	plays    *service.Playbook
}

func NewSessionHandler(sessions *session.Manager, plays *service.Playbook) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		plays:    plays,
	}
}

// Register mounts the editor routes on r.
func (h *SessionHandler) Register(r fiber.Router) {
	r.Post("/sessions", h.Create)
	r.Get("/sessions/:id", h.withSession(h.Get))
	r.Delete("/sessions/:id", h.Delete)
	r.Post("/sessions/:id/open", h.withSession(h.Open))
	r.Post("/sessions/:id/save", h.withSession(h.Save))

	r.Post("/sessions/:id/pointer/down", h.withSession(h.PointerDown))
	r.Post("/sessions/:id/pointer/move", h.withSession(h.PointerMove))
	r.Post("/sessions/:id/pointer/up", h.withSession(h.PointerUp))
	r.Post("/sessions/:id/wheel", h.withSession(h.Wheel))
	r.Post("/sessions/:id/text/input", h.withSession(h.TextInput))
	r.Post("/sessions/:id/text/submit", h.withSession(h.TextSubmit))
	r.Post("/sessions/:id/text/cancel", h.withSession(h.TextCancel))

	r.Post("/sessions/:id/tool", h.withSession(h.SetTool))
	r.Post("/sessions/:id/route-options", h.withSession(h.SetRouteOptions))
	r.Post("/sessions/:id/color", h.withSession(h.SetColor))
	r.Post("/sessions/:id/select", h.withSession(h.Select))
	r.Post("/sessions/:id/undo", h.withSession(h.Undo))
	r.Post("/sessions/:id/redo", h.withSession(h.Redo))
	r.Post("/sessions/:id/clear", h.withSession(h.Clear))
	r.Post("/sessions/:id/sport", h.withSession(h.SetSport))
	r.Post("/sessions/:id/bind-route", h.withSession(h.BindRoute))
	r.Post("/sessions/:id/import-route", h.withSession(h.ImportRoute))

	r.Post("/sessions/:id/play-pause", h.withSession(h.PlayPause))
	r.Post("/sessions/:id/reset", h.withSession(h.Reset))
	r.Post("/sessions/:id/speed", h.withSession(h.SetSpeed))
	r.Post("/sessions/:id/seek", h.withSession(h.Seek))
}

type sessionFunc func(c fiber.Ctx, s *session.Session) error

func (h *SessionHandler) withSession(fn sessionFunc) fiber.Handler {
	return func(c fiber.Ctx) error {
		s, ok := h.sessions.Get(c.Params("id"))
		if !ok {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
		}
		return fn(c, s)
	}
}

func writeError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, session.ErrStaleLoad):
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "load discarded: session changed while loading"})
	case errors.Is(err, session.ErrNoPlay):
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "no play open"})
	}
	return respond.Error(c, tag, err)
}

// decode parses an optional JSON body into v. An empty body leaves v as is.
func decode(c fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return &scene.ValidationError{Message: "invalid json"}
	}
	return nil
}

// ============================================================
// Lifecycle
// ============================================================

type createRequest struct {
	PlayID string      `json:"playId"`
	Name   string      `json:"name"`
	Sport  scene.Sport `json:"sport"`
}

// Create starts a session. With playId the play is opened; with name and
// sport a new empty play is created first.
func (h *SessionHandler) Create(c fiber.Ctx) error {
	var req createRequest
	if err := decode(c, &req); err != nil {
		return writeError(c, err)
	}

	playID := req.PlayID
	if playID == "" && req.Name != "" {
		play, err := h.plays.CreateEmpty(c.Context(), req.Name, req.Sport)
		if err != nil {
			return writeError(c, err)
		}
		playID = play.ID
	}

	s := h.sessions.Create()
	snap := s.Snapshot()
	if playID != "" {
		var err error
		if snap, err = s.Open(c.Context(), playID); err != nil {
			h.sessions.Close(s.ID())
			return writeError(c, err)
		}
	}

	log.Printf("[%s] Session %s started (play %q)", tag, s.ID(), playID)
	return c.Status(http.StatusCreated).JSON(snap)
}

func (h *SessionHandler) Get(c fiber.Ctx, s *session.Session) error {
	return c.JSON(s.Snapshot())
}

func (h *SessionHandler) Delete(c fiber.Ctx) error {
	if !h.sessions.Close(c.Params("id")) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *SessionHandler) Open(c fiber.Ctx, s *session.Session) error {
	var req struct {
		PlayID string `json:"playId"`
	}
	if err := decode(c, &req); err != nil {
		return writeError(c, err)
	}
	if req.PlayID == "" {
		return respond.BadRequest(c, "playId required")
	}

	snap, err := s.Open(c.Context(), req.PlayID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(snap)
}

func (h *SessionHandler) Save(c fiber.Ctx, s *session.Session) error {
	play, err := s.Save(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(play)
}

// ============================================================
// Input
// ============================================================

func (h *SessionHandler) pointer(fn func(*session.Session, tool.PointerEvent) session.Snapshot) sessionFunc {
	return func(c fiber.Ctx, s *session.Session) error {
		var ev tool.PointerEvent
		if err := decode(c, &ev); err != nil {
			return writeError(c, err)
		}
		return c.JSON(fn(s, ev))
	}
}

func (h *SessionHandler) PointerDown(c fiber.Ctx, s *session.Session) error {
	return h.pointer((*session.Session).PointerDown)(c, s)
}

func (h *SessionHandler) PointerMove(c fiber.Ctx, s *session.Session) error {
	return h.pointer((*session.Session).PointerMove)(c, s)
}

func (h *SessionHandler) PointerUp(c fiber.Ctx, s *session.Session) error {
	return h.pointer((*session.Session).PointerUp)(c, s)
}

func (h *SessionHandler) Wheel(c fiber.Ctx, s *session.Session) error {
	var req struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		DeltaY float64 `json:"deltaY"`
	}
	if err := decode(c, &req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(s.Wheel(req.X, req.Y, req.DeltaY))
}

func (h *SessionHandler) TextInput(c fiber.Ctx, s *session.Session) error {
	var req struct {
		Value string `json:"value"`
	}
	if err := decode(c, &req); err != nil {
		return writeError(c, err)
	}
	if !s.SetText(req.Value) {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "no text prompt open"})
	}
	return c.JSON(s.Snapshot())
}

func (h *SessionHandler) TextSubmit(c fiber.Ctx, s *session.Session) error {
	return c.JSON(s.SubmitText())
}

func (h *SessionHandler) TextCancel(c fiber.Ctx, s *session.Session) error {
	s.CancelText()
	return c.JSON(s.Snapshot())
}

// ============================================================
// Commands
// ============================================================

func (h *SessionHandler) SetTool(c fiber.Ctx, s *session.Session) error {
	var req struct {
		Tool tool.Mode `json:"tool"`
	}
	if err := decode(c, &req); err != nil {
		return writeError(c, err)
	}
	if err := s.SetTool(req.Tool); err != nil {
		return writeError(c, err)
	}
	return c.JSON(s.Snapshot())
}

func (h *SessionHandler) SetRouteOptions(c fiber.Ctx, s *session.Session) error {
	var patch tool.RouteOptionsPatch
	if err := decode(c, &patch); err != nil {
		return writeError(c, err)
	}
	if err := s.SetRouteOptions(patch); err != nil {
		return writeError(c, err)
	}
	return c.JSON(s.Snapshot())
}

func (h *SessionHandler) SetColor(c fiber.Ctx, s *session.Session) error {
	var req struct {
		Color string `json:"color"`
	}
	if err := decode(c, &req); err != nil {
		return writeError(c, err)
	}
	if err := s.SetColor(req.Color); err != nil {
		return writeError(c, err)
	}
	return c.JSON(s.Snapshot())
}

func (h *SessionHandler) Select(c fiber.Ctx, s *session.Session) error {
	var req struct {
		ID string `json:"id"`
	}
	if err := decode(c, &req); err != nil {
		return writeError(c, err)
	}
	if !s.Select(req.ID) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "element not found"})
	}
	return c.JSON(s.Snapshot())
}

func (h *SessionHandler) Undo(c fiber.Ctx, s *session.Session) error {
	return c.JSON(s.Undo())
}

func (h *SessionHandler) Redo(c fiber.Ctx, s *session.Session) error {
	return c.JSON(s.Redo())
}

func (h *SessionHandler) Clear(c fiber.Ctx, s *session.Session) error {
	return c.JSON(s.Clear())
}

func (h *SessionHandler) SetSport(c fiber.Ctx, s *session.Session) error {
	var req struct {
		Sport scene.Sport `json:"sport"`
	}
	if err := decode(c, &req); err != nil {
		return writeError(c, err)
	}
	snap, err := s.SetSport(req.Sport)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(snap)
}

func (h *SessionHandler) BindRoute(c fiber.Ctx, s *session.Session) error {
	var req struct {
		RouteID  string `json:"routeId"`
		PlayerID string `json:"playerId"`
	}
	if err := decode(c, &req); err != nil {
		return writeError(c, err)
	}
	snap, err := s.BindRoute(req.RouteID, req.PlayerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(snap)
}

func (h *SessionHandler) ImportRoute(c fiber.Ctx, s *session.Session) error {
	var req struct {
		Path     string `json:"path"`
		PlayerID string `json:"playerId"`
	}
	if err := decode(c, &req); err != nil {
		return writeError(c, err)
	}
	snap, err := s.ImportRoute(req.Path, req.PlayerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(snap)
}

// ============================================================
// Playback
// ============================================================

func (h *SessionHandler) PlayPause(c fiber.Ctx, s *session.Session) error {
	return c.JSON(s.PlayPause())
}

func (h *SessionHandler) Reset(c fiber.Ctx, s *session.Session) error {
	return c.JSON(s.Reset())
}

func (h *SessionHandler) SetSpeed(c fiber.Ctx, s *session.Session) error {
	var req struct {
		Speed *float64 `json:"speed"`
	}
	if err := decode(c, &req); err != nil {
		return writeError(c, err)
	}
	if req.Speed == nil {
		return respond.BadRequest(c, "speed required")
	}
	return c.JSON(s.SetSpeed(*req.Speed))
}

func (h *SessionHandler) Seek(c fiber.Ctx, s *session.Session) error {
	var req struct {
		T *float64 `json:"t"`
	}
	if err := decode(c, &req); err != nil {
		return writeError(c, err)
	}
	if req.T == nil {
		return respond.BadRequest(c, "t required")
	}
	return c.JSON(s.Seek(*req.T))
}
