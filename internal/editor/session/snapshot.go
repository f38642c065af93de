package session

import (
	"playops/internal/editor/animation"
	"playops/internal/editor/history"
	"playops/internal/editor/tool"
	"playops/internal/scene"
)

// Snapshot is the observable state of a session.
type Snapshot struct {
	ID       string      `json:"id"`
	PlayID   string      `json:"playId,omitempty"`
	PlayName string      `json:"playName,omitempty"`
	Scene    scene.Scene `json:"scene"`
	Dirty    bool        `json:"dirty"`
	CanUndo  bool        `json:"canUndo"`
	CanRedo  bool        `json:"canRedo"`

	Tool           tool.Mode              `json:"tool"`
	RouteOptions   tool.RouteOptions      `json:"routeOptions"`
	Color          string                 `json:"color"`
	Selected       string                 `json:"selected,omitempty"`
	View           tool.Viewport          `json:"view"`
	Prompt         *tool.TextPrompt       `json:"textPrompt,omitempty"`
	CurrentRoute   *scene.Route           `json:"currentRoute,omitempty"`
	CurrentDrawing *scene.FreehandDrawing `json:"currentDrawing,omitempty"`

	Playback animation.Playback          `json:"playback"`
	Players  []animation.PlayerPosition `json:"animatedPlayers"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Scene returns what should be displayed: a live drag preview when one is in
// progress, the committed scene otherwise.
func (s *Session) Scene() scene.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayedLocked()
}

func (s *Session) displayedLocked() scene.Scene {
	if s.preview != nil {
		return *s.preview
	}
	return s.hist.Present
}

func (s *Session) snapshotLocked() Snapshot {
	shown := s.displayedLocked()
	return Snapshot{
		ID:             s.id,
		PlayID:         s.playID,
		PlayName:       s.playName,
		Scene:          shown,
		Dirty:          s.dirtyLocked(),
		CanUndo:        history.CanUndo(s.hist),
		CanRedo:        history.CanRedo(s.hist),
		Tool:           s.machine.Mode(),
		RouteOptions:   s.machine.Options(),
		Color:          s.machine.Color(),
		Selected:       s.machine.Selected(),
		View:           s.machine.View(),
		Prompt:         copyPtr(s.machine.Prompt()),
		CurrentRoute:   copyPtr(s.machine.CurrentRoute()),
		CurrentDrawing: copyPtr(s.machine.CurrentDrawing()),
		Playback:       s.playback,
		Players:        animation.Positions(shown, s.playback.Progress),
	}
}

// copyPtr detaches transient machine state from the snapshot. Slices inside
// are only ever appended to through fresh copies by the machine.
func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
