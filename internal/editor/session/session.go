package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"playops/internal/editor/animation"
	"playops/internal/editor/history"
	"playops/internal/editor/tool"
	"playops/internal/playbook/models"
	"playops/internal/playbook/repository"
	"playops/internal/scene"

	"go.uber.org/zap"
)

var (
	// ErrStaleLoad is returned by Open when a newer load started, or edits
	// were committed, while the store call was outstanding. The session keeps
	// its current state.
	ErrStaleLoad = errors.New("stale load discarded")

	// ErrNoPlay is returned by Save when no play is open.
	ErrNoPlay = errors.New("no play open")
)

// ============================================================
// Editor Session
// ============================================================

type Options struct {
	Duration  time.Duration
	FrameRate int
}

// Session is one open play: committed history, the tool machine and the
// playback driver. All mutation happens under mu; store calls are made
// without holding it.
type Session struct {
	id     string
	store  repository.Store
	runner *animation.Runner
	log    *zap.SugaredLogger

	mu       sync.Mutex
	playID   string
	playName string
	hist     history.State
	preview  *scene.Scene
	machine  *tool.Machine
	playback animation.Playback
	stopRun  context.CancelFunc
	running  sync.WaitGroup

	loadGen  uint64
	revision uint64
	saved    uint64

	subs    map[int]chan Frame
	nextSub int
	closed  bool
}

// New creates a session editing an unsaved scratch scene.
func New(id string, store repository.Store, opts Options, log *zap.SugaredLogger) *Session {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	initial := scene.New(scene.SportBasketball)
	return &Session{
		id:       id,
		store:    store,
		runner:   animation.NewRunner(opts.FrameRate),
		log:      log.With("session", id),
		hist:     history.New(initial),
		machine:  tool.NewMachine(tool.ViewportFrom(initial.ViewTransform)),
		playback: animation.NewPlayback(opts.Duration),
		subs:     make(map[int]chan Frame),
	}
}

func (s *Session) ID() string { return s.id }

// ============================================================
// Load / Save
// ============================================================

// Open saves the current play if it has unsaved edits, then loads playID.
// If the autosave fails the current play stays open and the error is
// returned. A load overtaken by a newer Open or by committed edits returns
// ErrStaleLoad.
func (s *Session) Open(ctx context.Context, playID string) (Snapshot, error) {
	s.mu.Lock()
	s.loadGen++
	gen := s.loadGen
	dirty := s.dirtyLocked()
	s.mu.Unlock()

	if dirty {
		if _, err := s.Save(ctx); err != nil {
			return s.Snapshot(), err
		}
	}

	s.mu.Lock()
	rev := s.revision
	s.mu.Unlock()

	play, err := s.store.Get(ctx, playID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.loadGen || rev != s.revision {
		s.log.Infow("discarding stale load", "play", playID)
		return s.snapshotLocked(), ErrStaleLoad
	}
	if err != nil {
		return s.snapshotLocked(), err
	}

	s.installLocked(play)
	s.log.Infow("play opened", "play", play.ID, "name", play.Name)
	return s.snapshotLocked(), nil
}

func (s *Session) installLocked(play models.Play) {
	s.stopLocked()
	s.playID = play.ID
	s.playName = play.Name
	s.hist = history.New(play.Data)
	s.preview = nil
	s.machine.Reset(tool.ViewportFrom(play.Data.ViewTransform))
	s.playback.Reset()
	s.revision++
	s.saved = s.revision
	s.publishLocked()
}

// Save writes the present scene, with the current view transform, and its
// sport to the store. On failure the history is kept so the save can be
// retried.
func (s *Session) Save(ctx context.Context) (models.Play, error) {
	s.mu.Lock()
	if s.playID == "" {
		s.mu.Unlock()
		return models.Play{}, ErrNoPlay
	}
	id := s.playID
	rev := s.revision
	data := s.hist.Present.WithView(s.machine.View().Transform())
	s.mu.Unlock()

	sport := data.Sport
	play, err := s.store.Update(ctx, id, models.PlayPatch{Sport: &sport, Data: &data})
	if err != nil {
		s.log.Warnw("save failed", "play", id, "error", err)
		return models.Play{}, err
	}

	s.mu.Lock()
	if s.playID == id && rev > s.saved {
		s.saved = rev
		s.playName = play.Name
	}
	s.mu.Unlock()
	s.log.Infow("play saved", "play", id)
	return play, nil
}

// Dirty reports whether edits were committed since the last load or save.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirtyLocked()
}

func (s *Session) dirtyLocked() bool {
	return s.playID != "" && s.revision != s.saved
}

// ============================================================
// Pointer input
// ============================================================

func (s *Session) PointerDown(ev tool.PointerEvent) Snapshot {
	return s.input(func(present scene.Scene) tool.Outcome {
		return s.machine.PointerDown(present, ev)
	})
}

func (s *Session) PointerMove(ev tool.PointerEvent) Snapshot {
	return s.input(func(present scene.Scene) tool.Outcome {
		return s.machine.PointerMove(present, ev)
	})
}

func (s *Session) PointerUp(ev tool.PointerEvent) Snapshot {
	return s.input(func(present scene.Scene) tool.Outcome {
		return s.machine.PointerUp(present, ev)
	})
}

func (s *Session) SubmitText() Snapshot {
	return s.input(s.machine.SubmitText)
}

func (s *Session) input(fn func(scene.Scene) tool.Outcome) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(fn(s.hist.Present))
	return s.snapshotLocked()
}

func (s *Session) applyLocked(out tool.Outcome) {
	switch {
	case out.Commit:
		s.commitLocked(out.Scene)
	case out.Changed:
		preview := out.Scene
		s.preview = &preview
	default:
		s.preview = nil
	}
}

func (s *Session) commitLocked(next scene.Scene) {
	s.hist = history.Push(s.hist, next)
	s.afterChangeLocked()
}

func (s *Session) afterChangeLocked() {
	s.preview = nil
	s.revision++
	s.machine.Forget(s.hist.Present)
	s.publishLocked()
}

func (s *Session) Wheel(sx, sy, deltaY float64) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine.Wheel(sx, sy, deltaY)
	return s.snapshotLocked()
}

func (s *Session) SetText(value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.SetText(value)
}

func (s *Session) CancelText() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine.CancelText()
}

// ============================================================
// Tool commands
// ============================================================

func (s *Session) SetTool(mode tool.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.machine.SetTool(s.hist.Present, mode)
	if err != nil {
		return err
	}
	s.applyLocked(out)
	return nil
}

func (s *Session) SetRouteOptions(p tool.RouteOptionsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.SetRouteOptions(p)
}

func (s *Session) SetColor(color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.SetColor(color)
}

// Select sets the selection. It reports false when id names no element.
func (s *Session) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Select(s.hist.Present, id)
}

func (s *Session) Undo() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if history.CanUndo(s.hist) {
		s.hist = history.Undo(s.hist)
		s.afterChangeLocked()
	}
	return s.snapshotLocked()
}

func (s *Session) Redo() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if history.CanRedo(s.hist) {
		s.hist = history.Redo(s.hist)
		s.afterChangeLocked()
	}
	return s.snapshotLocked()
}

// Clear removes every element. Sport and view transform are kept.
func (s *Session) Clear() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitLocked(s.hist.Present.Cleared())
	return s.snapshotLocked()
}

func (s *Session) SetSport(sport scene.Sport) (Snapshot, error) {
	if !sport.Valid() {
		return Snapshot{}, &scene.ValidationError{Field: "sport", Message: "unknown sport " + string(sport)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hist.Present.Sport != sport {
		s.commitLocked(s.hist.Present.WithSport(sport))
	}
	return s.snapshotLocked(), nil
}

// BindRoute attaches a route to a player, or detaches it when playerID is
// empty.
func (s *Session) BindRoute(routeID, playerID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := s.hist.Present.BindRoute(routeID, playerID)
	if !ok {
		return s.snapshotLocked(), &scene.ValidationError{Field: "routeId", Message: "unknown route or player"}
	}
	s.commitLocked(next)
	return s.snapshotLocked(), nil
}

// ImportRoute adds a route through the vertices of an SVG path, styled with
// the current color and route options, and selects it.
func (s *Session) ImportRoute(path, playerID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if playerID != "" {
		if _, ok := s.hist.Present.Player(playerID); !ok {
			return s.snapshotLocked(), &scene.ValidationError{Field: "playerId", Message: "unknown player " + playerID}
		}
	}
	r, err := scene.RouteFromPath(path, playerID, s.machine.Color())
	if err != nil {
		return s.snapshotLocked(), err
	}
	opts := s.machine.Options()
	r.HasArrow = opts.HasArrow
	r.IsCurved = opts.IsCurved
	r.LineType = opts.LineType

	s.commitLocked(s.hist.Present.WithRoute(r))
	s.machine.Select(s.hist.Present, r.ID)
	return s.snapshotLocked(), nil
}

// ============================================================
// Playback
// ============================================================

// PlayPause toggles playback. While playing, a frame loop advances progress
// and publishes frames to subscribers.
func (s *Session) PlayPause() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playback.PlayPause()
	if s.playback.Playing {
		s.startLocked()
	} else {
		s.stopLocked()
	}
	s.publishLocked()
	return s.snapshotLocked()
}

func (s *Session) Reset() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.playback.Reset()
	s.publishLocked()
	return s.snapshotLocked()
}

func (s *Session) SetSpeed(v float64) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playback.SetSpeed(v)
	return s.snapshotLocked()
}

func (s *Session) Seek(t float64) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playback.Seek(t)
	s.publishLocked()
	return s.snapshotLocked()
}

func (s *Session) startLocked() {
	if s.stopRun != nil || s.closed {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.stopRun = cancel
	s.running.Add(1)
	go func() {
		defer s.running.Done()
		s.runner.Run(ctx, func(dt time.Duration) bool {
			return s.step(ctx, dt)
		})
	}()
}

func (s *Session) stopLocked() {
	if s.stopRun != nil {
		s.stopRun()
		s.stopRun = nil
	}
}

// step runs once per frame. A loop whose context was cancelled while it
// waited for the lock does nothing, so a paused and restarted session never
// advances twice per frame.
func (s *Session) step(ctx context.Context, dt time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	running := s.playback.Advance(dt)
	s.publishLocked()
	if !running {
		s.stopLocked()
	}
	return running
}

// Close stops playback and disconnects every subscriber.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.stopLocked()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.mu.Unlock()
	s.running.Wait()
}
