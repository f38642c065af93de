package session

import "playops/internal/editor/animation"

// FrameBuffer is the number of frames queued per subscriber before new ones
// are dropped.
const FrameBuffer = 16

// Frame is one animation frame pushed to subscribers.
type Frame struct {
	Type     string                     `json:"type"`
	Progress float64                    `json:"progress"`
	Playing  bool                       `json:"playing"`
	Players  []animation.PlayerPosition `json:"players"`
}

// Frame returns the frame for the current progress.
func (s *Session) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameLocked()
}

func (s *Session) frameLocked() Frame {
	return Frame{
		Type:     "frame",
		Progress: s.playback.Progress,
		Playing:  s.playback.Playing,
		Players:  animation.Positions(s.displayedLocked(), s.playback.Progress),
	}
}

// Subscribe registers a frame receiver. The channel is closed by the returned
// cancel func or when the session closes. Slow receivers miss frames.
func (s *Session) Subscribe() (<-chan Frame, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Frame, FrameBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.frameLocked()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			close(c)
			delete(s.subs, id)
		}
	}
}

// Subscribers is the number of attached frame receivers.
func (s *Session) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Session) publishLocked() {
	if len(s.subs) == 0 {
		return
	}
	f := s.frameLocked()
	for _, ch := range s.subs {
		select {
		case ch <- f:
		default:
		}
	}
}
