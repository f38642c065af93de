package animation

import (
	"math"
	"time"
)

// ============================================================
// Playback
// ============================================================

const (
	MinSpeed        = 0.25
	MaxSpeed        = 3.0
	SpeedStep       = 0.25
	DefaultSpeed    = 1.0
	DefaultDuration = 3 * time.Second
)

// Playback drives progress through [0, 1] at Speed/Duration per second of
// real time.
type Playback struct {
	Progress float64       `json:"progress"`
	Speed    float64       `json:"speed"`
	Duration time.Duration `json:"-"`
	Playing  bool          `json:"playing"`
}

func NewPlayback(duration time.Duration) Playback {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return Playback{Speed: DefaultSpeed, Duration: duration}
}

// PlayPause toggles playback. Starting from the end rewinds to 0 first.
func (p *Playback) PlayPause() {
	if p.Playing {
		p.Playing = false
		return
	}
	if p.Progress >= 1 {
		p.Progress = 0
	}
	p.Playing = true
}

func (p *Playback) Reset() {
	p.Playing = false
	p.Progress = 0
}

// SetSpeed clamps v to [MinSpeed, MaxSpeed] and snaps it to SpeedStep.
func (p *Playback) SetSpeed(v float64) {
	if math.IsNaN(v) {
		return
	}
	v = math.Min(math.Max(v, MinSpeed), MaxSpeed)
	p.Speed = math.Round(v/SpeedStep) * SpeedStep
}

// Seek moves progress to t clamped to [0, 1].
func (p *Playback) Seek(t float64) {
	p.Progress = clamp01(t)
}

// Advance moves progress forward by dt of real time and reports whether
// playback is still running. Reaching 1 stops playback.
func (p *Playback) Advance(dt time.Duration) bool {
	if !p.Playing {
		return false
	}
	if dt > 0 {
		p.Progress += dt.Seconds() * p.Speed / p.Duration.Seconds()
	}
	if p.Progress >= 1 {
		p.Progress = 1
		p.Playing = false
	}
	return p.Playing
}
