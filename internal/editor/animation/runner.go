package animation

import (
	"context"
	"time"
)

// DefaultFPS is the frame rate of the playback loop.
const DefaultFPS = 60

// StepFunc advances playback by the real time elapsed since the previous frame
// and reports whether another frame is wanted.
type StepFunc func(dt time.Duration) bool

// Runner is a frame loop. Each tick measures the elapsed wall time rather than
// assuming the nominal interval.
type Runner struct {
	interval time.Duration
	now      func() time.Time
}

func NewRunner(fps int) *Runner {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Runner{
		interval: time.Second / time.Duration(fps),
		now:      time.Now,
	}
}

func (r *Runner) Interval() time.Duration { return r.interval }

// Run calls step once per frame until it returns false or ctx is done.
func (r *Runner) Run(ctx context.Context, step StepFunc) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	last := r.now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := r.now()
			dt := now.Sub(last)
			last = now
			if !step(dt) {
				return
			}
		}
	}
}
