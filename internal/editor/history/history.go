package history

import (
	"playops/internal/scene"
)

// Limit is the maximum number of undo steps kept.
const Limit = 50

// State is a linear undo/redo log over scene snapshots. Transitions never
// mutate their input; Past and Future are always fresh slices.
type State struct {
	Past    []scene.Scene
	Present scene.Scene
	Future  []scene.Scene
}

// New starts a log with no undo or redo steps.
func New(initial scene.Scene) State {
	return State{
		Past:    []scene.Scene{},
		Present: initial,
		Future:  []scene.Scene{},
	}
}

// Push records next as the present snapshot. The oldest past entries are
// evicted beyond Limit and any redo steps are dropped.
func Push(h State, next scene.Scene) State {
	past := make([]scene.Scene, 0, min(len(h.Past)+1, Limit))
	start := 0
	if len(h.Past)+1 > Limit {
		start = len(h.Past) + 1 - Limit
	}
	past = append(past, h.Past[start:]...)
	past = append(past, h.Present)

	return State{
		Past:    past,
		Present: next,
		Future:  []scene.Scene{},
	}
}

// Undo steps back one snapshot. It returns h unchanged when there is nothing
// to undo.
func Undo(h State) State {
	if len(h.Past) == 0 {
		return h
	}
	last := len(h.Past) - 1

	past := make([]scene.Scene, last)
	copy(past, h.Past[:last])

	future := make([]scene.Scene, 0, len(h.Future)+1)
	future = append(future, h.Present)
	future = append(future, h.Future...)

	return State{
		Past:    past,
		Present: h.Past[last],
		Future:  future,
	}
}

// Redo re-applies the most recently undone snapshot. It returns h unchanged
// when there is nothing to redo.
func Redo(h State) State {
	if len(h.Future) == 0 {
		return h
	}

	past := make([]scene.Scene, 0, len(h.Past)+1)
	past = append(past, h.Past...)
	past = append(past, h.Present)

	future := make([]scene.Scene, len(h.Future)-1)
	copy(future, h.Future[1:])

	return State{
		Past:    past,
		Present: h.Future[0],
		Future:  future,
	}
}

func CanUndo(h State) bool { return len(h.Past) > 0 }

func CanRedo(h State) bool { return len(h.Future) > 0 }
