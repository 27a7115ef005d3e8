package content

import (
	"context"
	"sync"
	"time"

	"colorgrid/grid"
)

// State is where a frame is in its single load.
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateFailed
	StateDiscarded
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	case StateDiscarded:
		return "discarded"
	default:
		return "loading"
	}
}

// Frame is one mounted instance of a tile's content. It loads its source
// exactly once; the only way to see newer content is a new Frame.
type Frame struct {
	key    grid.Key
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State
	snap     Snapshot
	err      error
	mounted  time.Time
	loadedAt time.Time
}

// FrameView is a point-in-time copy of a frame for rendering.
type FrameView struct {
	Key      grid.Key
	State    State
	Snapshot Snapshot
	Err      error
	Mounted  time.Time
	LoadedAt time.Time
}

func newFrame(parent context.Context, key grid.Key) *Frame {
	ctx, cancel := context.WithCancel(parent)
	return &Frame{
		key:     key,
		ctx:     ctx,
		cancel:  cancel,
		state:   StateLoading,
		mounted: time.Now(),
	}
}

func (f *Frame) Key() grid.Key { return f.key }

// View returns a copy of the frame's current state.
func (f *Frame) View() FrameView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FrameView{
		Key:      f.key,
		State:    f.state,
		Snapshot: f.snap,
		Err:      f.err,
		Mounted:  f.mounted,
		LoadedAt: f.loadedAt,
	}
}

// finish records the load result. It reports false if the frame was
// discarded first, in which case the result is dropped.
func (f *Frame) finish(snap Snapshot, err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateDiscarded {
		return false
	}
	f.loadedAt = time.Now()
	if err != nil {
		f.state = StateFailed
		f.err = err
		return true
	}
	f.state = StateLoaded
	f.snap = snap
	return true
}

func (f *Frame) discard() {
	f.mu.Lock()
	f.state = StateDiscarded
	f.mu.Unlock()
	f.cancel()
}
