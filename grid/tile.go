package grid

import (
	"log/slog"
	"sync"
	"time"
)

// Descriptor is a tile's positional identity in the grid.
type Descriptor struct {
	Index int
}

// Descriptors returns n descriptors indexed 0..n-1 in display order.
func Descriptors(n int) []Descriptor {
	if n <= 0 {
		return []Descriptor{}
	}
	ds := make([]Descriptor, n)
	for i := range ds {
		ds[i] = Descriptor{Index: i}
	}
	return ds
}

// Reload is reported after a tile remounted its content.
type Reload struct {
	Index  int
	Count  int
	Handle Handle
}

// Tile embeds one content instance and remounts it on every tick of its
// own scheduler.
type Tile struct {
	desc     Descriptor
	source   string
	embedder Embedder
	sched    *Scheduler
	onReload func(Reload)
	log      *slog.Logger

	mu      sync.Mutex
	reloads int
	handle  Handle
	cancel  CancelFunc
	closed  bool
}

func newTile(d Descriptor, source string, e Embedder, sched *Scheduler, onReload func(Reload), log *slog.Logger) *Tile {
	return &Tile{
		desc:     d,
		source:   source,
		embedder: e,
		sched:    sched,
		onReload: onReload,
		log:      log,
	}
}

func (t *Tile) Index() int { return t.desc.Index }
func (t *Tile) Source() string { return t.source }
func (t *Tile) Interval() time.Duration { return t.sched.Interval() }
func (t *Tile) Descriptor() Descriptor { return t.desc }

// ReloadCount returns how many times the content has been remounted.
func (t *Tile) ReloadCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reloads
}

// Handle returns the currently mounted content, or nil before start and
// after close.
func (t *Tile) Handle() Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handle
}

func (t *Tile) key() Key {
	return Key{Index: t.desc.Index, Source: t.source, Reload: t.reloads}
}

// start mounts the initial content and begins the reload timer.
func (t *Tile) start() {
	t.mu.Lock()
	if t.closed || t.cancel != nil {
		t.mu.Unlock()
		return
	}
	t.handle = t.embedder.Mount(t.key())
	// Holding mu here keeps a fast first tick from running before cancel is set.
	t.cancel = t.sched.Start(t.tick)
	t.mu.Unlock()

	t.log.Debug("tile started", "tile", t.desc.Index, "interval", t.sched.Interval())
}

func (t *Tile) tick() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	old := t.handle
	t.reloads++
	t.embedder.Unmount(old)
	t.handle = t.embedder.Mount(t.key())
	r := Reload{Index: t.desc.Index, Count: t.reloads, Handle: t.handle}
	t.mu.Unlock()

	t.log.Debug("tile remounted", "tile", r.Index, "reload", r.Count)
	if t.onReload != nil {
		t.onReload(r)
	}
}

// Close stops the reload timer and unmounts the content. Later calls do
// nothing. No reload happens after Close returns.
func (t *Tile) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	cancel := t.cancel
	t.mu.Unlock()

	// The tick callback takes mu, so wait for it without holding mu.
	if cancel != nil {
		cancel()
	}

	t.mu.Lock()
	if t.handle != nil {
		t.embedder.Unmount(t.handle)
		t.handle = nil
	}
	t.mu.Unlock()
}
