package grid

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"

	"colorgrid/config"
)

type options struct {
	jitter   Jitter
	rand     *rand.Rand
	onReload func(Reload)
	log      *slog.Logger
}

// Option configures Build.
type Option func(*options)

// WithJitter overrides DefaultJitter.
func WithJitter(j Jitter) Option {
	return func(o *options) { o.jitter = j }
}

// WithRand draws scheduler intervals from r instead of the global source.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rand = r }
}

// WithOnReload registers fn to run after every tile remount. fn runs on the
// reloading tile's timer goroutine.
func WithOnReload(fn func(Reload)) Option {
	return func(o *options) { o.onReload = fn }
}

// WithLogger sets the logger. Logs are discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Grid is the fixed set of tiles for one configuration.
type Grid struct {
	cfg   config.Config
	tiles []*Tile
	log   *slog.Logger

	startOnce sync.Once
	closeOnce sync.Once
}

// Build creates one tile per descriptor, all bound to cfg.SourceURL. Each
// tile gets its own scheduler. Nothing is mounted until Start.
func Build(cfg config.Config, e Embedder, opts ...Option) *Grid {
	o := options{jitter: DefaultJitter}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ds := Descriptors(cfg.TileCount)
	tiles := make([]*Tile, 0, len(ds))
	for _, d := range ds {
		sched := NewScheduler(o.jitter, o.rand)
		tiles = append(tiles, newTile(d, cfg.SourceURL, e, sched, o.onReload, o.log))
	}

	return &Grid{cfg: cfg, tiles: tiles, log: o.log}
}

// Config returns the configuration the grid was built from.
func (g *Grid) Config() config.Config { return g.cfg }

// Tiles returns the tiles in display order. The slice must not be modified.
func (g *Grid) Tiles() []*Tile { return g.tiles }

// Len returns the number of tiles.
func (g *Grid) Len() int { return len(g.tiles) }

// Start mounts every tile and starts its timer. Only the first call has an
// effect.
func (g *Grid) Start() {
	g.startOnce.Do(func() {
		g.log.Info("starting grid", "tiles", len(g.tiles), "source", g.cfg.SourceURL)
		for _, t := range g.tiles {
			t.start()
		}
	})
}

// Close tears every tile down. Only the first call has an effect.
func (g *Grid) Close() {
	g.closeOnce.Do(func() {
		for _, t := range g.tiles {
			t.Close()
		}
		g.log.Info("grid closed", "tiles", len(g.tiles))
	})
}
