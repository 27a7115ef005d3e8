// Package content loads the remote resources shown inside grid tiles.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"colorgrid/grid"
)

// ErrNoSource is the load error of a frame mounted without a source.
var ErrNoSource = errors.New("no content source")

const maxBody = 1 << 20

// Embedder mounts Frames. It implements grid.Embedder.
type Embedder struct {
	client    *http.Client
	userAgent string
	onLoad    func(*Frame)
	log       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

var _ grid.Embedder = (*Embedder)(nil)

// Option configures an Embedder.
type Option func(*Embedder)

// WithTimeout bounds a single load.
func WithTimeout(d time.Duration) Option {
	return func(e *Embedder) { e.client = &http.Client{Timeout: d} }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Embedder) { e.client = c }
}

// WithUserAgent sets the User-Agent header of loads.
func WithUserAgent(ua string) Option {
	return func(e *Embedder) { e.userAgent = ua }
}

// WithOnLoad registers fn to run when a mounted frame finishes loading,
// successfully or not. Frames unmounted before that are not reported.
func WithOnLoad(fn func(*Frame)) Option {
	return func(e *Embedder) { e.onLoad = fn }
}

// WithLogger sets the logger. Logs are discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(e *Embedder) { e.log = l }
}

func NewEmbedder(opts ...Option) *Embedder {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Embedder{
		client:    &http.Client{Timeout: 10 * time.Second},
		userAgent: "colorgrid/1.0",
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mount creates a new frame for key and starts loading it in the
// background. The load is never retried.
func (e *Embedder) Mount(key grid.Key) grid.Handle {
	f := newFrame(e.ctx, key)
	go e.load(f)
	return f
}

// Unmount discards a frame and aborts its load if still running.
func (e *Embedder) Unmount(h grid.Handle) {
	if f, ok := h.(*Frame); ok && f != nil {
		f.discard()
	}
}

// Close aborts every load still in flight.
func (e *Embedder) Close() {
	e.cancel()
}

func (e *Embedder) load(f *Frame) {
	snap, err := e.fetch(f.ctx, f.key.Source)
	if err != nil {
		e.log.Debug("content load failed", "tile", f.key.Index, "reload", f.key.Reload, "error", err)
	}
	if !f.finish(snap, err) {
		return
	}
	if e.onLoad != nil {
		e.onLoad(f)
	}
}

func (e *Embedder) fetch(ctx context.Context, source string) (Snapshot, error) {
	if source == "" {
		return Snapshot{}, ErrNoSource
	}

	req, err := http.NewRequestWithContext(ctx, "GET", source, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	// A fresh copy on every mount, never a cached one.
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := e.client.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Snapshot{}, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading body: %w", err)
	}
	return decode(resp.Header.Get("Content-Type"), body)
}
