// Package grid owns the tiles of the viewer and the timers that force each
// tile's embedded content to reload.
package grid

import "fmt"

// Key identifies one mounted instance of a tile's content. Two mounts with
// different keys are always different instances.
type Key struct {
	Index  int
	Source string
	Reload int
}

func (k Key) String() string {
	return fmt.Sprintf("tile %d reload %d (%s)", k.Index, k.Reload, k.Source)
}

// Handle is an opaque mounted content instance returned by an Embedder.
type Handle any

// Embedder hosts embedded content. Content has no reload primitive: a
// fresh load is only possible by unmounting the old instance and mounting
// a new one against the same source.
type Embedder interface {
	Mount(key Key) Handle
	Unmount(h Handle)
}
