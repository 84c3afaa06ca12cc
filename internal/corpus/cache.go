package corpus

import (
	"context"
	"sync"
)

// Cache holds the latest Snapshot and rebuilds it on demand. Invalidation is
// coarse: any change anywhere marks the whole snapshot dirty, and the next
// read pays for a full rebuild. There is no incremental path.
type Cache struct {
	svc *Service

	mu    sync.Mutex
	snap  *Snapshot
	dirty bool
}

// NewCache wraps a Service. The cache starts dirty, so the first Snapshot
// call performs the initial load.
func NewCache(svc *Service) *Cache {
	return &Cache{svc: svc, dirty: true}
}

// Snapshot returns the current snapshot, rebuilding it first if an
// invalidation arrived since the last build. Readers block while a rebuild
// is in flight.
func (c *Cache) Snapshot(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty && c.snap != nil {
		return c.snap, nil
	}
	snap, err := c.svc.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.snap = snap
	c.dirty = false
	return snap, nil
}

// Invalidate marks the snapshot stale. The rebuild happens lazily on the
// next Snapshot call.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.dirty = true
	c.mu.Unlock()
}
