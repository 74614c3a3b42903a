package conicform

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/convexgo/convex/internal/identity"
	"github.com/convexgo/convex/internal/logging"
	"github.com/convexgo/convex/internal/operator"
)

// SyncCache is a FormCache safe for concurrent lowering. For a given
// identity exactly one computation executes and all concurrent callers
// observe the same completed result; independent identities are not ordered
// with respect to each other.
type SyncCache struct {
	in       int
	mu       sync.RWMutex
	forms    map[identity.Digest]*operator.AffineMap
	flight   singleflight.Group
	hits     atomic.Uint64
	misses   atomic.Uint64
	log      *logging.Logger
	logStats bool
}

// NewSyncCache creates a concurrent cache for one lowering pass.
func NewSyncCache(inputDim int, opts ...Option) *SyncCache {
	o := options{log: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &SyncCache{
		in:       inputDim,
		forms:    make(map[identity.Digest]*operator.AffineMap),
		log:      o.log,
		logStats: o.logStats,
	}
}

// InputDim returns the stacked-unknowns vector size this pass is bound to.
func (c *SyncCache) InputDim() int { return c.in }

// Resolve returns the cached form for d, or computes it under singleflight
// so concurrent callers for the same identity share one computation.
func (c *SyncCache) Resolve(d identity.Digest, compute func() (*operator.AffineMap, error)) (*operator.AffineMap, error) {
	c.mu.RLock()
	f, ok := c.forms[d]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return f, nil
	}

	v, err, _ := c.flight.Do(d.String(), func() (interface{}, error) {
		// Re-check: a previous flight may have stored the form between the
		// read-lock miss and entering the flight.
		c.mu.RLock()
		f, ok := c.forms[d]
		c.mu.RUnlock()
		if ok {
			c.hits.Add(1)
			return f, nil
		}

		c.misses.Add(1)
		f, err := compute()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.forms[d] = f
		c.mu.Unlock()
		c.log.Debug("lowered conic form", zap.Stringer("identity", d))
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*operator.AffineMap), nil
}

// Stats reports cache activity for the pass so far.
func (c *SyncCache) Stats() Stats {
	c.mu.RLock()
	entries := len(c.forms)
	c.mu.RUnlock()
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: entries}
}

// Finish marks the end of the lowering pass, emitting the pass counters
// when stats logging is enabled.
func (c *SyncCache) Finish() {
	if !c.logStats {
		return
	}
	s := c.Stats()
	c.log.Info("lowering pass finished",
		zap.Uint64("hits", s.Hits),
		zap.Uint64("misses", s.Misses),
		zap.Int("entries", s.Entries),
	)
}
