// Package conicform provides the per-pass memoization cache for expression
// lowering.
//
// A cache is created at the start of one lowering pass, bound to the size of
// the stacked-unknowns vector at that moment, and discarded once the solver
// has consumed the final operators. Forms are keyed by structural identity:
// any subexpression shared by multiple parents is lowered exactly once, which
// keeps lowering linear in graph size under diamond sharing.
package conicform

import (
	"go.uber.org/zap"

	"github.com/convexgo/convex/internal/config"
	"github.com/convexgo/convex/internal/identity"
	"github.com/convexgo/convex/internal/logging"
	"github.com/convexgo/convex/internal/operator"
)

// FormCache resolves a structural identity to its lowered affine map,
// computing it at most once per cache instance.
type FormCache interface {
	// InputDim returns the stacked-unknowns vector size this pass is bound to.
	InputDim() int
	// Resolve returns the cached form for d, or runs compute and caches its
	// result. For a given cache, compute runs at most once per identity.
	Resolve(d identity.Digest, compute func() (*operator.AffineMap, error)) (*operator.AffineMap, error)
	// Stats reports cache activity for the pass so far.
	Stats() Stats
}

// Stats holds cache activity counters.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

type options struct {
	log      *logging.Logger
	logStats bool
}

// Option configures a cache.
type Option func(*options)

// WithLogger attaches a logger; lowering and cache activity is logged at
// debug level.
func WithLogger(log *logging.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithStatsLogging emits the pass counters when Finish is called.
func WithStatsLogging() Option {
	return func(o *options) { o.logStats = true }
}

// FromEnv builds cache options from the process environment: a logger at
// the LOG_LEVEL/LOG_DEV configuration, and end-of-pass stats logging when
// CACHE_STATS is set.
//
//	cache := conicform.NewCache(space.Size(), conicform.FromEnv()...)
func FromEnv() []Option {
	cfg := config.LoadOrDefault()
	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		log = logging.NewNop()
	}
	opts := []Option{WithLogger(log)}
	if cfg.Compile.CacheStats {
		opts = append(opts, WithStatsLogging())
	}
	return opts
}

// Cache is the single-threaded per-pass cache. It never evicts.
type Cache struct {
	in       int
	forms    map[identity.Digest]*operator.AffineMap
	hits     uint64
	misses   uint64
	log      *logging.Logger
	logStats bool
}

// NewCache creates a cache for one lowering pass over a stacked-unknowns
// vector of the given size.
func NewCache(inputDim int, opts ...Option) *Cache {
	o := options{log: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache{
		in:       inputDim,
		forms:    make(map[identity.Digest]*operator.AffineMap),
		log:      o.log,
		logStats: o.logStats,
	}
}

// InputDim returns the stacked-unknowns vector size this pass is bound to.
func (c *Cache) InputDim() int { return c.in }

// Resolve returns the cached form for d, or computes and caches it.
func (c *Cache) Resolve(d identity.Digest, compute func() (*operator.AffineMap, error)) (*operator.AffineMap, error) {
	if f, ok := c.forms[d]; ok {
		c.hits++
		c.log.Debug("conic form cache hit", zap.Stringer("identity", d))
		return f, nil
	}
	c.misses++
	f, err := compute()
	if err != nil {
		return nil, err
	}
	c.forms[d] = f
	out, in := f.Dims()
	c.log.Debug("lowered conic form",
		zap.Stringer("identity", d),
		zap.Int("out", out),
		zap.Int("in", in),
	)
	return f, nil
}

// Stats reports cache activity for the pass so far.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.forms)}
}

// Finish marks the end of the lowering pass, emitting the pass counters
// when stats logging is enabled. The cache is discarded afterwards.
func (c *Cache) Finish() {
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
