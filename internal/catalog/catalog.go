// Package catalog serves a reloadable NEO database to long-running surfaces.
//
// The Catalog holds the current linked database and its search index. Reload
// builds a complete replacement and swaps it in under a write lock, so readers
// see either the old or the new state and never a partial one. A failed reload
// keeps the old state.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maypok86/otter"
	"github.com/mvp-joe/project-neo/internal/extract"
	"github.com/mvp-joe/project-neo/internal/metrics"
	"github.com/mvp-joe/project-neo/internal/neo"
	"github.com/mvp-joe/project-neo/internal/search"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a lookup matches no NEO
	ErrNotFound = errors.New("NEO not found")

	// ErrClosed is returned by Reload, Search and Glob after Close
	ErrClosed = errors.New("catalog is closed")

	// ErrOrphanApproaches is returned by strict loading when approaches reference unknown NEOs
	ErrOrphanApproaches = errors.New("close approaches reference unknown NEOs")
)

// LoadFunc produces a freshly linked database.
type LoadFunc func(ctx context.Context) (*neo.Database, error)

// FromFiles returns a LoadFunc that extracts the NEO CSV and CAD JSON files.
func FromFiles(neoPath, cadPath string, opts ...extract.Option) LoadFunc {
	return func(ctx context.Context) (*neo.Database, error) {
		return extract.Load(ctx, neoPath, cadPath, opts...)
	}
}

// QueryResult is one executed query.
type QueryResult struct {
	ID         string               // Unique per call, cached or not
	Approaches []*neo.CloseApproach // Matches in storage order
	Scanned    int                  // Approaches examined to produce the matches
	Cached     bool
	Duration   time.Duration
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithQueryCache enables caching of query results. A size of zero or less
// disables the cache.
func WithQueryCache(size int, ttl time.Duration) Option {
	return func(c *Catalog) {
		c.cacheSize = size
		c.cacheTTL = ttl
	}
}

// WithStrictLinking makes a reload fail when approaches reference unknown NEOs.
func WithStrictLinking(strict bool) Option {
	return func(c *Catalog) {
		c.strict = strict
	}
}

type cachedQuery struct {
	approaches []*neo.CloseApproach
	scanned    int
}

// Catalog owns the current database. All methods are safe for concurrent use.
// After Close, lookups and queries keep answering from the last database
// without caching.
type Catalog struct {
	load   LoadFunc
	logger *zap.Logger
	strict bool

	cacheSize int
	cacheTTL  time.Duration

	mu         sync.RWMutex
	db         *neo.Database
	index      *search.Index
	cache      *otter.Cache[string, cachedQuery]
	generation uint64
	closed     bool

	reloads *ReloadMetrics
}

// New creates a catalog and performs the initial load.
func New(ctx context.Context, load LoadFunc, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		load:     load,
		logger:   zap.NewNop(),
		cacheTTL: 5 * time.Minute,
		reloads:  NewReloadMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.cacheSize > 0 {
		cache, err := otter.MustBuilder[string, cachedQuery](c.cacheSize).
			WithTTL(c.cacheTTL).
			Build()
		if err != nil {
			return nil, fmt.Errorf("failed to create query cache: %w", err)
		}
		c.cache = &cache
	}

	if err := c.Reload(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Reload loads the data again and swaps it in. On failure the current state
// is kept and the error returned.
func (c *Catalog) Reload(ctx context.Context) error {
	start := time.Now()
	db, index, err := c.build(ctx)
	duration := time.Since(start)

	metrics.RecordReload(err)
	if err != nil {
		c.reloads.RecordReload(duration, err, c.Stats())
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		index.Close()
		return ErrClosed
	}
	old := c.index
	c.db = db
	c.index = index
	c.generation++
	if c.cache != nil {
		c.cache.Clear()
	}
	c.mu.Unlock()

	if old != nil {
		old.Close()
	}

	stats := db.Stats()
	metrics.RecordCatalog(stats)
	c.reloads.RecordReload(duration, nil, stats)
	c.logger.Info("catalog loaded",
		zap.Int("neos", stats.NEOs),
		zap.Int("approaches", stats.Approaches),
		zap.Int("orphans", stats.Orphans),
		zap.Duration("duration", duration))

	return nil
}

func (c *Catalog) build(ctx context.Context) (*neo.Database, *search.Index, error) {
	db, err := c.load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if c.strict {
		if orphans := db.Orphans(); len(orphans) > 0 {
			return nil, nil, fmt.Errorf("%w: %d approaches, first %q", ErrOrphanApproaches, len(orphans), orphans[0].Designation())
		}
	}

	index, err := search.NewIndex(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	return db, index, nil
}

// Database returns the current database. It stays valid after later reloads.
func (c *Catalog) Database() *neo.Database {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// Stats returns the record counts of the current database.
func (c *Catalog) Stats() neo.Stats {
	db := c.Database()
	if db == nil {
		return neo.Stats{}
	}
	return db.Stats()
}

// ReloadStats returns a snapshot of reload history.
func (c *Catalog) ReloadStats() MetricsSnapshot {
	return c.reloads.GetMetrics()
}

// Lookup finds a NEO by designation, or by name when designation is empty.
func (c *Catalog) Lookup(designation, name string) (*neo.NearEarthObject, error) {
	db := c.Database()

	var (
		n  *neo.NearEarthObject
		ok bool
	)
	switch {
	case designation != "":
		n, ok = db.FindByDesignation(designation)
	case name != "":
		n, ok = db.FindByName(name)
	}
	if !ok {
		return nil, ErrNotFound
	}
	return n, nil
}

// Query runs filters against the current database and returns up to limit
// matches; limit <= 0 returns every match.
func (c *Catalog) Query(ctx context.Context, filters neo.Filters, limit int) (*QueryResult, error) {
	start := time.Now()
	id := uuid.New().String()

	c.mu.RLock()
	db, cache, generation := c.db, c.cache, c.generation
	c.mu.RUnlock()

	// The generation keeps entries computed against a replaced database from
	// being served after a reload.
	key := strconv.FormatUint(generation, 10) + "|" + filters.Key() + "limit=" + strconv.Itoa(limit)

	if cache != nil {
		if hit, ok := cache.Get(key); ok {
			metrics.RecordQuery(true, 0, len(hit.approaches))
			c.logger.Debug("query served from cache", zap.String("query_id", id), zap.Int("matches", len(hit.approaches)))
			return &QueryResult{
				ID:         id,
				Approaches: hit.approaches,
				Scanned:    hit.scanned,
				Cached:     true,
				Duration:   time.Since(start),
			}, nil
		}
	}

	cursor := db.Query(filters)
	var matches []*neo.CloseApproach
	for a := range cursor.Limit(limit) {
		if len(matches)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		matches = append(matches, a)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cache != nil {
		cache.Set(key, cachedQuery{approaches: matches, scanned: cursor.Scanned()})
	}
	metrics.RecordQuery(false, cursor.Scanned(), len(matches))

	result := &QueryResult{
		ID:         id,
		Approaches: matches,
		Scanned:    cursor.Scanned(),
		Duration:   time.Since(start),
	}
	c.logger.Debug("query executed",
		zap.String("query_id", id),
		zap.String("filters", filters.Key()),
		zap.Int("scanned", result.Scanned),
		zap.Int("matches", len(matches)),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// Search runs a fuzzy name and designation search.
func (c *Catalog) Search(ctx context.Context, text string, limit int) ([]search.Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.index == nil {
		return nil, ErrClosed
	}
	return c.index.Search(ctx, text, limit)
}

// Glob matches names and designations against a glob pattern.
func (c *Catalog) Glob(pattern string, limit int) ([]search.Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.index == nil {
		return nil, ErrClosed
	}
	return c.index.Glob(pattern, limit)
}

// Close releases the search index and the query cache. It is safe to call
// more than once.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.cache != nil {
		c.cache.Close()
		c.cache = nil
	}
	if c.index != nil {
		err := c.index.Close()
		c.index = nil
		return err
	}
	return nil
}
