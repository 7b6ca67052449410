package substances

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/jesus-or-drugs/truth-light-jp-v4/internal/models"
)

// DefaultCacheTTL is the freshness window used when the config does not set
// one. Short enough that content edits show up without a restart, long
// enough that request bursts never rescan the directory.
const DefaultCacheTTL = 30 * time.Second

// Snapshot is one fully-built cache generation: the loaded documents, the
// index built over exactly those documents, and the build time. A snapshot
// is immutable once published; superseded snapshots are simply dropped.
type Snapshot struct {
	BuiltAt   time.Time
	Documents []*models.IndexedSubstance
	Index     *Index
}

// Cache holds the current (documents, index) snapshot and rebuilds it from
// disk once the freshness window elapses.
//
// Fresh reads are lock-free via an atomic pointer; the rebuild path is
// serialized by a mutex so at most one rebuild runs at a time, with a
// double-check after acquiring the lock. A failed rebuild propagates to the
// caller: the previous snapshot is kept in memory but never served past its
// window (fail loud, no stale serving — a missing content directory is a
// deployment fault that should surface immediately).
type Cache struct {
	dir    string
	ttl    time.Duration
	logger arbor.ILogger

	// now is injectable for tests
	now func() time.Time

	current atomic.Pointer[Snapshot]
	rebuild sync.Mutex
}

// NewCache creates a cache over the given content directory. A zero or
// negative ttl falls back to DefaultCacheTTL.
func NewCache(dir string, ttl time.Duration, logger arbor.ILogger) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		dir:    dir,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Snapshot returns the current snapshot, rebuilding first when no snapshot
// exists or the freshness window has elapsed.
func (c *Cache) Snapshot() (*Snapshot, error) {
	if snap := c.current.Load(); snap != nil && c.fresh(snap) {
		return snap, nil
	}

	c.rebuild.Lock()
	defer c.rebuild.Unlock()

	// Another caller may have completed the rebuild while we waited
	if snap := c.current.Load(); snap != nil && c.fresh(snap) {
		return snap, nil
	}

	started := c.now()
	docs, err := LoadDirectory(c.dir, c.logger)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		BuiltAt:   started,
		Documents: docs,
		Index:     BuildIndex(docs),
	}
	// Publish the fully-built snapshot in one step
	c.current.Store(snap)

	if c.logger != nil {
		c.logger.Debug().
			Int("documents", len(docs)).
			Dur("duration", c.now().Sub(started)).
			Msg("Substance index rebuilt")
	}

	return snap, nil
}

// Peek returns the current snapshot without triggering a rebuild, or nil
// when none has been built yet. Used for status reporting.
func (c *Cache) Peek() *Snapshot {
	return c.current.Load()
}

func (c *Cache) fresh(snap *Snapshot) bool {
	return c.now().Sub(snap.BuiltAt) < c.ttl
}
