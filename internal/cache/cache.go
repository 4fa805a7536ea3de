package cache

import (
	"context"
	"log/slog"

	"github.com/nao1215/sitediff/internal/model"
)

// Cache gates access to a Store with per-side read and write tags.
// The tags are fixed at construction, once per run; there is no ambient
// or process-wide cache state.
//
// Storage failures never propagate: a failed read degrades to a live
// fetch and a failed write loses only the persisted copy, each with a
// logged warning. Availability of the run wins over strict caching.
type Cache struct {
	store  *Store
	read   Tags
	write  Tags
	logger *slog.Logger
}

// New creates a Cache over store with the given read and write tags.
// A nil store disables caching entirely (every Read misses, every Write
// is a no-op); callers use this when opening the store failed.
func New(store *Store, read, write Tags, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		store:  store,
		read:   read,
		write:  write,
		logger: logger,
	}
}

// ReadTags returns the read tag selection.
func (c *Cache) ReadTags() Tags { return c.read }

// WriteTags returns the write tag selection.
func (c *Cache) WriteTags() Tags { return c.write }

// Read returns the cached entry for (side, path) when reads are enabled
// for that side. A disabled tag, a miss, a nil store, or a storage error
// all return ok=false, forcing a live fetch.
func (c *Cache) Read(ctx context.Context, side model.Side, path string) (*Entry, bool) {
	if c == nil || c.store == nil || !c.read.Includes(side) {
		return nil, false
	}

	entry, err := c.store.Get(ctx, side, path)
	if err != nil {
		c.logger.Warn("cache read failed, falling back to live fetch",
			"side", side,
			"path", path,
			"error", err,
		)
		return nil, false
	}
	if entry == nil {
		return nil, false
	}
	return entry, true
}

// Write persists the entry when writes are enabled for entry.Side,
// overwriting any prior entry for the same key. Storage errors are
// logged and swallowed.
func (c *Cache) Write(ctx context.Context, entry Entry) {
	if c == nil || c.store == nil || !c.write.Includes(entry.Side) {
		return
	}

	if err := c.store.Put(ctx, entry); err != nil {
		c.logger.Warn("cache write failed, content not persisted",
			"side", entry.Side,
			"path", entry.Path,
			"error", err,
		)
	}
}
