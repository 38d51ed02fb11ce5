package draws

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type cacheKey struct {
	path  string
	sheet string
}

type cacheEntry struct {
	records []DrawRecord
	version time.Time
}

// Dataset is a loaded workbook. Records must not be modified.
type Dataset struct {
	Records []DrawRecord
	// Version is the workbook modification time when it was read.
	Version time.Time
}

// Cache keeps at most one loaded copy of each (path, sheet) source.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	loader  func(path, sheet string) ([]DrawRecord, error)
	log     *zap.Logger
}

// NewCache returns an empty cache. A nil logger disables logging.
func NewCache(log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		entries: map[cacheKey]cacheEntry{},
		loader:  Load,
		log:     log,
	}
}

// Get returns the cached dataset for the source, loading it on first use.
// Failed loads are not cached.
func (c *Cache) Get(path, sheet string) (Dataset, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}
	key := cacheKey{path: filepath.Clean(path), sheet: sheet}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return Dataset{Records: e.records, Version: e.version}, nil
	}

	var version time.Time
	if fi, err := os.Stat(path); err == nil {
		version = fi.ModTime()
	}
	start := time.Now()
	records, err := c.loader(path, sheet)
	if err != nil {
		c.log.Warn("dataset load failed", zap.String("path", path), zap.String("sheet", sheet), zap.Error(err))
		return Dataset{}, err
	}
	c.entries[key] = cacheEntry{records: records, version: version}
	c.log.Info("dataset loaded",
		zap.String("path", path),
		zap.String("sheet", sheet),
		zap.Int("records", len(records)),
		zap.Duration("took", time.Since(start)))
	return Dataset{Records: records, Version: version}, nil
}

// Invalidate drops every cached sheet of path.
func (c *Cache) Invalidate(path string) {
	path = filepath.Clean(path)
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.path == path {
			delete(c.entries, k)
		}
	}
}

// Watch invalidates path whenever the file is written, replaced or removed.
// The parent directory is watched so editors that save by rename are seen too.
// It blocks until ctx is done.
func (c *Cache) Watch(ctx context.Context, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	clean := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				c.log.Info("dataset changed on disk", zap.String("path", abs), zap.String("op", ev.Op.String()))
				c.Invalidate(clean)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.log.Warn("dataset watcher error", zap.Error(err))
		}
	}
}

// Source binds a cache to one workbook sheet.
type Source struct {
	cache *Cache
	path  string
	sheet string
}

// Source returns a handle that loads path/sheet through c.
func (c *Cache) Source(path, sheet string) *Source {
	return &Source{cache: c, path: path, sheet: sheet}
}

// Dataset returns the cached records of the source.
func (s *Source) Dataset() (Dataset, error) {
	return s.cache.Get(s.path, s.sheet)
}

// Path is the workbook location.
func (s *Source) Path() string { return s.path }
