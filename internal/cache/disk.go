// Package cache keeps rendered headers keyed by the digest of their input
// unit and emitter options, so unchanged units skip the walk.
package cache

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"

	"hdrgen/internal/diag"
	"hdrgen/internal/export"
	"hdrgen/internal/project"
)

// Current schema version - increment when Entry format changes
const diskCacheSchemaVersion uint16 = 1

// Entry is what a successful generation leaves behind: the header text and
// the warnings it produced, replayed on a hit.
type Entry struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	UnitName string
	Header   string
	Warnings []diag.Diagnostic

	Stats     export.Stats
	CreatedAt time.Time
}

// Disk stores entries under <dir>/headers/<hex key>.mp.
// Thread-safe for concurrent access.
type Disk struct {
	mu  sync.RWMutex
	dir string
}

// DefaultDir is $XDG_CACHE_HOME/<app> or ~/.cache/<app>.
func DefaultDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve cache dir")
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenDisk initializes a disk cache rooted at dir.
func OpenDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create cache dir %s", dir)
	}
	return &Disk{dir: dir}, nil
}

// Dir is the cache root.
func (c *Disk) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Disk) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "headers", key.String()+".mp")
}

// Put serializes and writes an entry, replacing any previous one atomically.
func (c *Disk) Put(key project.Digest, e *Entry) error {
	if c == nil || e == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrap(err, "create cache subdir")
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return errors.Wrap(err, "create cache temp file")
	}
	tmp := f.Name()
	defer func() {
		// after a successful rename the temp name no longer exists
		_ = os.Remove(tmp)
	}()

	stored := *e
	stored.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(&stored); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "encode cache entry")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close cache temp file")
	}
	return errors.Wrap(os.Rename(tmp, p), "commit cache entry")
}

// Get reads an entry. Entries written by another schema version are misses.
func (c *Disk) Get(key project.Digest) (*Entry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "open cache entry")
	}
	defer func() { _ = f.Close() }()

	var e Entry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		return nil, false, errors.Wrap(err, "decode cache entry")
	}
	if e.Schema != diskCacheSchemaVersion {
		return nil, false, nil
	}
	return &e, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *Disk) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return errors.Wrap(err, "drop cache")
	}
	return errors.Wrap(os.RemoveAll(old), "drop cache")
}
