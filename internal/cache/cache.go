package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"hdrgen/internal/project"
)

// DefaultMemEntries bounds the in-memory front.
const DefaultMemEntries = 256

// Stats counts lookups since the cache was opened.
type Stats struct {
	MemHits  int64
	DiskHits int64
	Misses   int64
}

// Cache is an in-memory LRU in front of an optional Disk. Watch mode
// regenerates the same units over and over, so the memory layer absorbs
// repeat lookups without touching the file system. Safe for concurrent use.
type Cache struct {
	mem  *lru.Cache[project.Digest, *Entry]
	disk *Disk

	memHits  atomic.Int64
	diskHits atomic.Int64
	misses   atomic.Int64
}

// New builds a cache; disk may be nil for memory-only operation.
func New(memEntries int, disk *Disk) (*Cache, error) {
	if memEntries <= 0 {
		memEntries = DefaultMemEntries
	}
	mem, err := lru.New[project.Digest, *Entry](memEntries)
	if err != nil {
		return nil, err
	}
	return &Cache{mem: mem, disk: disk}, nil
}

// Get looks in memory, then on disk. Disk hits are promoted to memory.
// A nil Cache always misses.
func (c *Cache) Get(key project.Digest) (*Entry, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	if e, ok := c.mem.Get(key); ok {
		c.memHits.Add(1)
		return e, true, nil
	}
	e, ok, err := c.disk.Get(key)
	if err != nil || !ok {
		c.misses.Add(1)
		return nil, false, err
	}
	c.diskHits.Add(1)
	c.mem.Add(key, e)
	return e, true, nil
}

// Put stores e in both layers.
func (c *Cache) Put(key project.Digest, e *Entry) error {
	if c == nil || e == nil {
		return nil
	}
	c.mem.Add(key, e)
	return c.disk.Put(key, e)
}

// Purge empties memory and disk.
func (c *Cache) Purge() error {
	if c == nil {
		return nil
	}
	c.mem.Purge()
	return c.disk.DropAll()
}

func (c *Cache) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	return Stats{
		MemHits:  c.memHits.Load(),
		DiskHits: c.diskHits.Load(),
		Misses:   c.misses.Load(),
	}
}
