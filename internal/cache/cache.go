// Package cache is the in-memory formatting cache: absolute TTL, bounded size
// with batch eviction of stale, rarely used entries, and hit/miss metrics.
package cache

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxSize       = 1000
	DefaultTTL           = 5 * time.Minute
	DefaultSweepInterval = time.Minute
	// EvictFraction is the share of entries dropped when the cache is full.
	EvictFraction = 0.25
)

// Options configures a Cache. Zero values select the defaults.
type Options struct {
	MaxSize       int
	TTL           time.Duration
	SweepInterval time.Duration
	Logger        logrus.FieldLogger
}

// entry is the stored value. The timestamp is set on write only.
type entry struct {
	value       any
	timestamp   time.Time
	accessCount atomic.Int64
	seq         uint64
}

// Metrics are the raw counters of a Cache.
type Metrics struct {
	Hits               int64         `json:"hits"`
	Misses             int64         `json:"misses"`
	Total              int64         `json:"total"`
	Evictions          int64         `json:"evictions"`
	Computations       int64         `json:"computations"`
	AverageComputeTime time.Duration `json:"average_compute_time"`
}

// Stats is a snapshot of the cache state.
type Stats struct {
	Size    int     `json:"size"`
	MaxSize int     `json:"max_size"`
	HitRate float64 `json:"hit_rate"`
	Metrics
}

// Cache is safe for concurrent use.
type Cache struct {
	store   *gocache.Cache
	maxSize int
	ttl     time.Duration
	log     logrus.FieldLogger

	mu      sync.Mutex // serializes writes and metrics
	seq     uint64
	metrics Metrics

	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a cache and starts its sweeper. Call Destroy to stop it.
func New(opts Options) *Cache {
	if opts.MaxSize <= 0 {
		opts.MaxSize = DefaultMaxSize
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		opts.Logger = l
	}

	c := &Cache{
		// the go-cache janitor is disabled, sweeping is ours to stop
		store:   gocache.New(opts.TTL, 0),
		maxSize: opts.MaxSize,
		ttl:     opts.TTL,
		log:     opts.Logger.WithField("component", "cache"),
		ticker:  time.NewTicker(opts.SweepInterval),
		done:    make(chan struct{}),
	}
	go c.sweepRoutine()
	return c
}

func (c *Cache) sweepRoutine() {
	for {
		select {
		case <-c.ticker.C:
			c.Sweep()
		case <-c.done:
			return
		}
	}
}

// Sweep removes expired entries and returns how many were removed.
func (c *Cache) Sweep() int {
	before := c.store.ItemCount()
	c.store.DeleteExpired()
	removed := before - c.store.ItemCount()
	if removed > 0 {
		c.log.WithFields(logrus.Fields{
			"removed": removed,
			"size":    c.store.ItemCount(),
		}).Debug("Swept expired cache entries")
	}
	return removed
}

// Get returns a live entry. Expired entries count as misses.
func (c *Cache) Get(key string) (any, bool) {
	v, found := c.store.Get(key)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics.Total++
	if !found {
		c.metrics.Misses++
		return nil, false
	}
	e := v.(*entry)
	e.accessCount.Add(1)
	c.metrics.Hits++
	return e.value, true
}

// Set stores value under key with a fresh timestamp. When the cache reaches
// its capacity, the oldest EvictFraction of the entries is dropped.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.store.Set(key, &entry{value: value, timestamp: time.Now(), seq: c.seq}, gocache.DefaultExpiration)
	if c.store.ItemCount() >= c.maxSize {
		c.evictLocked()
	}
}

type ranked struct {
	key string
	e   *entry
}

func (c *Cache) evictLocked() {
	c.store.DeleteExpired()
	items := c.store.Items()
	if len(items) < c.maxSize {
		return
	}

	all := make([]ranked, 0, len(items))
	for k, it := range items {
		all = append(all, ranked{key: k, e: it.Object.(*entry)})
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i].e, all[j].e
		if !a.timestamp.Equal(b.timestamp) {
			return a.timestamp.Before(b.timestamp)
		}
		if ac, bc := a.accessCount.Load(), b.accessCount.Load(); ac != bc {
			return ac < bc
		}
		return a.seq < b.seq
	})

	n := int(math.Ceil(float64(len(all)) * EvictFraction))
	for _, r := range all[:n] {
		c.store.Delete(r.key)
	}
	c.metrics.Evictions += int64(n)
	c.log.WithFields(logrus.Fields{
		"evicted": n,
		"size":    c.store.ItemCount(),
	}).Debug("Evicted cache entries")
}

// Delete removes one entry.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return len(c.store.Items())
}

// Clear drops every entry and resets the metrics.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Flush()
	c.metrics = Metrics{}
}

// Stats returns the current size, hit rate and counters.
func (c *Cache) Stats() Stats {
	size := c.Len()

	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{Size: size, MaxSize: c.maxSize, Metrics: c.metrics}
	if lookups := c.metrics.Hits + c.metrics.Misses; lookups > 0 {
		s.HitRate = float64(c.metrics.Hits) / float64(lookups)
	}
	return s
}

// Destroy stops the sweeper. It is safe to call more than once. The cache
// stays usable afterwards, without proactive sweeping.
func (c *Cache) Destroy() {
	c.closeOnce.Do(func() {
		c.ticker.Stop()
		close(c.done)
	})
}

func (c *Cache) recordCompute(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.metrics.Computations
	c.metrics.AverageComputeTime = time.Duration((int64(c.metrics.AverageComputeTime)*n + int64(d)) / (n + 1))
	c.metrics.Computations = n + 1
}
