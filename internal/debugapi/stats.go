package debugapi

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/respkv/respkv/internal/kvindex"
)

// StatsSnapshot is the JSON shape served by GET /debug/stats.
type StatsSnapshot struct {
	UptimeSeconds      float64 `json:"uptime_seconds"`
	ActiveConnections  int     `json:"active_connections"`
	WorkerPoolSize     int     `json:"worker_pool_size"`
	StringKeys         int     `json:"string_keys"`
	ListKeys           int     `json:"list_keys"`
	TotalKeys          int     `json:"total_keys"`
	GeneratedAt        time.Time `json:"generated_at"`
	CacheHit           bool    `json:"-"`
}

// activeConns reports how many connections the command server is currently
// servicing, and the configured pool size — narrow interface so this
// package doesn't need to import internal/server.
type activeConns interface {
	ActiveConnections() int
	PoolSize() int
}

// statsCache serves a short-TTL snapshot of server stats, coalescing
// concurrent refreshes with singleflight so a burst of polling clients
// doesn't stampede the index for the same snapshot.
type statsCache struct {
	idx     *kvindex.Index
	conns   activeConns
	started time.Time
	ttl     time.Duration

	mu      sync.RWMutex
	cache   StatsSnapshot
	expires time.Time

	sg singleflight.Group
	now func() time.Time
}

func newStatsCache(idx *kvindex.Index, conns activeConns, ttl time.Duration) *statsCache {
	if ttl <= 0 {
		ttl = 250 * time.Millisecond
	}
	return &statsCache{
		idx:     idx,
		conns:   conns,
		started: time.Now(),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *statsCache) Get(_ context.Context) StatsSnapshot {
	c.mu.RLock()
	if !c.cache.GeneratedAt.IsZero() && c.now().Before(c.expires) {
		snap := c.cache
		c.mu.RUnlock()
		snap.CacheHit = true
		return snap
	}
	c.mu.RUnlock()

	v, _, _ := c.sg.Do("stats-refresh", func() (any, error) {
		c.mu.RLock()
		if !c.cache.GeneratedAt.IsZero() && c.now().Before(c.expires) {
			snap := c.cache
			c.mu.RUnlock()
			return snap, nil
		}
		c.mu.RUnlock()

		snap := c.refresh()

		c.mu.Lock()
		c.cache = snap
		c.expires = c.now().Add(c.ttl)
		c.mu.Unlock()

		return snap, nil
	})

	return v.(StatsSnapshot)
}

func (c *statsCache) refresh() StatsSnapshot {
	keyStats := c.idx.Snapshot()
	return StatsSnapshot{
		UptimeSeconds:     c.now().Sub(c.started).Seconds(),
		ActiveConnections: c.conns.ActiveConnections(),
		WorkerPoolSize:    c.conns.PoolSize(),
		StringKeys:        keyStats.StringKeys,
		ListKeys:          keyStats.ListKeys,
		TotalKeys:         keyStats.TotalKeys(),
		GeneratedAt:       c.now(),
	}
}
