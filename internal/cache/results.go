package cache

import (
	"sync"

	"github.com/calldeskhq/reportetl/internal/types"
)

// ResultCache keeps the most recent ETLResult per date in memory so read
// endpoints can skip the store for hot days. It is a cache, not the
// system of record; the store owns durability.
type ResultCache struct {
	results map[string]*types.ETLResult
	latest  string
	mu      sync.RWMutex
}

// NewResultCache creates a new result cache
func NewResultCache() *ResultCache {
	return &ResultCache{
		results: make(map[string]*types.ETLResult),
	}
}

// Put stores a result, replacing any earlier run for the same date
func (c *ResultCache) Put(result *types.ETLResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results[result.Date] = result
	if result.Date >= c.latest {
		c.latest = result.Date
	}
}

// Get returns the cached result for a date, or nil
func (c *ResultCache) Get(date string) *types.ETLResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.results[date]
}

// Latest returns the result for the most recent processed date, or nil
func (c *ResultCache) Latest() *types.ETLResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.latest == "" {
		return nil
	}
	return c.results[c.latest]
}

// Size returns the number of cached days
func (c *ResultCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}
