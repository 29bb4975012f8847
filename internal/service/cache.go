package service

import (
	"sync"
	"time"
)

// analysisCache memoizes computed analyses in memory. The same upload is
// re-rendered many times with different filters; the parse is the expensive
// step, so the whole computed bundle stays resident keyed by report id and
// by content hash.
type analysisCache struct {
	mu      sync.Mutex
	max     int
	byID    map[string]*cacheEntry
	byHash  map[string]*cacheEntry
}

type cacheEntry struct {
	analysis   *Analysis
	lastAccess time.Time
}

func newAnalysisCache(max int) *analysisCache {
	if max <= 0 {
		max = 16
	}
	return &analysisCache{
		max:    max,
		byID:   make(map[string]*cacheEntry),
		byHash: make(map[string]*cacheEntry),
	}
}

func (c *analysisCache) getByID(id string) *Analysis {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.byID[id]; ok {
		e.lastAccess = time.Now()
		return e.analysis
	}
	return nil
}

func (c *analysisCache) getByHash(hash string) *Analysis {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.byHash[hash]; ok {
		e.lastAccess = time.Now()
		return e.analysis
	}
	return nil
}

func (c *analysisCache) put(a *Analysis) {
	if a == nil || a.Report == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e := &cacheEntry{analysis: a, lastAccess: time.Now()}
	c.byID[a.Report.ID] = e
	c.byHash[a.Report.ContentHash] = e
	c.evictLocked()
}

func (c *analysisCache) drop(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.byID[id]; ok {
		delete(c.byID, id)
		delete(c.byHash, e.analysis.Report.ContentHash)
	}
}

// evictLocked removes least-recently-used entries past the cap.
func (c *analysisCache) evictLocked() {
	for len(c.byID) > c.max {
		oldestID := ""
		var oldest time.Time
		for id, e := range c.byID {
			if oldestID == "" || e.lastAccess.Before(oldest) {
				oldestID = id
				oldest = e.lastAccess
			}
		}
		e := c.byID[oldestID]
		delete(c.byID, oldestID)
		delete(c.byHash, e.analysis.Report.ContentHash)
	}
}
