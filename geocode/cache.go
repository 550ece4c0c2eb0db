package geocode

import (
	"strings"
	"sync"
)

// Cache holds resolved coordinates per normalized location string for the
// duration of a single run. Negative results (Found=false) are cached too so
// an unresolvable address is only looked up once.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Result
}

func NewCache() *Cache {
	return &Cache{entries: map[string]Result{}}
}

func (c *Cache) Get(query string) (Result, bool) {
	if c == nil {
		return Result{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.entries[normalizeQuery(query)]
	return result, ok
}

func (c *Cache) Set(query string, result Result) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[string]Result{}
	}
	c.entries[normalizeQuery(query)] = result
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
