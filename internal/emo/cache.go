package emo

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// queryCache memoizes one classifier operation behind a bounded LRU.
// Like the Manager that owns it, it is not safe for concurrent use.
type queryCache[K comparable, V any] struct {
	entries *lru.Cache[K, V]
	size    int
	hits    int
	misses  int
}

func newQueryCache[K comparable, V any](size int) *queryCache[K, V] {
	entries, err := lru.New[K, V](size)
	if err != nil {
		panic(err) // only possible with a non-positive size
	}
	return &queryCache[K, V]{entries: entries, size: size}
}

// get returns the cached value for key, computing and storing it on a miss.
func (c *queryCache[K, V]) get(key K, compute func() V) V {
	if v, ok := c.entries.Get(key); ok {
		c.hits++
		return v
	}
	c.misses++
	v := compute()
	c.entries.Add(key, v)
	return v
}

func (c *queryCache[K, V]) clear() {
	c.entries.Purge()
	c.hits, c.misses = 0, 0
}

// OpStats is the counter set for one cached operation.
type OpStats struct {
	Hits    int
	Misses  int
	Entries int
	Size    int
}

func (c *queryCache[K, V]) stats() OpStats {
	return OpStats{Hits: c.hits, Misses: c.misses, Entries: c.entries.Len(), Size: c.size}
}
