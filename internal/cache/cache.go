// Package cache implements a bounded least-recently-used cache
// partitioned by entity type. Each partition has an independent fixed
// capacity and its own lock, so different partitions never contend.
//
// The cache is never authoritative: callers read through on miss and
// must Remove (or Clear) on every mutation of the underlying truth.
// Entries never expire by time; eviction is purely capacity-driven.
package cache

import (
	"container/list"
	"sync"
)

// DefaultCapacity is the per-partition entry limit used when no
// explicit capacity is configured.
const DefaultCapacity = 50

// Stats is a point-in-time counter snapshot for one partition.
type Stats struct {
	Size      int
	Hits      int64
	Misses    int64
	Puts      int64
	Evictions int64
}

type entry struct {
	key   string
	value any
}

// partition is one independent LRU segment. The front of the list is
// the most recently used entry.
type partition struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element

	hits      int64
	misses    int64
	puts      int64
	evictions int64
}

func newPartition(capacity int) *partition {
	return &partition{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

func (p *partition) put(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.puts++
	if el, ok := p.items[key]; ok {
		el.Value.(*entry).value = value
		p.order.MoveToFront(el)
		return
	}
	p.items[key] = p.order.PushFront(&entry{key: key, value: value})
	if p.order.Len() > p.capacity {
		oldest := p.order.Back()
		if oldest != nil {
			p.order.Remove(oldest)
			delete(p.items, oldest.Value.(*entry).key)
			p.evictions++
		}
	}
}

func (p *partition) get(key string) (any, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.items[key]
	if !ok {
		p.misses++
		return nil, false
	}
	p.hits++
	p.order.MoveToFront(el)
	return el.Value.(*entry).value, true
}

func (p *partition) remove(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if el, ok := p.items[key]; ok {
		p.order.Remove(el)
		delete(p.items, key)
	}
}

func (p *partition) clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.order.Init()
	p.items = make(map[string]*list.Element, p.capacity)
}

func (p *partition) stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Size:      p.order.Len(),
		Hits:      p.hits,
		Misses:    p.misses,
		Puts:      p.puts,
		Evictions: p.evictions,
	}
}

// Cache is the partitioned LRU cache. The zero value is not usable;
// construct with New.
type Cache struct {
	mu         sync.RWMutex
	capacity   int
	partitions map[string]*partition
}

// New returns a cache whose partitions each hold at most capacity
// entries. A non-positive capacity falls back to DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity:   capacity,
		partitions: make(map[string]*partition),
	}
}

// partition returns the segment for the entity type, creating it on
// first use.
func (c *Cache) partition(entityType string) *partition {
	c.mu.RLock()
	p, ok := c.partitions[entityType]
	c.mu.RUnlock()
	if ok {
		return p
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok = c.partitions[entityType]; ok {
		return p
	}
	p = newPartition(c.capacity)
	c.partitions[entityType] = p
	return p
}

// Put stores the value, evicting the least-recently-used entry of the
// same partition when capacity is exceeded.
func (c *Cache) Put(entityType, key string, value any) {
	c.partition(entityType).put(key, value)
}

// Get returns the cached value and promotes it to most-recently-used.
func (c *Cache) Get(entityType, key string) (any, bool) {
	return c.partition(entityType).get(key)
}

// Remove drops the entry if present. Callers invoke this on every
// mutation of the underlying truth.
func (c *Cache) Remove(entityType, key string) {
	c.partition(entityType).remove(key)
}

// Clear drops every entry in the partition. Counters are preserved.
func (c *Cache) Clear(entityType string) {
	c.partition(entityType).clear()
}

// Stats returns the partition's counter snapshot.
func (c *Cache) Stats(entityType string) Stats {
	return c.partition(entityType).stats()
}
