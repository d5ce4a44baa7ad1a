package cache

// Typed is a type-safe view over one partition, so callers never
// handle raw any-typed payloads.
type Typed[V any] struct {
	cache      *Cache
	entityType string
}

// NewTyped binds a value type to a partition of the shared cache.
func NewTyped[V any](c *Cache, entityType string) Typed[V] {
	return Typed[V]{cache: c, entityType: entityType}
}

func (t Typed[V]) Put(key string, value V) {
	t.cache.Put(t.entityType, key, value)
}

func (t Typed[V]) Get(key string) (V, bool) {
	var zero V
	raw, ok := t.cache.Get(t.entityType, key)
	if !ok {
		return zero, false
	}
	v, ok := raw.(V)
	if !ok {
		// A foreign write landed in this partition; treat as a miss and
		// drop it so the fallback read repairs the entry.
		t.cache.Remove(t.entityType, key)
		return zero, false
	}
	return v, true
}

func (t Typed[V]) Remove(key string) {
	t.cache.Remove(t.entityType, key)
}

func (t Typed[V]) Clear() {
	t.cache.Clear(t.entityType)
}

func (t Typed[V]) Stats() Stats {
	return t.cache.Stats(t.entityType)
}
