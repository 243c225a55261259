// Package cache holds small in-process caches for derived views.
package cache

// Cache defines a generic cache interface
type Cache[K comparable, V any] interface {
	// Get retrieves a value from the cache
	Get(key K) (V, bool)

	// Set stores a value in the cache
	Set(key K, value V)

	// Purge drops every entry
	Purge()

	// CleanExpired drops expired entries and returns how many were removed
	CleanExpired() int

	// Size returns the current number of items in the cache
	Size() int
}

// Nop never stores anything. It stands in when caching is disabled.
type Nop[K comparable, V any] struct{}

func (Nop[K, V]) Get(K) (V, bool) {
	var zero V
	return zero, false
}

func (Nop[K, V]) Set(K, V)          {}
func (Nop[K, V]) Purge()            {}
func (Nop[K, V]) CleanExpired() int { return 0 }
func (Nop[K, V]) Size() int         { return 0 }
