package cache

import "time"

// Cache is the backend-agnostic interface used for response caching. The
// memory and Redis implementations are interchangeable from the caller's
// point of view, with the caveat that Redis round-trips values through JSON.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	SetWithTTL(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Clear()
}
