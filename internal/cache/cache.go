package cache

import (
	"time"
)

// DefaultCleanupInterval is how often expired entries are purged
const DefaultCleanupInterval = time.Minute

// Cache defines the keyed store used by the query layer
type Cache[V any] interface {
	Get(key string) (V, bool)
	GetOrCreate(key string, create func() V) V
	Pin(key string)
	Unpin(key string)
	Delete(key string)
	Clear()
	Len() int
}
