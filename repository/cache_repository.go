package repository

import "time"

// CacheRepository caches computed financial snapshots keyed by user and day.
type CacheRepository interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration) error
}
