// Package cache provides the storage behind LLM grade caching: a memory
// layer for the current run and an optional disk layer so repeated checks of
// the same collection do not re-spend API calls.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from arbitrary content. Keys embed a version
// prefix so a format change invalidates old entries instead of misreading
// them.
func Key(content string) string {
	hash := sha256.Sum256([]byte(content))
	return "datacheck:v1:" + hex.EncodeToString(hash[:])
}
