// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reference

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/pdiddy/research-companion/pkg/types"
)

// Cache maps a problem statement key to the reference documents fetched for
// it. Entries are never expired within the process lifetime.
type Cache interface {
	// Get returns the cached documents for key and whether an entry exists.
	Get(ctx context.Context, key string) ([]types.ReferenceDocument, bool, error)

	// Put stores docs under key, replacing any existing entry.
	Put(ctx context.Context, key string, docs []types.ReferenceDocument) error
}

// CacheKey returns the cache key of a problem statement: the hex SHA-256 of
// the lower-cased, whitespace-trimmed text.
func CacheKey(problem string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(problem))))
	return hex.EncodeToString(sum[:])
}

// MemoryCache is an in-process Cache guarded by a read-write mutex. It has no
// eviction.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]types.ReferenceDocument
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]types.ReferenceDocument)}
}

// Get returns a copy of the documents stored under key.
func (c *MemoryCache) Get(_ context.Context, key string) ([]types.ReferenceDocument, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	docs, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]types.ReferenceDocument(nil), docs...), true, nil
}

// Put stores a copy of docs under key. The last write wins.
func (c *MemoryCache) Put(_ context.Context, key string, docs []types.ReferenceDocument) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = append([]types.ReferenceDocument(nil), docs...)
	return nil
}

// Len returns the number of cached problem statements.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
