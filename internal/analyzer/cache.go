package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/tschunk/internal/chunker"
	"github.com/mvp-joe/tschunk/internal/tsparse"
)

// ResultCache keeps the chunks of recently analyzed content so that files which did not
// change between watch cycles are not chunked again. Safe for concurrent use.
type ResultCache struct {
	cache otter.Cache[string, []chunker.Chunk]
}

// NewResultCache creates a cache holding at most capacity entries.
func NewResultCache(capacity int) (*ResultCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}
	cache, err := otter.MustBuilder[string, []chunker.Chunk](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build result cache: %w", err)
	}
	return &ResultCache{cache: cache}, nil
}

// cacheKey identifies a chunking result: the content hash, the dialect it was parsed with
// and the budget it was packed against.
func cacheKey(content []byte, dialect tsparse.Dialect, maxSize int) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:]) + ":" + dialect.String() + ":" + strconv.Itoa(maxSize)
}

// Get returns the cached chunks for content, if any.
func (c *ResultCache) Get(content []byte, dialect tsparse.Dialect, maxSize int) ([]chunker.Chunk, bool) {
	return c.cache.Get(cacheKey(content, dialect, maxSize))
}

// Set stores chunks for content.
func (c *ResultCache) Set(content []byte, dialect tsparse.Dialect, maxSize int, chunks []chunker.Chunk) {
	c.cache.Set(cacheKey(content, dialect, maxSize), chunks)
}

// Close releases the cache's background resources.
func (c *ResultCache) Close() {
	c.cache.Close()
}
