// Package cache memoizes evaluation results keyed by weight vector.
package cache

import (
	"strconv"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/race-odds/internal/metrics"
)

// Key returns the canonical cache key for a weight vector. Order is
// significant because results are index-aligned with the weights.
func Key(weights []float64) string {
	parts := make([]string, len(weights))
	for i, w := range weights {
		parts[i] = strconv.FormatFloat(w, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// ResultCache provides in-memory caching of probability vectors
type ResultCache struct {
	cache     *gocache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewResultCache creates a new result cache
func NewResultCache(ttl time.Duration, maxSize int) *ResultCache {
	return &ResultCache{
		cache:   gocache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a copy of the cached probabilities for weights
func (rc *ResultCache) Get(weights []float64) ([]float64, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if result, found := rc.cache.Get(Key(weights)); found {
		if probabilities, ok := result.([]float64); ok {
			rc.hitCount++
			rc.updateMetrics()
			return append([]float64(nil), probabilities...), true
		}
	}

	rc.missCount++
	rc.updateMetrics()
	return nil, false
}

// Set stores a copy of probabilities for weights
func (rc *ResultCache) Set(weights, probabilities []float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.cache.ItemCount() >= rc.maxSize {
		rc.cache.DeleteExpired()
		if rc.cache.ItemCount() >= rc.maxSize {
			// Still full of live entries; start over rather than grow.
			rc.cache.Flush()
		}
	}

	rc.cache.Set(Key(weights), append([]float64(nil), probabilities...), rc.ttl)
}

// Clear flushes the entire cache
func (rc *ResultCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache.Flush()
	rc.hitCount = 0
	rc.missCount = 0
}

// Stats returns cache statistics
func (rc *ResultCache) Stats() (hits, misses uint64, ratio float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.stats()
}

func (rc *ResultCache) stats() (hits, misses uint64, ratio float64) {
	hits = rc.hitCount
	misses = rc.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (rc *ResultCache) updateMetrics() {
	_, _, ratio := rc.stats()
	metrics.UpdateCacheHitRatio(ratio)
}

// ItemCount returns the number of items in cache
func (rc *ResultCache) ItemCount() int {
	return rc.cache.ItemCount()
}
