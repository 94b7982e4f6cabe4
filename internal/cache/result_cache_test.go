package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestKey tests canonical key formatting
func TestKey(t *testing.T) {
	assert.Equal(t, "1,2.5,0.1", Key([]float64{1, 2.5, 0.1}))
	assert.Equal(t, "", Key(nil))
	assert.NotEqual(t, Key([]float64{1, 2}), Key([]float64{2, 1}))
	assert.NotEqual(t, Key([]float64{1, 2}), Key([]float64{1, 2.0000000001}))
}

// TestResultCacheMiss tests a lookup of an unknown field
func TestResultCacheMiss(t *testing.T) {
	cache := NewResultCache(time.Hour, 100)
	defer cache.Clear()

	result, found := cache.Get([]float64{1, 1})
	assert.False(t, found)
	assert.Nil(t, result)
}

// TestResultCacheSetGet tests storing and retrieving probabilities
func TestResultCacheSetGet(t *testing.T) {
	cache := NewResultCache(time.Hour, 100)
	defer cache.Clear()

	weights := []float64{2, 1}
	cache.Set(weights, []float64{1.0 / 3, 2.0 / 3})

	result, found := cache.Get(weights)
	require.True(t, found)
	assert.Equal(t, []float64{1.0 / 3, 2.0 / 3}, result)
}

// TestResultCacheReturnsCopies makes sure callers cannot corrupt entries
func TestResultCacheReturnsCopies(t *testing.T) {
	cache := NewResultCache(time.Hour, 100)
	defer cache.Clear()

	weights := []float64{1, 1}
	stored := []float64{0.5, 0.5}
	cache.Set(weights, stored)
	stored[0] = 9

	first, found := cache.Get(weights)
	require.True(t, found)
	first[1] = 9

	second, found := cache.Get(weights)
	require.True(t, found)
	assert.Equal(t, []float64{0.5, 0.5}, second)
}

// TestResultCacheExpiration tests cache TTL expiration
func TestResultCacheExpiration(t *testing.T) {
	cache := NewResultCache(100*time.Millisecond, 100)
	defer cache.Clear()

	weights := []float64{1, 2, 3}
	cache.Set(weights, []float64{0.5, 0.3, 0.2})

	_, found := cache.Get(weights)
	require.True(t, found)

	time.Sleep(150 * time.Millisecond)

	_, found = cache.Get(weights)
	assert.False(t, found)
}

// TestResultCacheStats tests cache statistics tracking
func TestResultCacheStats(t *testing.T) {
	cache := NewResultCache(time.Hour, 100)
	defer cache.Clear()

	weights := []float64{1, 1}

	hits, misses, ratio := cache.Stats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(0), misses)
	assert.Equal(t, 0.0, ratio)

	_, _ = cache.Get(weights)
	hits, misses, ratio = cache.Stats()
	assert.Equal(t, uint64(0), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 0.0, ratio)

	cache.Set(weights, []float64{0.5, 0.5})
	_, _ = cache.Get(weights)
	hits, misses, ratio = cache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 0.5, ratio)
}

// TestResultCacheMaxSize tests the soft size limit
func TestResultCacheMaxSize(t *testing.T) {
	maxSize := 5
	cache := NewResultCache(time.Hour, maxSize)
	defer cache.Clear()

	for i := 0; i < maxSize*3; i++ {
		cache.Set([]float64{float64(i + 1), 1}, []float64{0.5, 0.5})
		assert.LessOrEqual(t, cache.ItemCount(), maxSize)
	}
}

// TestResultCacheClear resets entries and statistics
func TestResultCacheClear(t *testing.T) {
	cache := NewResultCache(time.Hour, 100)

	cache.Set([]float64{1, 1}, []float64{0.5, 0.5})
	_, _ = cache.Get([]float64{1, 1})
	cache.Clear()

	assert.Equal(t, 0, cache.ItemCount())
	hits, misses, _ := cache.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}
