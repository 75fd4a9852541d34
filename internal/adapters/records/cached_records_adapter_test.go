package records

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/prescreen"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/repositories"
)

type memoryCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if data, ok := c.store[key]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("key not found: %s", key)
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok, nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.store {
		if matched, _ := path.Match(pattern, key); matched {
			delete(c.store, key)
		}
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}

type countingRepo struct {
	repositories.RecordRepository
	listCalls   int
	getCalls    int
	updateCalls int
}

func (r *countingRepo) ListPrescreens(ctx context.Context, query repositories.RecordQuery) ([]prescreen.RawRecord, error) {
	r.listCalls++
	return r.RecordRepository.ListPrescreens(ctx, query)
}

func (r *countingRepo) GetPrescreen(ctx context.Context, id string) (prescreen.RawRecord, error) {
	r.getCalls++
	return r.RecordRepository.GetPrescreen(ctx, id)
}

func (r *countingRepo) UpdatePrescreen(ctx context.Context, id string, update entities.RecordUpdate) error {
	r.updateCalls++
	return r.RecordRepository.UpdatePrescreen(ctx, id, update)
}

func TestCachedAdapter_ListServesFromCacheOnSecondRead(t *testing.T) {
	inner := &countingRepo{RecordRepository: NewMockAdapter()}
	cache := newMemoryCache()
	adapter := NewCachedAdapter(inner, cache)

	query := repositories.RecordQuery{ClinicID: "glow"}
	first, err := adapter.ListPrescreens(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.listCalls)

	// storeAsync writes off the request path
	require.Eventually(t, func() bool {
		return cache.has(listCacheKey("prescreens", query))
	}, time.Second, 5*time.Millisecond)

	second, err := adapter.ListPrescreens(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.listCalls)
	assert.Equal(t, len(first), len(second))
}

func TestCachedAdapter_CorruptCacheFallsThrough(t *testing.T) {
	inner := &countingRepo{RecordRepository: NewMockAdapter()}
	cache := newMemoryCache()
	adapter := NewCachedAdapter(inner, cache)

	query := repositories.RecordQuery{ClinicID: "glow"}
	require.NoError(t, cache.Set(context.Background(), listCacheKey("prescreens", query), []byte("not json"), 60))

	_, err := adapter.ListPrescreens(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.listCalls)
}

func TestCachedAdapter_UpdateInvalidatesRecordKey(t *testing.T) {
	inner := &countingRepo{RecordRepository: NewMockAdapter()}
	cache := newMemoryCache()
	adapter := NewCachedAdapter(inner, cache)

	stale, err := json.Marshal(prescreen.RawRecord{"id": "rec001"})
	require.NoError(t, err)
	require.NoError(t, cache.Set(context.Background(), recordCacheKey("rec001"), stale, 60))

	booked := "Booked"
	err = adapter.UpdatePrescreen(context.Background(), "rec001", entities.RecordUpdate{BookingStatus: &booked})
	require.NoError(t, err)

	assert.Equal(t, 1, inner.updateCalls)
	assert.False(t, cache.has(recordCacheKey("rec001")))
}

func TestCachedAdapter_GetCachesRecord(t *testing.T) {
	inner := &countingRepo{RecordRepository: NewMockAdapter()}
	cache := newMemoryCache()
	adapter := NewCachedAdapter(inner, cache)

	_, err := adapter.GetPrescreen(context.Background(), "rec001")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.getCalls)

	require.Eventually(t, func() bool {
		return cache.has(recordCacheKey("rec001"))
	}, time.Second, 5*time.Millisecond)

	_, err = adapter.GetPrescreen(context.Background(), "rec001")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.getCalls)
}
