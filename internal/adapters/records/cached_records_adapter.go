package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/prescreen"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/providers"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/repositories"
)

// CachedAdapter wraps a RecordRepository with Redis-backed caching.
// Reads against the hosted store are slow and rate-limited; lists are
// cached briefly, and any write invalidates the clinic's list keys.
type CachedAdapter struct {
	adapter repositories.RecordRepository
	cache   providers.CacheProvider
}

// NewCachedAdapter creates a caching record repository.
func NewCachedAdapter(adapter repositories.RecordRepository, cache providers.CacheProvider) repositories.RecordRepository {
	return &CachedAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	prescreenListTTL = 60
	dropOffListTTL   = 120
	aggregateTTL     = 300
	singleRecordTTL  = 30
)

func listCacheKey(kind string, query repositories.RecordQuery) string {
	from, to := "", ""
	if !query.From.IsZero() {
		from = query.From.UTC().Format("20060102T150405")
	}
	if !query.To.IsZero() {
		to = query.To.UTC().Format("20060102T150405")
	}
	return fmt.Sprintf("records:%s:%s:%s:%s", kind, query.ClinicID, from, to)
}

func recordCacheKey(id string) string {
	return fmt.Sprintf("records:prescreen:%s", id)
}

// ListPrescreens returns the clinic's pre-screen records, cached.
func (a *CachedAdapter) ListPrescreens(ctx context.Context, query repositories.RecordQuery) ([]prescreen.RawRecord, error) {
	cacheKey := listCacheKey("prescreens", query)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var records []prescreen.RawRecord
		if err := json.Unmarshal(cached, &records); err == nil {
			return records, nil
		}
		log.Warn().Str("key", cacheKey).Msg("Failed to unmarshal cached prescreen list")
	}

	records, err := a.adapter.ListPrescreens(ctx, query)
	if err != nil {
		return nil, err
	}

	a.storeAsync(cacheKey, records, prescreenListTTL)
	return records, nil
}

// ListDropOffs returns the clinic's drop-off records, cached.
func (a *CachedAdapter) ListDropOffs(ctx context.Context, query repositories.RecordQuery) ([]prescreen.RawRecord, error) {
	cacheKey := listCacheKey("dropoffs", query)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var records []prescreen.RawRecord
		if err := json.Unmarshal(cached, &records); err == nil {
			return records, nil
		}
		log.Warn().Str("key", cacheKey).Msg("Failed to unmarshal cached drop-off list")
	}

	records, err := a.adapter.ListDropOffs(ctx, query)
	if err != nil {
		return nil, err
	}

	a.storeAsync(cacheKey, records, dropOffListTTL)
	return records, nil
}

// GetPrescreen returns one record, cached briefly.
func (a *CachedAdapter) GetPrescreen(ctx context.Context, id string) (prescreen.RawRecord, error) {
	cacheKey := recordCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var record prescreen.RawRecord
		if err := json.Unmarshal(cached, &record); err == nil {
			return record, nil
		}
	}

	record, err := a.adapter.GetPrescreen(ctx, id)
	if err != nil {
		return nil, err
	}

	a.storeAsync(cacheKey, record, singleRecordTTL)
	return record, nil
}

// UpdatePrescreen writes through and drops the stale single-record
// key. List keys are left to their short TTL; the update event stream
// covers the gap for connected dashboards.
func (a *CachedAdapter) UpdatePrescreen(ctx context.Context, id string, update entities.RecordUpdate) error {
	if err := a.adapter.UpdatePrescreen(ctx, id, update); err != nil {
		return err
	}
	if err := a.cache.Delete(ctx, recordCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("record_id", id).Msg("Failed to invalidate cached record")
	}
	return nil
}

// ListFailReasons returns the store's fail-reason aggregates, cached.
func (a *CachedAdapter) ListFailReasons(ctx context.Context, query repositories.RecordQuery) ([]entities.FailReason, error) {
	cacheKey := listCacheKey("failreasons", query)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var reasons []entities.FailReason
		if err := json.Unmarshal(cached, &reasons); err == nil {
			return reasons, nil
		}
	}

	reasons, err := a.adapter.ListFailReasons(ctx, query)
	if err != nil {
		return nil, err
	}

	a.storeAsync(cacheKey, reasons, aggregateTTL)
	return reasons, nil
}

// ListTreatmentStats returns the per-treatment aggregates, cached.
func (a *CachedAdapter) ListTreatmentStats(ctx context.Context, query repositories.RecordQuery) ([]entities.TreatmentStat, error) {
	cacheKey := listCacheKey("treatments", query)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var stats []entities.TreatmentStat
		if err := json.Unmarshal(cached, &stats); err == nil {
			return stats, nil
		}
	}

	stats, err := a.adapter.ListTreatmentStats(ctx, query)
	if err != nil {
		return nil, err
	}

	a.storeAsync(cacheKey, stats, aggregateTTL)
	return stats, nil
}

// storeAsync updates the cache off the request path.
func (a *CachedAdapter) storeAsync(key string, value interface{}, ttlSeconds int) {
	go func() {
		data, err := json.Marshal(value)
		if err != nil {
			return
		}
		if err := a.cache.Set(context.Background(), key, data, ttlSeconds); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to update cache")
		}
	}()
}
