package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/providers"
)

// CacheInvalidationService listens for record updates and drops the
// affected repository cache entries, so dashboards that poll between
// events never read a stale record after a write. HTTP response
// caches are left to their short TTLs; connected clients get the
// update over SSE anyway.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for record updates
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelRecordUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to record updates: %w", err)
	}

	go s.processEvents(eventChan)
	log.Info().Msg("Cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Info().Msg("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.RecordEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-eventChan:
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.RecordEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.InvalidateRecordCache(ctx, event.ClinicID, event.RecordID); err != nil {
		log.Warn().Err(err).
			Str("record_id", event.RecordID).
			Str("clinic_id", event.ClinicID).
			Msg("Failed to invalidate record cache")
		return
	}

	log.Debug().
		Str("record_id", event.RecordID).
		Str("clinic_id", event.ClinicID).
		Msg("Invalidated record cache")
}

// InvalidateRecordCache drops the cached record and every cached list
// for its clinic.
func (s *CacheInvalidationService) InvalidateRecordCache(ctx context.Context, clinicID, recordID string) error {
	if recordID != "" {
		if err := s.cache.Delete(ctx, fmt.Sprintf("records:prescreen:%s", recordID)); err != nil {
			return fmt.Errorf("failed to delete record key: %w", err)
		}
	}
	if clinicID != "" {
		pattern := fmt.Sprintf("records:*:%s:*", clinicID)
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to delete clinic list keys: %w", err)
		}
	}
	return nil
}

// InvalidateClinicCaches drops every repository cache entry for one
// clinic, used after bulk imports on the store side.
func (s *CacheInvalidationService) InvalidateClinicCaches(ctx context.Context, clinicID string) error {
	pattern := fmt.Sprintf("records:*:%s:*", clinicID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		return fmt.Errorf("failed to invalidate clinic caches: %w", err)
	}
	log.Info().Str("clinic_id", clinicID).Msg("Invalidated clinic caches")
	return nil
}
