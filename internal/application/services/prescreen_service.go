package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/prescreen"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/providers"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/repositories"
	apperrors "github.com/careclear/prescreen-dashboard/backend/pkg/errors"
)

// ListParams scopes and filters one pre-screen list request.
type ListParams struct {
	ClinicID string
	From     time.Time
	To       time.Time
	Tab      prescreen.Tab
	Search   string
}

// PrescreenList is the list view payload: filtered, sorted records
// plus counts across the whole clinic range so the tab badges stay
// accurate regardless of the active tab.
type PrescreenList struct {
	Records []prescreen.Record `json:"records"`
	Counts  prescreen.Counts   `json:"counts"`
}

// PrescreenDetail is the drill-down payload for one record.
type PrescreenDetail struct {
	Record  prescreen.Record         `json:"record"`
	Signals []prescreen.ReviewSignal `json:"signals"`
	Fields  map[string]interface{}   `json:"fields"`
}

// UpdateParams carries one partial record mutation.
type UpdateParams struct {
	ID       string
	ClinicID string
	Actor    string
	Update   entities.RecordUpdate
}

// PrescreenService handles the pre-screen list, drill-down, and
// write-back flows.
type PrescreenService struct {
	repo     repositories.RecordRepository
	auditor  repositories.AuditRepository
	eventBus providers.EventBus
}

// NewPrescreenService creates a new prescreen service. Auditor and
// event bus may be nil; updates then skip those side effects.
func NewPrescreenService(repo repositories.RecordRepository, auditor repositories.AuditRepository, eventBus providers.EventBus) *PrescreenService {
	return &PrescreenService{
		repo:     repo,
		auditor:  auditor,
		eventBus: eventBus,
	}
}

// List returns the normalized records for one clinic view.
func (s *PrescreenService) List(ctx context.Context, params ListParams) (*PrescreenList, error) {
	raws, err := s.repo.ListPrescreens(ctx, repositories.RecordQuery{
		ClinicID: params.ClinicID,
		From:     params.From,
		To:       params.To,
	})
	if err != nil {
		return nil, err
	}

	all := prescreen.NormalizeAll(raws)
	counts := prescreen.CountByEligibility(all)

	records := prescreen.FilterByTab(all, params.Tab)
	records = prescreen.FilterBySearch(records, params.Search)
	records = prescreen.SortByRecency(records)

	return &PrescreenList{Records: records, Counts: counts}, nil
}

// Get returns the drill-down view for one record.
func (s *PrescreenService) Get(ctx context.Context, id string) (*PrescreenDetail, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("record id is required")
	}

	raw, err := s.repo.GetPrescreen(ctx, id)
	if err != nil {
		return nil, err
	}

	return &PrescreenDetail{
		Record:  prescreen.Normalize(raw),
		Signals: prescreen.ReviewSignals(raw),
		Fields:  raw.Fields(),
	}, nil
}

// Update applies a partial mutation, then records the audit entry and
// publishes the update event. Audit and event failures are logged but
// never fail the primary write.
func (s *PrescreenService) Update(ctx context.Context, params UpdateParams) error {
	if params.ID == "" {
		return apperrors.NewValidationError("record id is required")
	}
	if params.Update.IsEmpty() {
		return apperrors.NewValidationError("update carries no fields")
	}

	if err := s.repo.UpdatePrescreen(ctx, params.ID, params.Update); err != nil {
		return err
	}

	changes := params.Update.Fields()

	if s.auditor != nil {
		audit := &entities.RecordAudit{
			ID:        uuid.New().String(),
			RecordID:  params.ID,
			ClinicID:  params.ClinicID,
			Actor:     params.Actor,
			Changes:   changes,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.auditor.Record(ctx, audit); err != nil {
			log.Warn().Err(err).Str("record_id", params.ID).Msg("Failed to write audit entry")
		}
	}

	if s.eventBus != nil {
		event := &entities.RecordEvent{
			ID:        uuid.New().String(),
			Type:      entities.RecordEventUpdated,
			ClinicID:  params.ClinicID,
			RecordID:  params.ID,
			Changes:   changes,
			Timestamp: time.Now().UTC(),
		}
		channel := providers.GetClinicChannel(params.ClinicID)
		if err := s.eventBus.Publish(ctx, channel, event); err != nil {
			log.Warn().Err(err).Str("record_id", params.ID).Msg("Failed to publish record event")
		}
		if err := s.eventBus.Publish(ctx, providers.EventChannelRecordUpdates, event); err != nil {
			log.Warn().Err(err).Str("record_id", params.ID).Msg("Failed to publish global record event")
		}
	}

	return nil
}

// AuditTrail returns the newest audit entries for one record.
func (s *PrescreenService) AuditTrail(ctx context.Context, recordID string, limit int) ([]*entities.RecordAudit, error) {
	if s.auditor == nil {
		return nil, nil
	}
	return s.auditor.ListByRecord(ctx, recordID, limit)
}
