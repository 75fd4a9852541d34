package repositories

import (
	"context"
	"time"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/prescreen"
)

// RecordQuery scopes a record-store read to one clinic and an optional
// date range. The store applies the scoping; callers always receive
// already-scoped collections.
type RecordQuery struct {
	ClinicID string
	From     time.Time
	To       time.Time
}

// RecordRepository defines the record-store operations the dashboard
// needs. Implementations must return raw records untouched; all
// interpretation happens in the prescreen package.
type RecordRepository interface {
	// ListPrescreens returns the raw pre-screen records for a clinic.
	ListPrescreens(ctx context.Context, query RecordQuery) ([]prescreen.RawRecord, error)

	// ListDropOffs returns the raw drop-off event records for a clinic.
	ListDropOffs(ctx context.Context, query RecordQuery) ([]prescreen.RawRecord, error)

	// GetPrescreen returns one raw record by the store's record id.
	GetPrescreen(ctx context.Context, id string) (prescreen.RawRecord, error)

	// UpdatePrescreen applies a partial field update to one record.
	UpdatePrescreen(ctx context.Context, id string, update entities.RecordUpdate) error

	// ListFailReasons returns the store's fail-reason aggregate rows.
	ListFailReasons(ctx context.Context, query RecordQuery) ([]entities.FailReason, error)

	// ListTreatmentStats returns the store's per-treatment aggregate rows.
	ListTreatmentStats(ctx context.Context, query RecordQuery) ([]entities.TreatmentStat, error)
}
