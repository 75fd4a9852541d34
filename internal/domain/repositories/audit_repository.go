package repositories

import (
	"context"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
)

// AuditRepository defines the audit-trail operations.
type AuditRepository interface {
	// Record persists one audit entry for a record mutation.
	Record(ctx context.Context, audit *entities.RecordAudit) error

	// ListByRecord returns the most recent audit entries for a record,
	// newest first.
	ListByRecord(ctx context.Context, recordID string, limit int) ([]*entities.RecordAudit, error)
}
