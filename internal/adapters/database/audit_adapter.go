package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/repositories"
	"github.com/careclear/prescreen-dashboard/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/careclear/prescreen-dashboard/backend/pkg/errors"
)

// AuditAdapter implements the audit trail in Postgres.
type AuditAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAuditAdapter creates a new audit adapter.
func NewAuditAdapter(client *postgres.Client) repositories.AuditRepository {
	return &AuditAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Record inserts one audit entry.
func (a *AuditAdapter) Record(ctx context.Context, audit *entities.RecordAudit) error {
	if audit == nil {
		return apperrors.NewInternalError("audit is nil", fmt.Errorf("audit is nil"))
	}

	changes, err := json.Marshal(audit.Changes)
	if err != nil {
		return apperrors.NewInternalError("failed to encode audit changes", err)
	}

	record := goqu.Record{
		"id":         audit.ID,
		"record_id":  audit.RecordID,
		"clinic_id":  audit.ClinicID,
		"actor":      sql.NullString{String: audit.Actor, Valid: audit.Actor != ""},
		"changes":    changes,
		"created_at": audit.CreatedAt,
	}

	query, args, err := a.db.Insert("record_audits").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build audit insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to record audit entry", err)
	}

	return nil
}

// ListByRecord returns the newest audit entries for one record.
func (a *AuditAdapter) ListByRecord(ctx context.Context, recordID string, limit int) ([]*entities.RecordAudit, error) {
	if recordID == "" {
		return nil, apperrors.NewValidationError("record id is required")
	}
	if limit <= 0 {
		limit = 50
	}

	query, args, err := a.db.From("record_audits").
		Select("id", "record_id", "clinic_id", "actor", "changes", "created_at").
		Where(goqu.Ex{"record_id": recordID}).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build audit list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list audit entries", err)
	}
	defer rows.Close()

	var audits []*entities.RecordAudit
	for rows.Next() {
		var audit entities.RecordAudit
		var actor sql.NullString
		var changes []byte

		if err := rows.Scan(&audit.ID, &audit.RecordID, &audit.ClinicID, &actor, &changes, &audit.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan audit entry", err)
		}
		audit.Actor = actor.String
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &audit.Changes); err != nil {
				return nil, apperrors.NewInternalError("failed to decode audit changes", err)
			}
		}
		audits = append(audits, &audit)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate audit entries", err)
	}

	return audits, nil
}
