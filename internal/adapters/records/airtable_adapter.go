package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/prescreen"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/repositories"
	"github.com/careclear/prescreen-dashboard/backend/internal/infrastructure/clients/airtable"
	"github.com/careclear/prescreen-dashboard/backend/pkg/config"
	apperrors "github.com/careclear/prescreen-dashboard/backend/pkg/errors"
)

// AirtableAdapter implements RecordRepository against the hosted
// record store. Scoping to clinic and date range is pushed into the
// store's filter formula so unscoped rows never reach this process.
type AirtableAdapter struct {
	client          airtable.Client
	prescreenTable  string
	dropOffTable    string
	failReasonTable string
	treatmentTable  string
}

// NewAirtableAdapter creates a record-store backed repository.
func NewAirtableAdapter(client airtable.Client, cfg *config.AirtableConfig) repositories.RecordRepository {
	return &AirtableAdapter{
		client:          client,
		prescreenTable:  cfg.PrescreenTable,
		dropOffTable:    cfg.DropOffTable,
		failReasonTable: cfg.FailReasonTable,
		treatmentTable:  cfg.TreatmentTable,
	}
}

// ListPrescreens returns the raw pre-screen records for a clinic.
func (a *AirtableAdapter) ListPrescreens(ctx context.Context, query repositories.RecordQuery) ([]prescreen.RawRecord, error) {
	return a.listRaw(ctx, a.prescreenTable, query)
}

// ListDropOffs returns the raw drop-off event records for a clinic.
func (a *AirtableAdapter) ListDropOffs(ctx context.Context, query repositories.RecordQuery) ([]prescreen.RawRecord, error) {
	return a.listRaw(ctx, a.dropOffTable, query)
}

// GetPrescreen returns one raw record by the store's record id.
func (a *AirtableAdapter) GetPrescreen(ctx context.Context, id string) (prescreen.RawRecord, error) {
	record, err := a.client.GetRecord(ctx, a.prescreenTable, id)
	if err != nil {
		return nil, err
	}
	return toRawRecord(*record), nil
}

// UpdatePrescreen applies a partial field update to one record.
func (a *AirtableAdapter) UpdatePrescreen(ctx context.Context, id string, update entities.RecordUpdate) error {
	if update.IsEmpty() {
		return apperrors.NewValidationError("update carries no fields")
	}
	return a.client.UpdateRecord(ctx, a.prescreenTable, id, update.Fields())
}

// ListFailReasons returns the store's fail-reason aggregate rows.
func (a *AirtableAdapter) ListFailReasons(ctx context.Context, query repositories.RecordQuery) ([]entities.FailReason, error) {
	rows, err := a.listRaw(ctx, a.failReasonTable, query)
	if err != nil {
		return nil, err
	}

	reasons := make([]entities.FailReason, 0, len(rows))
	for _, row := range rows {
		reason := prescreen.Text(prescreen.FirstNonEmpty(row, "Reason", "reason", "Fail Reason"))
		if reason == "" {
			continue
		}
		reasons = append(reasons, entities.FailReason{
			Reason: reason,
			Count:  intField(row, "Count", "count"),
		})
	}
	return reasons, nil
}

// ListTreatmentStats returns the store's per-treatment aggregate rows.
func (a *AirtableAdapter) ListTreatmentStats(ctx context.Context, query repositories.RecordQuery) ([]entities.TreatmentStat, error) {
	rows, err := a.listRaw(ctx, a.treatmentTable, query)
	if err != nil {
		return nil, err
	}

	stats := make([]entities.TreatmentStat, 0, len(rows))
	for _, row := range rows {
		name := prescreen.Text(prescreen.FirstNonEmpty(row, "Treatment", "treatment", "Name", "name"))
		if name == "" {
			continue
		}
		stats = append(stats, entities.TreatmentStat{
			Name:        name,
			Count:       intField(row, "Count", "count"),
			PassRate:    floatField(row, "Pass Rate", "pass_rate", "passRate"),
			DropOffRate: floatField(row, "Drop Off Rate", "drop_off_rate", "dropOffRate"),
		})
	}
	return stats, nil
}

func (a *AirtableAdapter) listRaw(ctx context.Context, table string, query repositories.RecordQuery) ([]prescreen.RawRecord, error) {
	records, err := a.client.ListRecords(ctx, airtable.ListRequest{
		Table:           table,
		FilterByFormula: buildFilterFormula(query),
	})
	if err != nil {
		return nil, err
	}

	raws := make([]prescreen.RawRecord, 0, len(records))
	for _, record := range records {
		raws = append(raws, toRawRecord(record))
	}
	return raws, nil
}

// buildFilterFormula renders the query as the store's formula syntax.
// CREATED_TIME() is used for range bounds because every record carries
// it regardless of table schema.
func buildFilterFormula(query repositories.RecordQuery) string {
	var clauses []string
	if query.ClinicID != "" {
		clauses = append(clauses, fmt.Sprintf("{Clinic ID} = %q", query.ClinicID))
	}
	if !query.From.IsZero() {
		clauses = append(clauses, fmt.Sprintf("IS_AFTER(CREATED_TIME(), %q)", query.From.UTC().Format(time.RFC3339)))
	}
	if !query.To.IsZero() {
		clauses = append(clauses, fmt.Sprintf("IS_BEFORE(CREATED_TIME(), %q)", query.To.UTC().Format(time.RFC3339)))
	}

	switch len(clauses) {
	case 0:
		return ""
	case 1:
		return clauses[0]
	default:
		return "AND(" + strings.Join(clauses, ", ") + ")"
	}
}

// toRawRecord preserves the store's record shape: id and createdTime
// at the top level, the columns under "fields".
func toRawRecord(record airtable.Record) prescreen.RawRecord {
	raw := prescreen.RawRecord{
		"id":     record.ID,
		"fields": record.Fields,
	}
	if !record.CreatedTime.IsZero() {
		raw["createdTime"] = record.CreatedTime.Format(time.RFC3339)
	}
	return raw
}

func intField(record prescreen.RawRecord, candidates ...string) int {
	value := prescreen.FirstNonEmpty(record, candidates...)
	switch v := value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func floatField(record prescreen.RawRecord, candidates ...string) float64 {
	value := prescreen.FirstNonEmpty(record, candidates...)
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}
