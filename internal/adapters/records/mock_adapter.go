package records

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/prescreen"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/repositories"
	apperrors "github.com/careclear/prescreen-dashboard/backend/pkg/errors"
)

// MockAdapter implements RecordRepository with an in-memory fixture
// set, used for local development and demos without store credentials.
// The records deliberately mix field-name variants and legacy shapes
// so the normalization layer gets exercised the same way it is in
// production.
type MockAdapter struct {
	mu         sync.RWMutex
	prescreens []prescreen.RawRecord
	dropOffs   []prescreen.RawRecord
}

// NewMockAdapter creates a repository seeded with fixture records.
func NewMockAdapter() repositories.RecordRepository {
	now := time.Now().UTC()
	day := 24 * time.Hour

	return &MockAdapter{
		prescreens: []prescreen.RawRecord{
			{
				"id": "rec001",
				"fields": map[string]interface{}{
					"Full Name":      "Adaeze Obi",
					"Email":          "adaeze@example.com",
					"Phone":          "+2348012345678",
					"Treatment":      "Dermal Fillers",
					"Eligibility":    "Pass",
					"Booking Status": "Booked",
					"Submitted At":   now.Add(-2 * time.Hour).Format(time.RFC3339),
					"Allergies":      "No",
					"Medications":    "No",
					"Pregnant":       "No",
				},
			},
			{
				"id": "rec002",
				"fields": map[string]interface{}{
					"name":         "Bisi Adeyemi",
					"email":        "bisi@example.com",
					"treatment":    "Anti-Wrinkle Injections",
					"eligibility":  "Needs Review",
					"Allergies":    "Yes, penicillin",
					"Submitted At": now.Add(-1 * day).Format(time.RFC3339),
				},
			},
			{
				"id": "rec003",
				"fields": map[string]interface{}{
					"Name":          "Chidi Okafor",
					"Email Address": "chidi@example.com",
					"Treatment":     "Chemical Peel",
					"Eligibility":   "Unsuitable for treatment",
					"Fail Reason":   "Active skin infection",
					"Created At":    now.Add(-3 * day).Format(time.RFC3339),
				},
			},
			{
				// Legacy shape: no explicit eligibility, pregnancy unsure.
				"id": "rec004",
				"fields": map[string]interface{}{
					"Full Name":         "Deola Balogun",
					"Email":             "deola@example.com",
					"Treatment":         "Microneedling",
					"Are you pregnant?": "Not sure",
					"Timestamp":         now.Add(-5 * day).Format(time.RFC3339),
				},
			},
			{
				"id": "rec005",
				"fields": map[string]interface{}{
					"Full Name":       "Emeka Eze",
					"Email":           "emeka@example.com",
					"Treatment":       "Dermal Fillers",
					"Eligibility":     "Pass",
					"review_complete": true,
					"Needs Review":    "yes",
					"Submitted At":    now.Add(-6 * day).Format(time.RFC3339),
				},
			},
			{
				// No timestamp at all; sorts last.
				"id": "rec006",
				"fields": map[string]interface{}{
					"Full Name": "Funke Alade",
					"Email":     "funke@example.com",
					"Treatment": "Laser Hair Removal",
				},
			},
		},
		dropOffs: []prescreen.RawRecord{
			{
				"id": "drop001",
				"fields": map[string]interface{}{
					"Stage":     "Started",
					"Treatment": "Dermal Fillers",
					"Timestamp": now.Add(-1 * day).Format(time.RFC3339),
				},
			},
			{
				"id": "drop002",
				"fields": map[string]interface{}{
					"Stage":     "Contact Details",
					"Treatment": "Dermal Fillers",
					"Timestamp": now.Add(-1 * day).Format(time.RFC3339),
				},
			},
			{
				"id": "drop003",
				"fields": map[string]interface{}{
					"Stage":     "Medical History",
					"Treatment": "Chemical Peel",
					"Timestamp": now.Add(-2 * day).Format(time.RFC3339),
				},
			},
		},
	}
}

// ListPrescreens returns the fixture pre-screen records.
func (m *MockAdapter) ListPrescreens(ctx context.Context, query repositories.RecordQuery) ([]prescreen.RawRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterByRange(m.prescreens, query), nil
}

// ListDropOffs returns the fixture drop-off records.
func (m *MockAdapter) ListDropOffs(ctx context.Context, query repositories.RecordQuery) ([]prescreen.RawRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterByRange(m.dropOffs, query), nil
}

// GetPrescreen returns one fixture record by id.
func (m *MockAdapter) GetPrescreen(ctx context.Context, id string) (prescreen.RawRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, record := range m.prescreens {
		if prescreen.Text(record["id"]) == id {
			return record, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("record %s not found", id))
}

// UpdatePrescreen mutates a fixture record in place.
func (m *MockAdapter) UpdatePrescreen(ctx context.Context, id string, update entities.RecordUpdate) error {
	if update.IsEmpty() {
		return apperrors.NewValidationError("update carries no fields")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, record := range m.prescreens {
		if prescreen.Text(record["id"]) != id {
			continue
		}
		fields, ok := record["fields"].(map[string]interface{})
		if !ok {
			fields = make(map[string]interface{})
			record["fields"] = fields
		}
		for name, value := range update.Fields() {
			fields[name] = value
		}
		return nil
	}
	return apperrors.NewNotFoundError(fmt.Sprintf("record %s not found", id))
}

// ListFailReasons returns fixture fail-reason aggregates.
func (m *MockAdapter) ListFailReasons(ctx context.Context, query repositories.RecordQuery) ([]entities.FailReason, error) {
	return []entities.FailReason{
		{Reason: "Active skin infection", Count: 4},
		{Reason: "Pregnancy", Count: 3},
		{Reason: "Recent antibiotics", Count: 2},
	}, nil
}

// ListTreatmentStats returns fixture per-treatment aggregates.
func (m *MockAdapter) ListTreatmentStats(ctx context.Context, query repositories.RecordQuery) ([]entities.TreatmentStat, error) {
	return []entities.TreatmentStat{
		{Name: "Dermal Fillers", Count: 18, PassRate: 0.72, DropOffRate: 0.22},
		{Name: "Anti-Wrinkle Injections", Count: 12, PassRate: 0.83, DropOffRate: 0.08},
		{Name: "Chemical Peel", Count: 7, PassRate: 0.57, DropOffRate: 0.29},
	}, nil
}

// filterByRange applies the query's date bounds to fixture records.
// Records without a parseable timestamp are always included, matching
// the lenient treatment the dashboard gives malformed rows.
func filterByRange(records []prescreen.RawRecord, query repositories.RecordQuery) []prescreen.RawRecord {
	if query.From.IsZero() && query.To.IsZero() {
		out := make([]prescreen.RawRecord, len(records))
		copy(out, records)
		return out
	}

	var out []prescreen.RawRecord
	for _, record := range records {
		normalized := prescreen.Normalize(record)
		if normalized.Timestamp.IsZero() {
			out = append(out, record)
			continue
		}
		if !query.From.IsZero() && normalized.Timestamp.Before(query.From) {
			continue
		}
		if !query.To.IsZero() && normalized.Timestamp.After(query.To) {
			continue
		}
		out = append(out, record)
	}
	return out
}
