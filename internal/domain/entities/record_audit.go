package entities

import "time"

// RecordAudit is one row of the Postgres audit trail: a mutation this
// service performed against the record store, kept even though the
// store itself owns the record, so clinics can answer "who changed
// this and when" without trusting the store's revision history.
type RecordAudit struct {
	ID        string                 `json:"id" db:"id"`
	RecordID  string                 `json:"record_id" db:"record_id"`
	ClinicID  string                 `json:"clinic_id" db:"clinic_id"`
	Actor     string                 `json:"actor" db:"actor"`
	Changes   map[string]interface{} `json:"changes" db:"changes"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
}
