package entities

import "time"

// RecordEventType identifies what happened to a record.
type RecordEventType string

const (
	RecordEventUpdated RecordEventType = "record.updated"
)

// RecordEvent is broadcast over the event bus whenever this service
// mutates a record, so connected dashboards can refresh without
// polling.
type RecordEvent struct {
	ID        string                 `json:"id"`
	Type      RecordEventType        `json:"type"`
	ClinicID  string                 `json:"clinic_id"`
	RecordID  string                 `json:"record_id"`
	Changes   map[string]interface{} `json:"changes,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}
