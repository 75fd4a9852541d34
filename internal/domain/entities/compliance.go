package entities

import "github.com/careclear/prescreen-dashboard/backend/internal/domain/prescreen"

// ComplianceFlag pairs a flagged record with the signals that put it
// in the REVIEW or UNSUITABLE state, for the compliance view.
type ComplianceFlag struct {
	Record  prescreen.Record         `json:"record"`
	Signals []prescreen.ReviewSignal `json:"signals"`
}
