package entities

// FailReason is one aggregate row from the record store's fail-reason
// table: how often a given screening-failure reason occurred in the
// selected range. The store computes the counts; this service only
// relays them.
type FailReason struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// TreatmentStat is one aggregate row of per-treatment funnel figures.
type TreatmentStat struct {
	Name        string  `json:"name"`
	Count       int     `json:"count"`
	PassRate    float64 `json:"passRate"`
	DropOffRate float64 `json:"dropOffRate"`
}

// FunnelStage is one step of the drop-off funnel with the number of
// clients who reached it.
type FunnelStage struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Funnel is the complete drop-off view: stage counts derived from
// drop-off records plus the store's aggregate rows.
type Funnel struct {
	Stages         []FunnelStage   `json:"stages"`
	FailReasons    []FailReason    `json:"failReasons"`
	TreatmentStats []TreatmentStat `json:"treatmentStats"`
}
