package prescreen

// ReviewSignal is one human-readable supporting detail shown when a
// record needs review. Signals are display-only and recomputed per
// request; nothing persists them.
type ReviewSignal struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Detail field candidates for each signal. The order of the signal
// definitions themselves is fixed and meaningful: most clinically
// urgent first.
var signalSources = []struct {
	label      string
	candidates []string
}{
	{"Allergies", []string{
		"allergy_details", "Allergy Details", "allergies_detail",
		"allergies_details", "allergy_list",
	}},
	{"Medications", []string{
		"medication_details", "Medication Details", "medications",
		"Medications", "current_medications", "Current Medications",
	}},
	{"Pregnancy", []string{
		"pregnancy_details", "Pregnancy Details",
		"pregnant_breastfeeding_details", "Pregnant/Breastfeeding Details",
	}},
	{"Medical conditions", []string{
		"medical_conditions", "Medical Conditions", "conditions",
		"condition_details", "Condition Details",
	}},
}

var reasonFields = []string{
	"fail_reason", "Fail Reason", "review_reason", "Review Reason",
	"reason", "Reason", "notes", "Notes",
}

// ReviewSignals extracts the supporting details for a record's review
// state: allergy, medication, pregnancy and condition text, each
// included only when non-empty. When none of those fields carry
// anything, a single "Note" entry from the fail/review reason field
// stands in, so the panel is never silently blank for a flagged record
// that has any explanation at all.
func ReviewSignals(record RawRecord) []ReviewSignal {
	var signals []ReviewSignal
	for _, source := range signalSources {
		if value := Text(FirstNonEmpty(record, source.candidates...)); value != "" {
			signals = append(signals, ReviewSignal{Label: source.label, Value: value})
		}
	}
	if len(signals) == 0 {
		if value := Text(FirstNonEmpty(record, reasonFields...)); value != "" {
			signals = append(signals, ReviewSignal{Label: "Note", Value: value})
		}
	}
	return signals
}
