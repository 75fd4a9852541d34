package prescreen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEligibility_HardStopFail(t *testing.T) {
	// A raw fail can never be overridden, whatever else the record says.
	records := []RawRecord{
		{"eligibility": "Fail"},
		{"eligibility": "Fail", "Review Complete": true},
		{"eligibility": "Unsuitable - pregnancy", "manual_review_flag": true},
		{"eligibility": "Fail", "Booking Status": "Booked", "allergies_yesno": "No"},
	}

	for _, record := range records {
		assert.Equal(t, EligibilityUnsuitable, NormalizeEligibility(record), "record: %v", record)
	}
}

func TestNormalizeEligibility_ReviewCompleteSuppressesInference(t *testing.T) {
	// With a completed review the explicit flag and the clinical answers
	// are all ignored; the outcome comes from the raw value alone.
	record := RawRecord{
		"eligibility":            "Pass",
		"review_complete":        true,
		"manual_review_flag":     true,
		"pregnant_breastfeeding": "yes",
		"antibiotics_14d":        "Yes",
	}
	assert.Equal(t, EligibilitySafe, NormalizeEligibility(record))
}

func TestNormalizeEligibility_ReviewCompleteWithRawReview(t *testing.T) {
	// Observed fall-through: a completed review over a raw "Review" value
	// is neither a reviewed pass nor a reviewed fail, so it lands on
	// UNKNOWN and the badge shows the raw text.
	record := RawRecord{
		"eligibility":     "Review",
		"review_complete": true,
	}
	assert.Equal(t, EligibilityUnknown, NormalizeEligibility(record))
	assert.Equal(t, "REVIEW", EligibilityLabel(record))
}

func TestNormalizeEligibility_ExplicitReviewPaths(t *testing.T) {
	testCases := []struct {
		name   string
		record RawRecord
	}{
		{"raw review value", RawRecord{"eligibility": "Review"}},
		{"raw value containing review", RawRecord{"eligibility": "Needs Review"}},
		{"manual review flag", RawRecord{"eligibility": "Pass", "manual_review_flag": true}},
		{"flagged column", RawRecord{"Flagged for Review": "yes"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, EligibilityReview, NormalizeEligibility(tc.record))
		})
	}
}

func TestNormalizeEligibility_InferredTriggers(t *testing.T) {
	testCases := []struct {
		name   string
		record RawRecord
	}{
		// An inferred trigger overrides a raw pass: step 4 runs before step 5.
		{"antibiotics over pass", RawRecord{"eligibility": "Pass", "antibiotics_14d": "Yes"}},
		{"allergies", RawRecord{"eligibility": "Pass", "allergies_yesno": "yes"}},
		{"pregnancy yes", RawRecord{"pregnant_breastfeeding": "Yes"}},
		{"pregnancy not sure", RawRecord{"eligibility": "Pass", "pregnant_breastfeeding": "Not sure"}},
		{"pregnancy maybe", RawRecord{"Pregnant/Breastfeeding": "maybe"}},
		{"nested answer", RawRecord{"fields": map[string]interface{}{"Antibiotics (14d)": "true"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, EligibilityReview, NormalizeEligibility(tc.record))
		})
	}
}

func TestNormalizeEligibility_TriggerAnswersThatDoNotFire(t *testing.T) {
	record := RawRecord{
		"eligibility":            "Pass",
		"pregnant_breastfeeding": "No",
		"allergies_yesno":        "none",
		"antibiotics_14d":        "n/a",
	}
	assert.Equal(t, EligibilitySafe, NormalizeEligibility(record))
}

func TestNormalizeEligibility_DegradesToUnknown(t *testing.T) {
	records := []RawRecord{
		nil,
		{},
		{"eligibility": ""},
		{"eligibility": "Pending"},
		{"name": "Ada Okafor"},
	}

	for _, record := range records {
		assert.Equal(t, EligibilityUnknown, NormalizeEligibility(record), "record: %v", record)
	}
}

func TestNormalizeEligibility_Pure(t *testing.T) {
	record := RawRecord{
		"eligibility":     "Pass",
		"antibiotics_14d": "Yes",
		"fields": map[string]interface{}{
			"Allergies": "no",
		},
	}

	first := NormalizeEligibility(record)
	second := NormalizeEligibility(record)
	assert.Equal(t, first, second)
	assert.Equal(t, EligibilityReview, first)
}

func TestEligibilityLabel(t *testing.T) {
	assert.Equal(t, "SAFE", EligibilityLabel(RawRecord{"eligibility": "Pass"}))
	assert.Equal(t, "PENDING", EligibilityLabel(RawRecord{"eligibility": "Pending"}))
	assert.Equal(t, "NOT SCREENED", EligibilityLabel(RawRecord{}))
}
