package prescreen

import "strings"

// Eligibility is the canonical four-state classification derived for
// every record. Exactly one value is assigned per record and the
// derivation is a pure function of the record's fields.
type Eligibility string

const (
	EligibilitySafe       Eligibility = "SAFE"
	EligibilityReview     Eligibility = "REVIEW"
	EligibilityUnsuitable Eligibility = "UNSUITABLE"
	EligibilityUnknown    Eligibility = "UNKNOWN"
)

// Candidate field-name lists for the signals feeding the eligibility
// decision. Order defines priority; both API-style and column-style
// names appear because records arrive from more than one producer.
var (
	eligibilityFields = []string{"eligibility", "Eligibility"}

	reviewCompleteFields = []string{"Review Complete", "review_complete", "reviewComplete"}

	reviewFlagFields = []string{
		"manual_review_flag", "Flagged for Review", "flagged_for_review",
		"manual_review", "Manual Review", "manual_review_required",
		"review_flag", "Review Flag", "flagged", "Flagged",
	}

	pregnancyFields = []string{
		"pregnant_breastfeeding", "Pregnant/Breastfeeding",
		"Pregnant Breastfeeding", "pregnant_breastfeed", "pregnancy",
	}

	allergyFields = []string{"allergies_yesno", "allergies", "Allergies"}

	antibioticFields = []string{
		"antibiotics_14d", "Antibiotics_14d", "Antibiotics 14d",
		"Antibiotics (14d)", "Antibiotics (14 days)",
	}
)

// NormalizeEligibility derives the canonical eligibility for a record.
// The steps run in a fixed order that encodes precedence:
//
//  1. A raw value normalizing to fail is a hard stop: UNSUITABLE, no
//     matter what any other field says. A completed review cannot clear
//     a clinical hard-fail.
//  2. A truthy review-complete flag means a human signed off, so the
//     automatic review inference in steps 3-4 is skipped entirely and
//     the outcome depends on the raw value alone.
//  3. A raw value normalizing to review, or a truthy explicit review
//     flag, is REVIEW.
//  4. An inferred clinical trigger (pregnancy answered yes or unsure,
//     allergies yes, recent antibiotics yes) is REVIEW. Both paths into
//     REVIEW exist because some producers set the flag and some only
//     set the underlying answer.
//  5. A raw value normalizing to pass is SAFE.
//  6. Everything else is UNKNOWN. Missing or malformed data always
//     degrades to UNKNOWN, never to a false SAFE.
func NormalizeEligibility(record RawRecord) Eligibility {
	raw := NormalizeEligibilityRaw(FirstNonEmpty(record, eligibilityFields...))
	if raw == RawFail {
		return EligibilityUnsuitable
	}

	if !IsTruthy(FirstNonEmpty(record, reviewCompleteFields...)) {
		if raw == RawReview || IsTruthy(FirstNonEmpty(record, reviewFlagFields...)) {
			return EligibilityReview
		}
		if hasInferredTrigger(record) {
			return EligibilityReview
		}
	}

	if raw == RawPass {
		return EligibilitySafe
	}
	return EligibilityUnknown
}

// hasInferredTrigger reports whether any clinical answer on its own
// warrants a review: pregnancy/breastfeeding answered yes or with any
// uncertainty, allergies yes, or antibiotics within 14 days yes.
func hasInferredTrigger(record RawRecord) bool {
	switch ParseAnswer(FirstNonEmpty(record, pregnancyFields...)) {
	case AnswerYes, AnswerUnsure:
		return true
	}
	if ParseAnswer(FirstNonEmpty(record, allergyFields...)) == AnswerYes {
		return true
	}
	return ParseAnswer(FirstNonEmpty(record, antibioticFields...)) == AnswerYes
}

// EligibilityLabel returns the text a badge should display for a
// record: the canonical state, except for UNKNOWN where the raw value
// is echoed uppercased so the operator sees what the store actually
// holds, with a placeholder when the field is empty.
func EligibilityLabel(record RawRecord) string {
	state := NormalizeEligibility(record)
	if state != EligibilityUnknown {
		return string(state)
	}
	if raw := Text(FirstNonEmpty(record, eligibilityFields...)); raw != "" {
		return strings.ToUpper(raw)
	}
	return "NOT SCREENED"
}
