package prescreen

import "strings"

// IsTruthy reports whether a raw field value is affirmatively true. Only
// boolean true and the strings "true", "yes", "1" and "y" (case
// insensitive) count; unrecognized text is deliberately NOT truthy so a
// malformed flag can never silently enable behavior.
func IsTruthy(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1", "y":
			return true
		}
	}
	return false
}

// IsYes coerces a clinical-answer field (allergy, antibiotic, pregnancy
// questions) to a boolean. Boolean true, the exact answers "yes",
// "yes, i'm 18 or over" and "true", and any text beginning with "yes"
// count as yes. "no" and "false" and everything else count as no.
func IsYes(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		answer := strings.ToLower(strings.TrimSpace(v))
		switch answer {
		case "yes", "yes, i'm 18 or over", "true":
			return true
		case "no", "false":
			return false
		}
		return strings.HasPrefix(answer, "yes")
	}
	return false
}

// Answer is the tri-state outcome of a clinical question. "Not sure"
// style answers are kept distinct from yes because some rules treat
// uncertainty exactly like an affirmative answer.
type Answer int

const (
	AnswerUnknown Answer = iota
	AnswerYes
	AnswerNo
	AnswerUnsure
)

// String returns the canonical lowercase name of the answer.
func (a Answer) String() string {
	switch a {
	case AnswerYes:
		return "yes"
	case AnswerNo:
		return "no"
	case AnswerUnsure:
		return "unsure"
	default:
		return "unknown"
	}
}

// ParseAnswer maps a raw clinical-answer value onto the tri-state
// Answer. Matching is exact (lowercased, trimmed): "yes"/"true" are
// yes, "no"/"false" are no, "not sure"/"unsure"/"maybe" are unsure,
// anything else is unknown.
func ParseAnswer(value interface{}) Answer {
	switch v := value.(type) {
	case bool:
		if v {
			return AnswerYes
		}
		return AnswerNo
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "yes", "true":
			return AnswerYes
		case "no", "false":
			return AnswerNo
		case "not sure", "unsure", "maybe":
			return AnswerUnsure
		}
	}
	return AnswerUnknown
}

// RawEligibility is the normalized form of the record store's free-text
// eligibility column.
type RawEligibility string

const (
	RawPass    RawEligibility = "pass"
	RawReview  RawEligibility = "review"
	RawFail    RawEligibility = "fail"
	RawUnknown RawEligibility = "unknown"
)

// NormalizeEligibilityRaw collapses a free-text eligibility value to
// pass/review/fail/unknown. Any text containing "review" is review and
// any text containing "unsuitable" is fail, so producer phrasing like
// "Needs Review" or "Unsuitable - allergy" still classifies.
func NormalizeEligibilityRaw(value interface{}) RawEligibility {
	text := strings.ToLower(Text(value))
	switch {
	case text == "pass":
		return RawPass
	case text == "review" || strings.Contains(text, "review"):
		return RawReview
	case text == "fail" || strings.Contains(text, "unsuitable"):
		return RawFail
	default:
		return RawUnknown
	}
}
