package prescreen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTruthy(t *testing.T) {
	truthy := []interface{}{true, "true", "TRUE", "yes", "Yes ", "1", "y", "Y"}
	for _, value := range truthy {
		assert.True(t, IsTruthy(value), "expected truthy: %#v", value)
	}

	falsy := []interface{}{false, "no", "false", "", nil, 0, "0", "maybe", "on", float64(1)}
	for _, value := range falsy {
		assert.False(t, IsTruthy(value), "expected falsy: %#v", value)
	}
}

func TestIsYes(t *testing.T) {
	yes := []interface{}{true, "yes", "Yes", "YES", "yes, i'm 18 or over", "Yes - penicillin", "true"}
	for _, value := range yes {
		assert.True(t, IsYes(value), "expected yes: %#v", value)
	}

	no := []interface{}{false, "no", "false", "", nil, "not sure", "n/a", 1}
	for _, value := range no {
		assert.False(t, IsYes(value), "expected no: %#v", value)
	}
}

func TestParseAnswer(t *testing.T) {
	testCases := []struct {
		value    interface{}
		expected Answer
	}{
		{true, AnswerYes},
		{false, AnswerNo},
		{"yes", AnswerYes},
		{"TRUE", AnswerYes},
		{"no", AnswerNo},
		{"False", AnswerNo},
		{"not sure", AnswerUnsure},
		{"Unsure", AnswerUnsure},
		{"maybe", AnswerUnsure},
		{"", AnswerUnknown},
		{nil, AnswerUnknown},
		{"yes please", AnswerUnknown},
		{42, AnswerUnknown},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ParseAnswer(tc.value), "value: %#v", tc.value)
	}
}

func TestNormalizeEligibilityRaw(t *testing.T) {
	testCases := []struct {
		value    interface{}
		expected RawEligibility
	}{
		{"pass", RawPass},
		{"Pass ", RawPass},
		{"review", RawReview},
		{"Needs Review", RawReview},
		{"fail", RawFail},
		{"Unsuitable - allergy", RawFail},
		{"", RawUnknown},
		{nil, RawUnknown},
		{"pending", RawUnknown},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, NormalizeEligibilityRaw(tc.value), "value: %#v", tc.value)
	}
}
