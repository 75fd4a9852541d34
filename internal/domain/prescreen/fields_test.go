package prescreen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstNonEmpty_PriorityOrder(t *testing.T) {
	record := RawRecord{
		"eligibility": "Pass",
		"Eligibility": "Fail",
	}

	value := FirstNonEmpty(record, "eligibility", "Eligibility")
	assert.Equal(t, "Pass", value)

	value = FirstNonEmpty(record, "Eligibility", "eligibility")
	assert.Equal(t, "Fail", value)
}

func TestFirstNonEmpty_SkipsEmptyValues(t *testing.T) {
	record := RawRecord{
		"name":      "   ",
		"full_name": "Ada Okafor",
	}

	value := FirstNonEmpty(record, "name", "full_name")
	assert.Equal(t, "Ada Okafor", value)
}

func TestFirstNonEmpty_NestedFieldsContainer(t *testing.T) {
	record := RawRecord{
		"fields": map[string]interface{}{
			"Eligibility": "Review",
		},
	}

	value := FirstNonEmpty(record, "eligibility", "Eligibility")
	assert.Equal(t, "Review", value)
}

func TestFirstNonEmpty_DirectBeatsNestedForSameName(t *testing.T) {
	record := RawRecord{
		"Eligibility": "Pass",
		"fields": map[string]interface{}{
			"Eligibility": "Fail",
		},
	}

	value := FirstNonEmpty(record, "Eligibility")
	assert.Equal(t, "Pass", value)
}

func TestFirstNonEmpty_AllAbsentReturnsNil(t *testing.T) {
	record := RawRecord{
		"other": "value",
		"blank": "",
		"fields": map[string]interface{}{
			"also_blank": "  ",
		},
	}

	assert.Nil(t, FirstNonEmpty(record, "blank", "also_blank", "missing"))
	assert.Nil(t, FirstNonEmpty(nil, "anything"))
	assert.Nil(t, FirstNonEmpty(record))
}

func TestFirstNonEmpty_FalseAndZeroArePresent(t *testing.T) {
	record := RawRecord{
		"flag":  false,
		"count": float64(0),
	}

	assert.Equal(t, false, FirstNonEmpty(record, "flag"))
	assert.Equal(t, float64(0), FirstNonEmpty(record, "count"))
}

func TestText(t *testing.T) {
	testCases := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{"nil", nil, ""},
		{"trimmed string", "  Botox  ", "Botox"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"float", float64(3), "3"},
		{"string slice", []string{"a", "b"}, "a, b"},
		{"interface slice", []interface{}{"x", "", "y"}, "x, y"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Text(tc.value))
		})
	}
}
