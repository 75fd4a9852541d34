package prescreen

import (
	"fmt"
	"strconv"
	"strings"
)

// FirstNonEmpty returns the value of the first candidate field name that
// holds non-empty content, checking the record's top level and then its
// nested "fields" container for each name in order. Earlier names win.
// It returns nil when every candidate is absent or empty; it never
// returns an error, absence is not an error condition here.
func FirstNonEmpty(record RawRecord, candidates ...string) interface{} {
	if record == nil || len(candidates) == 0 {
		return nil
	}

	nested := record.Fields()
	for _, name := range candidates {
		if value, ok := record[name]; ok && !isEmpty(value) {
			return value
		}
		if nested != nil {
			if value, ok := nested[name]; ok && !isEmpty(value) {
				return value
			}
		}
	}
	return nil
}

// Text renders a raw field value as a trimmed string. Booleans become
// "true"/"false", numbers their decimal form, string slices join with
// ", ". Nil and unrenderable values become "".
func Text(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case []string:
		return strings.TrimSpace(strings.Join(v, ", "))
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s := Text(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	default:
		// Booleans and numbers always carry content, including false and 0.
		return false
	}
}
