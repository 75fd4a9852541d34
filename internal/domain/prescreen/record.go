package prescreen

// RawRecord is a loosely-schematized field map for one client pre-screen
// or drop-off event, exactly as returned by the record store. Field names
// are not consistent between producers (snake_case API names vs
// human-readable column names), and a record may nest its fields one
// level under a "fields" key. RawRecords are read-only inputs; nothing
// in this package mutates them.
type RawRecord map[string]interface{}

// Fields returns the nested field container when present.
func (r RawRecord) Fields() map[string]interface{} {
	if r == nil {
		return nil
	}
	if nested, ok := r["fields"].(map[string]interface{}); ok {
		return nested
	}
	return nil
}
