package domain

// Record is a row in the conversation store. Field names depend on how the
// table was set up, so callers negotiate them before writing.
type Record struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

// String returns a field as a string, or "" when absent or not a string.
func (r Record) String(field string) string {
	if v, ok := r.Fields[field].(string); ok {
		return v
	}
	return ""
}

// Float returns a numeric field, accepting the number types JSON decoders produce.
func (r Record) Float(field string) (float64, bool) {
	switch v := r.Fields[field].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Has reports whether the record carries the field.
func (r Record) Has(field string) bool {
	_, ok := r.Fields[field]
	return ok
}
