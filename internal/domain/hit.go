package domain

// Hit is a raw document returned by the search engine. Attribute values are
// coerced to strings at the transport boundary; a missing attribute reads
// as the empty string.
type Hit struct {
	fields map[string]string
}

// NewHit creates a Hit from an attribute map. The map is not copied; callers
// must not mutate it afterwards.
func NewHit(fields map[string]string) Hit {
	return Hit{fields: fields}
}

// Field returns the value of an attribute, or "" when absent.
func (h Hit) Field(name string) string {
	return h.fields[name]
}

// FieldOr returns the value of an attribute, or fallback when absent or empty.
func (h Hit) FieldOr(name, fallback string) string {
	if v, ok := h.fields[name]; ok && v != "" {
		return v
	}
	return fallback
}

// Has reports whether the attribute is present, even if empty.
func (h Hit) Has(name string) bool {
	_, ok := h.fields[name]
	return ok
}
