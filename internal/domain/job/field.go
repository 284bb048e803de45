package job

import "strings"

// Field is an optional text value. Blank strings and the "nan" placeholder are absent.
type Field struct {
	value string
	ok    bool
}

// NewField trims raw and decides once whether it carries a value.
func NewField(raw string) Field {
	v := strings.TrimSpace(raw)
	if v == "" || strings.EqualFold(v, "nan") {
		return Field{}
	}
	return Field{value: v, ok: true}
}

// Absent returns a field without a value.
func Absent() Field { return Field{} }

// Value returns the value and whether it is present.
func (f Field) Value() (string, bool) { return f.value, f.ok }

// String returns the value or "" when absent.
func (f Field) String() string { return f.value }

// Present reports whether the field has a value.
func (f Field) Present() bool { return f.ok }

// Equals reports whether the field is present and equal to s.
func (f Field) Equals(s string) bool { return f.ok && f.value == s }

// Ptr returns a pointer to the value, nil when absent.
func (f Field) Ptr() *string {
	if !f.ok {
		return nil
	}
	v := f.value
	return &v
}
