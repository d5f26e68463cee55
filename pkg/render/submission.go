package render

import (
	"fmt"
	"sort"
	"strings"
)

// VersionFieldName is the form field carrying the expected form version on
// reorder submissions.
const VersionFieldName = "version"

// HiddenField represents a hidden form input.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// VersionField constructs the hidden field used for optimistic locking.
func VersionField(version int) HiddenField {
	return Hidden(VersionFieldName, version)
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields sorts hidden fields by name for deterministic
// rendering.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: strings.TrimSpace(name), Value: fields[name]})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// WithHidden returns page hidden fields merged with request-level ones.
func WithHidden(fields []HiddenField, extra map[string]string) []HiddenField {
	base := make(map[string]string, len(fields))
	for _, f := range fields {
		base[f.Name] = f.Value
	}
	merged := MergeHiddenFields(extra, SortedHiddenFields(base)...)
	return SortedHiddenFields(merged)
}
