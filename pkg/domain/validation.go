package domain

import (
	"maps"
	"slices"
	"strings"
)

// ValidationErrors maps a field name to a user-facing message.
type ValidationErrors map[string]string

// Error implements error with a stable, field-sorted rendering.
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation passed"
	}
	parts := make([]string, 0, len(v))
	for _, field := range slices.Sorted(maps.Keys(v)) {
		parts = append(parts, field+": "+v[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field carries a message.
func (v ValidationErrors) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// Clone returns an independent copy (never nil).
func (v ValidationErrors) Clone() ValidationErrors {
	out := make(ValidationErrors, len(v))
	maps.Copy(out, v)
	return out
}
