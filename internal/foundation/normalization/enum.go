// Package normalization maps loosely written configuration strings onto typed enums.
package normalization

import (
	"maps"
	"slices"
	"strings"

	"git.home.luguber.info/inful/themebridge/internal/foundation/errors"
)

// Enum resolves spellings of a named enum. Matching ignores case and surrounding
// whitespace; several spellings may map to the same value.
type Enum[T comparable] struct {
	name     string
	values   map[string]T
	fallback T
}

// NewEnum builds an Enum; fallback is returned for unrecognized input by Normalize.
func NewEnum[T comparable](name string, values map[string]T, fallback T) *Enum[T] {
	folded := make(map[string]T, len(values))
	for k, v := range values {
		folded[fold(k)] = v
	}
	return &Enum[T]{name: name, values: folded, fallback: fallback}
}

// Lookup returns the value spelled by raw and whether it is known.
func (e *Enum[T]) Lookup(raw string) (T, bool) {
	v, ok := e.values[fold(raw)]
	return v, ok
}

// Normalize returns the value spelled by raw, or the fallback.
func (e *Enum[T]) Normalize(raw string) T {
	if v, ok := e.Lookup(raw); ok {
		return v
	}
	return e.fallback
}

// Parse is Lookup with a validation error naming the accepted spellings.
func (e *Enum[T]) Parse(raw string) (T, error) {
	if v, ok := e.Lookup(raw); ok {
		return v, nil
	}
	var zero T
	return zero, errors.ValidationError("invalid "+e.name).
		WithContext("value", raw).
		WithContext("valid", e.Names()).
		Build()
}

// Fallback returns the value Normalize uses for unknown input.
func (e *Enum[T]) Fallback() T { return e.fallback }

// Names returns the accepted spellings in sorted order.
func (e *Enum[T]) Names() []string {
	return slices.Sorted(maps.Keys(e.values))
}

func fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
