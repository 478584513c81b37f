// Package normalization maps raw config strings onto typed enum values with
// a shared cleaning step (trim, lowercase) and a default fallback.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer converts raw strings to values of T with a default for
// unrecognized input.
type Normalizer[T comparable] struct {
	values       map[string]T
	defaultValue T
}

// NewNormalizer builds a normalizer over the given key/value mapping.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	return &Normalizer[T]{values: values, defaultValue: defaultValue}
}

func clean(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Normalize converts raw input to its enum value, falling back to the
// default for unknown input. Empty input is always the default.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[clean(raw)]; ok {
		return v
	}
	return n.defaultValue
}

// NormalizeWithError converts raw input, reporting unknown non-empty input
// instead of silently defaulting. Useful during config validation.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	cleaned := clean(raw)
	if cleaned == "" {
		return n.defaultValue, nil
	}
	if v, ok := n.values[cleaned]; ok {
		return v, nil
	}
	return n.defaultValue, fmt.Errorf("unknown value %q (valid: %s)", raw, strings.Join(n.ValidKeys(), ", "))
}

// ValidKeys returns the accepted inputs, sorted, for help and error text.
func (n *Normalizer[T]) ValidKeys() []string {
	keys := make([]string, 0, len(n.values))
	for k := range n.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
