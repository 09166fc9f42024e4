// Package params holds the open-ended option bundles passed to simulators and
// reports. Values arrive from YAML configs, CLI flags and Go callers, so the
// getters accept every numeric representation those sources produce.
package params

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

type Set map[string]any

func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s Set) Float(key string, def float64) (float64, error) {
	v, ok := s.lookup(key)
	if !ok {
		return def, nil
	}
	if _, isBool := v.(bool); isBool {
		return def, fmt.Errorf("option %q: expected number, got bool", key)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return def, fmt.Errorf("option %q: %w", key, err)
	}
	return f, nil
}

func (s Set) Int(key string, def int) (int, error) {
	i, err := s.Int64(key, int64(def))
	return int(i), err
}

func (s Set) Int64(key string, def int64) (int64, error) {
	v, ok := s.lookup(key)
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case bool:
		return def, fmt.Errorf("option %q: expected integer, got bool", key)
	case float64:
		if n != math.Trunc(n) {
			return def, fmt.Errorf("option %q: %v is not an integer", key, n)
		}
	case float32:
		if float64(n) != math.Trunc(float64(n)) {
			return def, fmt.Errorf("option %q: %v is not an integer", key, n)
		}
	}
	i, err := cast.ToInt64E(v)
	if err != nil {
		return def, fmt.Errorf("option %q: %w", key, err)
	}
	return i, nil
}

func (s Set) Bool(key string, def bool) (bool, error) {
	v, ok := s.lookup(key)
	if !ok {
		return def, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def, fmt.Errorf("option %q: %w", key, err)
	}
	return b, nil
}

func (s Set) String(key, def string) string {
	v, ok := s[key]
	if !ok || v == nil {
		return def
	}
	str, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return str
}

// lookup trims string values so CLI input like " 0.5 " coerces cleanly.
func (s Set) lookup(key string) (any, bool) {
	v, ok := s[key]
	if !ok || v == nil {
		return nil, false
	}
	if str, isStr := v.(string); isStr {
		return strings.TrimSpace(str), true
	}
	return v, true
}

// Merge returns a new set with the entries of other layered over s.
func (s Set) Merge(other Set) Set {
	out := make(Set, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Parse reads "key=value" pairs, as given on the command line.
func Parse(pairs []string) (Set, error) {
	out := make(Set, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q, want key=value", p)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}
