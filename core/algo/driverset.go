package algo

import (
	"math"

	"github.com/huangsam/mri/schema"
)

// DriverSet is an immutable, validated collection of weighted drivers.
// The zero value is an empty set. Copies share the same backing data,
// which is never mutated after construction.
type DriverSet struct {
	defs  []schema.DriverDefinition
	index map[schema.DriverKey]int
	sum   float64
}

// NewDriverSet validates the definitions and returns a driver set that keeps
// their order. Every weight must lie in (0,1], keys must be unique and
// non-empty, and the weights must sum to 1.0 within schema.WeightTolerance.
// An empty list yields an empty set.
func NewDriverSet(defs []schema.DriverDefinition) (DriverSet, error) {
	if len(defs) == 0 {
		return DriverSet{}, nil
	}

	set := DriverSet{
		defs:  make([]schema.DriverDefinition, len(defs)),
		index: make(map[schema.DriverKey]int, len(defs)),
	}
	for i, d := range defs {
		if d.Key == "" {
			return DriverSet{}, &DriverWeightsInvalidError{Weight: d.Weight, Reason: "driver key is empty"}
		}
		if _, dup := set.index[d.Key]; dup {
			return DriverSet{}, &DriverWeightsInvalidError{Driver: d.Key, Weight: d.Weight, Reason: "duplicate driver key"}
		}
		if math.IsNaN(d.Weight) || d.Weight <= 0 || d.Weight > 1 {
			return DriverSet{}, &DriverWeightsInvalidError{Driver: d.Key, Weight: d.Weight, Reason: "weight must be in (0,1]"}
		}
		if d.Name == "" {
			d.Name = string(d.Key)
		}
		set.defs[i] = d
		set.index[d.Key] = i
		set.sum += d.Weight
	}

	if math.Abs(set.sum-1.0) > schema.WeightTolerance {
		return DriverSet{}, &DriverWeightsInvalidError{Sum: set.sum, Reason: "weights must sum to 1.0"}
	}
	return set, nil
}

// DefaultDriverSet returns the built-in six-driver catalog.
func DefaultDriverSet() DriverSet {
	set, err := NewDriverSet(schema.DefaultDriverDefinitions())
	if err != nil {
		panic(err) // the catalog is static
	}
	return set
}

// Len returns the number of drivers.
func (s DriverSet) Len() int { return len(s.defs) }

// Sum returns the total weight.
func (s DriverSet) Sum() float64 { return s.sum }

// Definitions returns a copy of the definitions in set order.
func (s DriverSet) Definitions() []schema.DriverDefinition {
	out := make([]schema.DriverDefinition, len(s.defs))
	copy(out, s.defs)
	return out
}

// Keys returns the driver keys in set order.
func (s DriverSet) Keys() []schema.DriverKey {
	keys := make([]schema.DriverKey, len(s.defs))
	for i, d := range s.defs {
		keys[i] = d.Key
	}
	return keys
}

// Lookup returns the definition for key.
func (s DriverSet) Lookup(key schema.DriverKey) (schema.DriverDefinition, bool) {
	i, ok := s.index[key]
	if !ok {
		return schema.DriverDefinition{}, false
	}
	return s.defs[i], true
}

// Position returns the index of key in set order, or -1.
func (s DriverSet) Position(key schema.DriverKey) int {
	if i, ok := s.index[key]; ok {
		return i
	}
	return -1
}

// valid reports whether the set can be used for scoring.
func (s DriverSet) valid() bool {
	if len(s.defs) == 0 {
		return true
	}
	return len(s.index) == len(s.defs) && math.Abs(s.sum-1.0) <= schema.WeightTolerance
}
