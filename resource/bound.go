package resource

import "fmt"

// Bound is an optional capacity limit. The zero value is "no bound".
type Bound struct {
	value   float64
	defined bool
}

// NoBound is an unconstrained Bound.
var NoBound = Bound{}

// NewBound returns a defined bound of `v`.
func NewBound(v float64) Bound {
	return Bound{value: v, defined: true}
}

// BoundFromSentinel converts an input-table value into a Bound. Only strictly positive values are limits,
// -1 (and any other non-positive or NaN value) means the capacity is unconstrained.
func BoundFromSentinel(v float64) Bound {
	if v > 0 {
		return NewBound(v)
	}
	return NoBound
}

// Value returns the limit and true if the bound is defined.
func (b Bound) Value() (float64, bool) {
	return b.value, b.defined
}

// Defined returns true if the bound constrains capacity.
func (b Bound) Defined() bool {
	return b.defined
}

// Ptr returns a pointer to the limit, or nil when undefined. Used for nullable storage.
func (b Bound) Ptr() *float64 {
	if !b.defined {
		return nil
	}
	v := b.value
	return &v
}

// BoundFromPtr is the inverse of Ptr.
func BoundFromPtr(v *float64) Bound {
	if v == nil {
		return NoBound
	}
	return NewBound(*v)
}

func (b Bound) String() string {
	if !b.defined {
		return "none"
	}
	return fmt.Sprintf("%g", b.value)
}
