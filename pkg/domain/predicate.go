package domain

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Predicate decides whether an edge is taken for a submitted answer value.
// Implementations must be pure.
type Predicate interface {
	Accept(value int) bool
}

// Interval is a closed range of answer values.
type Interval struct {
	Min int
	Max int
}

// Overlaps reports whether the two closed ranges share a value.
func (i Interval) Overlaps(o Interval) bool {
	return i.Min <= o.Max && o.Min <= i.Max
}

// Bounded is implemented by predicates that can describe the values they accept.
// The validator uses it to find overlapping edges.
type Bounded interface {
	Intervals() []Interval
}

// Equals accepts exactly one value. It is the predicate of the reference configuration format.
type Equals int

func (p Equals) Accept(value int) bool { return value == int(p) }

func (p Equals) Intervals() []Interval { return []Interval{{Min: int(p), Max: int(p)}} }

func (p Equals) String() string { return strconv.Itoa(int(p)) }

// AnyOfPredicate accepts any value of a fixed set.
type AnyOfPredicate []int

// AnyOf builds a set predicate. An empty set accepts nothing.
func AnyOf(values ...int) AnyOfPredicate {
	return AnyOfPredicate(slices.Clone(values))
}

func (p AnyOfPredicate) Accept(value int) bool { return slices.Contains(p, value) }

func (p AnyOfPredicate) Intervals() []Interval {
	out := make([]Interval, len(p))
	for i, v := range p {
		out[i] = Interval{Min: v, Max: v}
	}
	return out
}

func (p AnyOfPredicate) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.Itoa(v)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// BetweenPredicate accepts Min <= value <= Max.
type BetweenPredicate Interval

// Between builds a closed range predicate. Bounds are swapped when given in reverse.
func Between(minValue, maxValue int) BetweenPredicate {
	if minValue > maxValue {
		minValue, maxValue = maxValue, minValue
	}
	return BetweenPredicate{Min: minValue, Max: maxValue}
}

// AtLeast accepts every value >= minValue.
func AtLeast(minValue int) BetweenPredicate {
	return BetweenPredicate{Min: minValue, Max: math.MaxInt}
}

// AtMost accepts every value <= maxValue.
func AtMost(maxValue int) BetweenPredicate {
	return BetweenPredicate{Min: math.MinInt, Max: maxValue}
}

func (p BetweenPredicate) Accept(value int) bool { return value >= p.Min && value <= p.Max }

func (p BetweenPredicate) Intervals() []Interval { return []Interval{Interval(p)} }

func (p BetweenPredicate) String() string {
	switch {
	case p.Min == math.MinInt:
		return fmt.Sprintf("<=%d", p.Max)
	case p.Max == math.MaxInt:
		return fmt.Sprintf(">=%d", p.Min)
	}
	return fmt.Sprintf("%d..%d", p.Min, p.Max)
}

// PredicateFunc adapts an arbitrary function. It is opaque to validation.
type PredicateFunc func(value int) bool

func (f PredicateFunc) Accept(value int) bool { return f(value) }

// DescribePredicate returns a short label for a predicate, used in graph exports and logs.
func DescribePredicate(p Predicate) string {
	if s, ok := p.(fmt.Stringer); ok {
		return s.String()
	}
	return "?"
}

// PredicatesOverlap reports whether two predicates provably accept a common value.
// Opaque predicates never overlap.
func PredicatesOverlap(a, b Predicate) bool {
	ba, ok := a.(Bounded)
	if !ok {
		return false
	}
	bb, ok := b.(Bounded)
	if !ok {
		return false
	}
	for _, x := range ba.Intervals() {
		for _, y := range bb.Intervals() {
			if x.Overlaps(y) {
				return true
			}
		}
	}
	return false
}
