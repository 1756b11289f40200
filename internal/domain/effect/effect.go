// Package effect describes the literal and randomized effect bundles applied
// by operations and world events.
// This package is PURE and must NOT import any infrastructure packages.
package effect

import "github.com/algotycoon/server/internal/domain/dimension"

type amountKind int

const (
	amountNone amountKind = iota
	amountFixed
	amountRange
)

// Amount is either a literal value or a uniform integer range.
type Amount struct {
	kind     amountKind
	value    int
	min, max int
}

// Fixed is a literal amount.
func Fixed(v int) Amount {
	return Amount{kind: amountFixed, value: v}
}

// Range is an amount drawn uniformly from [min,max] when applied.
func Range(min, max int) Amount {
	if max < min {
		min, max = max, min
	}
	return Amount{kind: amountRange, min: min, max: max}
}

// IsZero reports whether the amount was never set.
func (a Amount) IsZero() bool { return a.kind == amountNone }

// IsRange reports whether the amount needs a random draw.
func (a Amount) IsRange() bool { return a.kind == amountRange }

// Value returns the literal value. It is 0 for ranges and unset amounts.
func (a Amount) Value() int {
	if a.kind != amountFixed {
		return 0
	}
	return a.value
}

// Bounds returns the inclusive bounds. For a literal both bounds are the value.
func (a Amount) Bounds() (int, int) {
	switch a.kind {
	case amountRange:
		return a.min, a.max
	case amountFixed:
		return a.value, a.value
	}
	return 0, 0
}

// RandomDimensions applies Amount to Count distinct dimensions picked at random.
type RandomDimensions struct {
	Count  int `json:"count"`
	Amount int `json:"amount"`
}

// Bundle is the set of changes produced by one operation outcome or event.
// Zero fields mean "no change".
type Bundle struct {
	Budget        Amount
	ComputePoints int
	DirtyData     int
	GoldenData    int

	Accuracy   int
	Speed      int
	Creativity int
	Robustness int
	Entropy    int

	FitScoreCap int
	LegalRisk   int
	Reputation  int

	Dimensions       map[dimension.Key]int
	RandomDimensions *RandomDimensions

	// ChosenDimension is applied to the dimension picked by the host for
	// operations that require a dimension choice.
	ChosenDimension int
}

// Dim is a single-dimension delta for literal bundles. Bundles touching
// several dimensions use a map literal.
func Dim(k dimension.Key, delta int) map[dimension.Key]int {
	return map[dimension.Key]int{k: delta}
}
