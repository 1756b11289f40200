// Package operation holds the static catalog of operations a player can run
// and the named predicates that gate them.
// This package is PURE and must NOT import any infrastructure packages.
package operation

import (
	"github.com/algotycoon/server/internal/domain/effect"
	"github.com/algotycoon/server/internal/domain/state"
)

// Category groups operations for the host.
type Category string

const (
	CategoryData           Category = "data"
	CategoryTraining       Category = "training"
	CategoryInfrastructure Category = "infrastructure"
	CategoryResearch       Category = "research"
	CategoryBusiness       Category = "business"
	CategorySideJob        Category = "side_job"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryData, CategoryTraining, CategoryInfrastructure,
	CategoryResearch, CategoryBusiness, CategorySideJob,
}

// Cost is what an operation consumes. Zero fields cost nothing.
type Cost struct {
	Budget        int `json:"budget,omitempty"`
	ComputePoints int `json:"computePoints"`
	DirtyData     int `json:"dirtyData,omitempty"`
	GoldenData    int `json:"goldenData,omitempty"`
}

// Gamble replaces the plain effect bundle with a success/failure pair.
type Gamble struct {
	SuccessRate float64
	Success     effect.Bundle
	Failure     effect.Bundle
}

// Operation is an immutable catalog entry.
type Operation struct {
	ID                      string
	Name                    string
	Description             string
	Category                Category
	Cost                    Cost
	Effects                 effect.Bundle
	Gamble                  *Gamble
	Predicate               PredicateName
	IsSideJob               bool
	RequiresDimensionChoice bool
}

// IsGamble reports whether the outcome is resolved by a success roll.
func (o Operation) IsGamble() bool {
	return o.Gamble != nil
}

// Allowed evaluates the operation's named predicate against s. An unknown
// predicate name never allows execution.
func (o Operation) Allowed(s state.GameState) bool {
	name := o.Predicate
	if name == "" {
		name = PredicateAlways
	}
	p, ok := Predicates[name]
	if !ok {
		return false
	}
	return p(s)
}

// ByID resolves an id against the catalog.
func ByID(id string) (Operation, bool) {
	for _, op := range catalog {
		if op.ID == id {
			return op, true
		}
	}
	return Operation{}, false
}

// ByCategory returns every operation in category c, in catalog order.
func ByCategory(c Category) []Operation {
	var out []Operation
	for _, op := range catalog {
		if op.Category == c {
			out = append(out, op)
		}
	}
	return out
}

// All returns a copy of the catalog.
func All() []Operation {
	return append([]Operation(nil), catalog...)
}
