// Package team defines the hired-staff entities of the company.
// This package is PURE and must NOT import any infrastructure packages.
package team

import "errors"

// MaxSize caps how many members can be on the team at once.
const MaxSize = 5

// PoolSize is the number of candidates offered every turn.
const PoolSize = 3

// MaxTraits caps the traits of a regular member. Special characters may carry
// up to MaxSpecialTraits fixed traits.
const (
	MaxTraits        = 3
	MaxSpecialTraits = 5
)

// MaxLevel is the level ceiling.
const MaxLevel = 10

// FireRefundPercent is the share of the hiring cost returned when firing.
const FireRefundPercent = 30

var (
	ErrTeamFull          = errors.New("team is full")
	ErrCandidateNotFound = errors.New("candidate not found in hiring pool")
	ErrMemberNotFound    = errors.New("member not found on team")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Stats are the three base stat axes rolled at generation.
type Stats struct {
	Coding        int `json:"coding"`
	Research      int `json:"research"`
	Communication int `json:"communication"`
}

// Member is a hired team member or a hiring-pool candidate.
type Member struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Rarity      Rarity      `json:"rarity"`
	BaseStats   Stats       `json:"baseStats"`
	Traits      []TraitType `json:"traits"`
	Level       int         `json:"level"`
	Experience  int         `json:"experience"`
	HiringCost  int         `json:"hiringCost"`
	Salary      int         `json:"salary"`
	IsSpecial   bool        `json:"isSpecial,omitempty"`
	SpecialType SpecialType `json:"specialType,omitempty"`
}

// Clone returns a deep copy of m.
func (m Member) Clone() Member {
	m.Traits = append([]TraitType(nil), m.Traits...)
	return m
}

// HasTrait reports whether the member owns trait.
func (m Member) HasTrait(trait TraitType) bool {
	for _, t := range m.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// TraitCap is the maximum number of traits m may hold.
func (m Member) TraitCap() int {
	if m.IsSpecial {
		return MaxSpecialTraits
	}
	return MaxTraits
}

// FireRefund is the amount returned when m is fired.
func (m Member) FireRefund() int {
	return m.HiringCost * FireRefundPercent / 100
}

// ExpPerLevel holds the cumulative experience needed for levels 1..10.
var ExpPerLevel = [MaxLevel]int{0, 100, 250, 450, 700, 1000, 1400, 1900, 2500, 3200}

// LevelForExperience returns the highest level whose threshold exp reaches.
func LevelForExperience(exp int) int {
	level := 1
	for i, threshold := range ExpPerLevel {
		if exp >= threshold {
			level = i + 1
		}
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return level
}

// Salary computes the per-settlement salary for a rarity at a level: the
// base salary plus 10% per level above 1, floored.
func Salary(r Rarity, level int) int {
	if level < 1 {
		level = 1
	}
	return RarityConfigFor(r).BaseSalary * (10 + level - 1) / 10
}

// LevelMultiplier scales trait bonuses with level.
func LevelMultiplier(level int) float64 {
	if level < 1 {
		level = 1
	}
	return 1 + float64(level-1)*0.08
}

// Clones deep-copies a member slice.
func Clones(members []Member) []Member {
	if members == nil {
		return nil
	}
	out := make([]Member, len(members))
	for i, m := range members {
		out[i] = m.Clone()
	}
	return out
}

// IndexOf returns the index of the member with id, or -1.
func IndexOf(members []Member, id string) int {
	for i, m := range members {
		if m.ID == id {
			return i
		}
	}
	return -1
}
