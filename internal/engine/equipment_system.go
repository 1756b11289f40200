package engine

import (
	"github.com/algotycoon/server/internal/domain/equipment"
	"github.com/algotycoon/server/internal/domain/state"
)

// UpgradePayload records an equipment purchase for audit.
type UpgradePayload struct {
	Equipment     equipment.Type `json:"equipment"`
	PreviousLevel int            `json:"previous_level"`
	NewLevel      int            `json:"new_level"`
	Cost          int            `json:"cost"`
	Effect        int            `json:"effect"`
}

// EquipmentSystem buys hardware upgrades.
type EquipmentSystem struct{}

// NewEquipmentSystem creates the equipment system.
func NewEquipmentSystem() *EquipmentSystem {
	return &EquipmentSystem{}
}

// NextLevel returns the row the track would reach on upgrade. ok is false at
// the top level or for unknown tracks.
func (es *EquipmentSystem) NextLevel(s state.GameState, t equipment.Type) (equipment.Level, bool) {
	return equipment.Lookup(t, s.Equipment.LevelOf(t)+1)
}

// CanUpgrade reports whether t is below the top level and affordable.
func (es *EquipmentSystem) CanUpgrade(s state.GameState, t equipment.Type) bool {
	next, ok := es.NextLevel(s, t)
	if !ok {
		return false
	}
	return s.Resources.Budget >= next.UpgradeCost
}

// Upgrade buys the next level of t and applies its side effect. The state is
// returned unchanged when CanUpgrade is false.
func (es *EquipmentSystem) Upgrade(s state.GameState, t equipment.Type) (state.GameState, UpgradePayload, bool) {
	if !es.CanUpgrade(s, t) {
		return s, UpgradePayload{}, false
	}
	next, _ := es.NextLevel(s, t)

	out := s.Clone()
	payload := UpgradePayload{
		Equipment:     t,
		PreviousLevel: s.Equipment.LevelOf(t),
		NewLevel:      next.Level,
		Cost:          next.UpgradeCost,
		Effect:        next.Effect,
	}

	out.Resources.Budget -= next.UpgradeCost
	out.Equipment = out.Equipment.WithLevel(t, next.Level)

	switch t {
	case equipment.GPU:
		out.Resources.ComputeMax += next.Effect
	case equipment.Storage:
		out.Resources.DataCapacity += next.Effect
	case equipment.Network:
		out.Metrics.Speed += next.Effect
	case equipment.Cooling:
		out.Metrics.Entropy -= next.Effect
	}

	return out.Normalize(), payload, true
}
