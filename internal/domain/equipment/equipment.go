// Package equipment holds the static upgrade tables for the four hardware
// tracks. This package is PURE and must NOT import any infrastructure packages.
package equipment

// Type identifies an upgrade track.
type Type string

const (
	GPU     Type = "gpu"
	Storage Type = "storage"
	Network Type = "network"
	Cooling Type = "cooling"
)

// MinLevel and MaxLevel bound every track.
const (
	MinLevel = 1
	MaxLevel = 4
)

// MaxCompute caps computeMax no matter how many GPU upgrades are bought.
const MaxCompute = 10

// Types lists the tracks in display order.
var Types = []Type{GPU, Storage, Network, Cooling}

// Level is one row of a track's table.
//
// Effect is the one-off side effect applied when the level is reached:
// computeMax for gpu, dataCapacity for storage, speed for network and an
// entropy reduction for cooling.
type Level struct {
	Level       int     `json:"level"`
	Bonus       float64 `json:"bonus"`
	UpgradeCost int     `json:"upgradeCost"`
	Effect      int     `json:"effect"`
}

var tables = map[Type][MaxLevel]Level{
	GPU: {
		{Level: 1, Bonus: 0, UpgradeCost: 0},
		{Level: 2, Bonus: 0.10, UpgradeCost: 1500, Effect: 1},
		{Level: 3, Bonus: 0.20, UpgradeCost: 4000, Effect: 1},
		{Level: 4, Bonus: 0.35, UpgradeCost: 9000, Effect: 1},
	},
	Storage: {
		{Level: 1, Bonus: 0, UpgradeCost: 0},
		{Level: 2, Bonus: 0.10, UpgradeCost: 1000, Effect: 1000},
		{Level: 3, Bonus: 0.20, UpgradeCost: 3000, Effect: 2000},
		{Level: 4, Bonus: 0.30, UpgradeCost: 7000, Effect: 4000},
	},
	Network: {
		{Level: 1, Bonus: 0, UpgradeCost: 0},
		{Level: 2, Bonus: 0.05, UpgradeCost: 1200, Effect: 5},
		{Level: 3, Bonus: 0.10, UpgradeCost: 3500, Effect: 8},
		{Level: 4, Bonus: 0.20, UpgradeCost: 8000, Effect: 12},
	},
	Cooling: {
		{Level: 1, Bonus: 0, UpgradeCost: 0},
		{Level: 2, Bonus: 0.10, UpgradeCost: 1000, Effect: 10},
		{Level: 3, Bonus: 0.20, UpgradeCost: 3000, Effect: 15},
		{Level: 4, Bonus: 0.35, UpgradeCost: 6000, Effect: 20},
	},
}

// Lookup returns the table row for t at level. ok is false for unknown
// tracks or out-of-range levels.
func Lookup(t Type, level int) (Level, bool) {
	table, ok := tables[t]
	if !ok || level < MinLevel || level > MaxLevel {
		return Level{}, false
	}
	return table[level-1], true
}

// Bonus returns the bonus for t at level, or 0 when the lookup fails.
func Bonus(t Type, level int) float64 {
	l, ok := Lookup(t, level)
	if !ok {
		return 0
	}
	return l.Bonus
}

// Loadout is the current level of each track.
type Loadout struct {
	GPU     int `json:"gpu"`
	Storage int `json:"storage"`
	Network int `json:"network"`
	Cooling int `json:"cooling"`
}

// Default returns every track at level 1.
func Default() Loadout {
	return Loadout{GPU: MinLevel, Storage: MinLevel, Network: MinLevel, Cooling: MinLevel}
}

// LevelOf returns the current level of t.
func (l Loadout) LevelOf(t Type) int {
	switch t {
	case GPU:
		return l.GPU
	case Storage:
		return l.Storage
	case Network:
		return l.Network
	case Cooling:
		return l.Cooling
	}
	return 0
}

// WithLevel returns a copy of l with t set to level.
func (l Loadout) WithLevel(t Type, level int) Loadout {
	switch t {
	case GPU:
		l.GPU = level
	case Storage:
		l.Storage = level
	case Network:
		l.Network = level
	case Cooling:
		l.Cooling = level
	}
	return l
}

// BonusOf returns the active bonus of track t.
func (l Loadout) BonusOf(t Type) float64 {
	return Bonus(t, l.LevelOf(t))
}
