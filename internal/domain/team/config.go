package team

import "github.com/algotycoon/server/internal/domain/dimension"

// Rarity is the tier of a member.
type Rarity string

const (
	Common    Rarity = "common"
	Rare      Rarity = "rare"
	Epic      Rarity = "epic"
	Legendary Rarity = "legendary"
)

// Rarities lists tiers from most to least common.
var Rarities = []Rarity{Common, Rare, Epic, Legendary}

// RarityConfig drives generation and economics for a tier.
type RarityConfig struct {
	Rarity     Rarity
	StatMin    int
	StatMax    int
	TraitSlots int
	HiringCost int
	BaseSalary int
	// Cumulative is the upper bound of this tier in the rarity roll.
	Cumulative float64
}

// rarityTable is ordered legendary first: a draw below Cumulative selects
// the tier.
var rarityTable = []RarityConfig{
	{Rarity: Legendary, StatMin: 70, StatMax: 100, TraitSlots: 3, HiringCost: 6000, BaseSalary: 1000, Cumulative: 0.05},
	{Rarity: Epic, StatMin: 45, StatMax: 75, TraitSlots: 2, HiringCost: 3000, BaseSalary: 500, Cumulative: 0.20},
	{Rarity: Rare, StatMin: 25, StatMax: 50, TraitSlots: 1, HiringCost: 1200, BaseSalary: 250, Cumulative: 0.50},
	{Rarity: Common, StatMin: 10, StatMax: 30, TraitSlots: 0, HiringCost: 500, BaseSalary: 100, Cumulative: 1.0},
}

// RarityConfigFor returns the config row for r. Unknown tiers fall back to
// common.
func RarityConfigFor(r Rarity) RarityConfig {
	for _, c := range rarityTable {
		if c.Rarity == r {
			return c
		}
	}
	return rarityTable[len(rarityTable)-1]
}

// RollRarity maps one uniform draw onto the cumulative distribution.
func RollRarity(draw float64) Rarity {
	for _, c := range rarityTable {
		if draw < c.Cumulative {
			return c.Rarity
		}
	}
	return Common
}

// TraitType is a passive ability.
type TraitType string

const (
	TraitAlgorithmExpert TraitType = "algorithm_expert"
	TraitDataWizard      TraitType = "data_wizard"
	TraitStabilityGuru   TraitType = "stability_guru"
	TraitUXDesigner      TraitType = "ux_designer"
	TraitTester          TraitType = "tester"
	TraitWorkaholic      TraitType = "workaholic"
	TraitFrugal          TraitType = "frugal"
	TraitDataHoarder     TraitType = "data_hoarder"
	TraitVisionary       TraitType = "visionary"
)

// TraitTypes is the fixed trait pool, in sampling order.
var TraitTypes = []TraitType{
	TraitAlgorithmExpert,
	TraitDataWizard,
	TraitStabilityGuru,
	TraitUXDesigner,
	TraitTester,
	TraitWorkaholic,
	TraitFrugal,
	TraitDataHoarder,
	TraitVisionary,
}

// TraitConfig declares the bonuses a trait contributes at level 1.
//
// Dimensions are granted every turn, AP is extra compute per turn,
// CostReduction is a fraction off operation budget costs and DataBonus a
// fraction added to data gains.
type TraitConfig struct {
	Name          string
	Dimensions    map[dimension.Key]float64
	AP            float64
	CostReduction float64
	DataBonus     float64
}

var traitTable = map[TraitType]TraitConfig{
	TraitAlgorithmExpert: {Name: "Algorithm Expert", Dimensions: map[dimension.Key]float64{dimension.Algorithm: 2}},
	TraitDataWizard:      {Name: "Data Wizard", Dimensions: map[dimension.Key]float64{dimension.DataProcessing: 2}, DataBonus: 0.10},
	TraitStabilityGuru:   {Name: "Stability Guru", Dimensions: map[dimension.Key]float64{dimension.Stability: 2}},
	TraitUXDesigner:      {Name: "UX Designer", Dimensions: map[dimension.Key]float64{dimension.UserExperience: 2}},
	// The tester refund is rolled by the orchestrator against a balance value.
	TraitTester:      {Name: "Tester"},
	TraitWorkaholic:  {Name: "Workaholic", AP: 1},
	TraitFrugal:      {Name: "Frugal", CostReduction: 0.05},
	TraitDataHoarder: {Name: "Data Hoarder", DataBonus: 0.15},
	TraitVisionary:   {Name: "Visionary", Dimensions: map[dimension.Key]float64{dimension.Algorithm: 1, dimension.UserExperience: 1}},
}

// TraitConfigFor returns the declared bonuses of t.
func TraitConfigFor(t TraitType) (TraitConfig, bool) {
	c, ok := traitTable[t]
	return c, ok
}

// SpecialType tags an easter-egg character.
type SpecialType string

const (
	SpecialFounder SpecialType = "founder"
	SpecialIntern  SpecialType = "eternal_intern"
)

// Special is a fixed character that bypasses the rarity table.
type Special struct {
	Type        SpecialType
	Name        string
	Rarity      Rarity
	Probability float64
	Traits      []TraitType
	Stats       Stats
}

// Specials are checked in order before the rarity roll.
var Specials = []Special{
	{
		Type:        SpecialFounder,
		Name:        "Ada Lovecode",
		Rarity:      Legendary,
		Probability: 0.01,
		Traits:      []TraitType{TraitAlgorithmExpert, TraitDataWizard, TraitStabilityGuru, TraitUXDesigner, TraitVisionary},
		Stats:       Stats{Coding: 100, Research: 100, Communication: 90},
	},
	{
		Type:        SpecialIntern,
		Name:        "The Eternal Intern",
		Rarity:      Common,
		Probability: 0.02,
		Traits:      []TraitType{TraitTester, TraitWorkaholic, TraitFrugal, TraitDataHoarder},
		Stats:       Stats{Coding: 20, Research: 15, Communication: 60},
	},
}

// Names is the pool candidate names are drawn from.
var Names = []string{
	"Alex Chen", "Priya Raman", "Jonas Weber", "Mina Park", "Diego Alvarez",
	"Sara Lindqvist", "Kenji Mori", "Amara Okafor", "Luca Bianchi", "Noor Haddad",
	"Tomás Silva", "Yuki Tanaka", "Ivy Morgan", "Omar Farouk", "Lena Novak",
	"Ravi Patel",
}
