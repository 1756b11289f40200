// Package exam defines the market-test scenarios and the result record
// produced when the model is put in front of real traffic.
// This package is PURE and must NOT import any infrastructure packages.
package exam

import (
	"github.com/algotycoon/server/internal/domain/dimension"
	"github.com/algotycoon/server/internal/domain/state"
)

// Scenario is a named traffic profile.
type Scenario struct {
	Name            string          `json:"name"`
	BaseTraffic     int             `json:"baseTraffic"`
	FocusDimensions []dimension.Key `json:"focusDimensions"`
}

// Scenarios is the fixed scenario table, drawn uniformly.
var Scenarios = []Scenario{
	{Name: "Flash Sale", BaseTraffic: 10000, FocusDimensions: []dimension.Key{dimension.UserExperience, dimension.Stability}},
	{Name: "Short Video Feed", BaseTraffic: 12000, FocusDimensions: []dimension.Key{dimension.Algorithm, dimension.UserExperience}},
	{Name: "News Aggregation", BaseTraffic: 8000, FocusDimensions: []dimension.Key{dimension.DataProcessing, dimension.Algorithm}},
	{Name: "Music Discovery", BaseTraffic: 9000, FocusDimensions: []dimension.Key{dimension.Algorithm}},
	{Name: "Ad Targeting", BaseTraffic: 11000, FocusDimensions: []dimension.Key{dimension.DataProcessing, dimension.Stability}},
	{Name: "Live Streaming Peak", BaseTraffic: 15000, FocusDimensions: []dimension.Key{dimension.Stability}},
}

// MultiFocusAfter is the number of passed exams after which a scenario may
// focus on two dimensions.
const MultiFocusAfter = 3

// Focus returns the focus dimensions in force for sc after examsPassed.
func (sc Scenario) Focus(examsPassed int) []dimension.Key {
	if len(sc.FocusDimensions) == 0 {
		return nil
	}
	n := 1
	if examsPassed >= MultiFocusAfter {
		n = len(sc.FocusDimensions)
		if n > 2 {
			n = 2
		}
	}
	return append([]dimension.Key(nil), sc.FocusDimensions[:n]...)
}

// ThresholdInfo explains the dimension gate outcome.
type ThresholdInfo struct {
	RequiredCount int `json:"requiredCount"`
	RequiredValue int `json:"requiredValue"`
	ActualCount   int `json:"actualCount"`
}

// Met reports whether enough dimensions cleared the bar.
func (t ThresholdInfo) Met() bool {
	return t.ActualCount >= t.RequiredCount
}

// Result is the full scoring record of one exam.
type Result struct {
	Scenario             string           `json:"scenario"`
	AdjustedTraffic      int              `json:"adjustedTraffic"`
	FitScoreMultiplier   float64          `json:"fitScoreMultiplier"`
	StabilityCoefficient float64          `json:"stabilityCoefficient"`
	DimensionBonus       float64          `json:"dimensionBonus"`
	FocusDimensions      []dimension.Key  `json:"focusDimensions"`
	Difficulty           state.Difficulty `json:"difficulty"`
	RewardMultiplier     float64          `json:"rewardMultiplier"`
	ReputationBonus      float64          `json:"reputationBonus"`
	FinalReward          int              `json:"finalReward"`
	Passed               bool             `json:"passed"`
	MeetsThreshold       bool             `json:"meetsThreshold"`
	Threshold            ThresholdInfo    `json:"thresholdInfo"`
}
