// Package worldevent holds the catalog of world events that hit the company
// between turns.
// This package is PURE and must NOT import any infrastructure packages.
package worldevent

import (
	"github.com/algotycoon/server/internal/domain/dimension"
	"github.com/algotycoon/server/internal/domain/effect"
	"github.com/algotycoon/server/internal/domain/state"
)

// Type classifies an event for the host.
type Type string

const (
	Positive Type = "positive"
	Negative Type = "negative"
	Neutral  Type = "neutral"
)

// TriggerName addresses a condition in the Triggers registry.
type TriggerName string

const (
	TriggerLegalRisk80 TriggerName = "legal_risk_80"
	TriggerLegalRisk50 TriggerName = "legal_risk_50"
	TriggerEntropy90   TriggerName = "entropy_90"
)

// Triggers maps every trigger name used by the catalog to its condition.
var Triggers = map[TriggerName]func(state.GameState) bool{
	TriggerLegalRisk80: func(s state.GameState) bool { return s.Risks.LegalRisk >= 80 },
	TriggerLegalRisk50: func(s state.GameState) bool { return s.Risks.LegalRisk >= 50 },
	TriggerEntropy90:   func(s state.GameState) bool { return s.Metrics.Entropy >= 90 },
}

// Event is an immutable catalog entry. Events with a Trigger are conditional
// and are never picked by the random roll.
type Event struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Type            Type          `json:"type"`
	Effects         effect.Bundle `json:"-"`
	Trigger         TriggerName   `json:"trigger,omitempty"`
	ResetsLegalRisk bool          `json:"resetsLegalRisk,omitempty"`
}

// IsConditional reports whether the event is gated by a trigger.
func (e Event) IsConditional() bool {
	return e.Trigger != ""
}

// Triggered evaluates the event's trigger against s. Unconditional events
// and unknown trigger names never fire.
func (e Event) Triggered(s state.GameState) bool {
	cond, ok := Triggers[e.Trigger]
	if !ok {
		return false
	}
	return cond(s)
}

var catalog = []Event{
	{
		ID: "legal_fine", Name: "Regulator Fine", Type: Negative,
		Description:     "The regulator has seen enough. Pay up and clean house.",
		Effects:         effect.Bundle{Budget: effect.Fixed(-3000), Reputation: -15},
		Trigger:         TriggerLegalRisk80,
		ResetsLegalRisk: true,
	},
	{
		ID: "legal_warning", Name: "Legal Warning", Type: Negative,
		Description: "A cease-and-desist letter lands on your desk.",
		Effects:     effect.Bundle{Reputation: -3},
		Trigger:     TriggerLegalRisk50,
	},
	{
		ID: "tech_debt_crisis", Name: "Tech Debt Crisis", Type: Negative,
		Description: "Nobody understands the codebase any more.",
		Effects:     effect.Bundle{Accuracy: -5, Robustness: -5, Reputation: -5},
		Trigger:     TriggerEntropy90,
	},

	{
		ID: "viral_moment", Name: "Viral Moment", Type: Positive,
		Description: "A recommendation goes viral for the right reasons.",
		Effects:     effect.Bundle{Reputation: 10, Dimensions: effect.Dim(dimension.UserExperience, 3)},
	},
	{
		ID: "investor_interest", Name: "Investor Interest", Type: Positive,
		Description: "An angel writes a small cheque.",
		Effects:     effect.Bundle{Budget: effect.Fixed(2000)},
	},
	{
		ID: "open_dataset_release", Name: "Open Dataset Release", Type: Positive,
		Description: "A large public dataset drops.",
		Effects:     effect.Bundle{GoldenData: 100},
	},
	{
		ID: "conference_award", Name: "Conference Award", Type: Positive,
		Description: "Best paper, somehow.",
		Effects:     effect.Bundle{Reputation: 5, Dimensions: effect.Dim(dimension.Algorithm, 3)},
	},
	{
		ID: "gpu_price_drop", Name: "GPU Price Drop", Type: Positive,
		Description: "Spot prices crater for a week.",
		Effects:     effect.Bundle{ComputePoints: 2},
	},
	{
		ID: "data_breach", Name: "Data Breach", Type: Negative,
		Description: "Someone left a bucket public.",
		Effects:     effect.Bundle{Reputation: -10, LegalRisk: 15, DirtyData: -200},
	},
	{
		ID: "server_outage", Name: "Server Outage", Type: Negative,
		Description: "The pager goes off at 3am.",
		Effects:     effect.Bundle{Budget: effect.Fixed(-500), Entropy: 10, Dimensions: effect.Dim(dimension.Stability, -3)},
	},
	{
		ID: "key_customer_churn", Name: "Key Customer Churn", Type: Negative,
		Description: "Your biggest client walks.",
		Effects:     effect.Bundle{Budget: effect.Fixed(-1000), Reputation: -5},
	},
	{
		ID: "competitor_launch", Name: "Competitor Launch", Type: Negative,
		Description: "A rival ships the feature you were about to.",
		Effects:     effect.Bundle{Reputation: -5, Dimensions: effect.Dim(dimension.UserExperience, -3)},
	},
	{
		ID: "algorithm_trend_shift", Name: "Trend Shift", Type: Neutral,
		Description: "User tastes move on overnight.",
		Effects:     effect.Bundle{Creativity: 3, Accuracy: -2},
	},
	{
		ID: "infra_migration", Name: "Cloud Migration", Type: Neutral,
		Description: "Your provider deprecates a region.",
		Effects:     effect.Bundle{Entropy: 5, Dimensions: effect.Dim(dimension.DataProcessing, 2)},
	},
	{
		ID: "intern_summer", Name: "Intern Summer", Type: Neutral,
		Description: "A batch of interns arrives full of ideas and bugs.",
		Effects:     effect.Bundle{Creativity: 2, Entropy: 3},
	},
}

// Conditional returns the trigger-gated events in priority order.
func Conditional() []Event {
	var out []Event
	for _, e := range catalog {
		if e.IsConditional() {
			out = append(out, e)
		}
	}
	return out
}

// RandomPool returns the events eligible for the random roll, in catalog
// order.
func RandomPool() []Event {
	var out []Event
	for _, e := range catalog {
		if !e.IsConditional() {
			out = append(out, e)
		}
	}
	return out
}

// ByID resolves an id against the catalog.
func ByID(id string) (Event, bool) {
	for _, e := range catalog {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}
