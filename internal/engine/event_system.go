package engine

import (
	"github.com/algotycoon/server/internal/domain/state"
	"github.com/algotycoon/server/internal/domain/worldevent"
	"github.com/algotycoon/server/internal/random"
)

// WorldEventPayload records a world event for audit.
type WorldEventPayload struct {
	EventID     string          `json:"event_id"`
	Name        string          `json:"name"`
	Type        worldevent.Type `json:"type"`
	Conditional bool            `json:"conditional"`
	Applied     Applied         `json:"applied"`
}

// EventSystem picks and applies world events.
type EventSystem struct {
	chance float64
}

// NewEventSystem creates the event system. chance is the per-turn
// probability of a random event when no conditional event fires.
func NewEventSystem(chance float64) *EventSystem {
	return &EventSystem{chance: chance}
}

// Roll returns the event for this turn, or nil. Conditional events are
// checked in catalog order and win without consuming a draw; otherwise one
// draw decides whether a random event happens and a second picks it.
func (es *EventSystem) Roll(s state.GameState, rng random.Source) *worldevent.Event {
	for _, e := range worldevent.Conditional() {
		if e.Triggered(s) {
			ev := e
			return &ev
		}
	}

	if !random.Chance(rng, es.chance) {
		return nil
	}
	pool := worldevent.RandomPool()
	if len(pool) == 0 {
		return nil
	}
	ev := pool[random.Intn(rng, len(pool))]
	return &ev
}

// Apply applies ev's literal effects with the usual clamps.
func (es *EventSystem) Apply(s state.GameState, ev worldevent.Event, rng random.Source) (state.GameState, WorldEventPayload) {
	out, applied := applyBundle(s.Clone(), ev.Effects, rng, literalApply, "")
	if ev.ResetsLegalRisk {
		out.Risks.LegalRisk = 0
	}
	return out, WorldEventPayload{
		EventID:     ev.ID,
		Name:        ev.Name,
		Type:        ev.Type,
		Conditional: ev.IsConditional(),
		Applied:     applied,
	}
}
