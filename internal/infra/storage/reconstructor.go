package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/algotycoon/server/internal/events"
)

// Impact classes for recap lines.
const (
	ImpactPositive = "POSITIVE"
	ImpactNegative = "NEGATIVE"
	ImpactNeutral  = "NEUTRAL"
)

// Reconstructor rebuilds a readable history of a run from the persisted
// ledger. It is used when a player rejoins a game and for auditing.
type Reconstructor struct {
	ledger LedgerRepository
}

// NewReconstructor creates a new recap builder.
func NewReconstructor(ledger LedgerRepository) *Reconstructor {
	return &Reconstructor{ledger: ledger}
}

// RecapEvent is a simplified ledger entry for the recap screen.
type RecapEvent struct {
	Turn      int    `json:"turn"`
	Timestamp string `json:"timestamp"`
	EventType string `json:"event_type"`
	Summary   string `json:"summary"`
	Impact    string `json:"impact"`
}

// recapPayload holds the payload fields recap lines read. Each ledger type
// fills a different subset.
type recapPayload struct {
	OperationID string `json:"operation_id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Equipment   string `json:"equipment"`
	NewLevel    int    `json:"new_level"`
	To          int    `json:"to"`
	Refund      int    `json:"refund"`
	TotalPaid   int    `json:"total_paid"`
	RepairCost  int    `json:"repair_cost"`
	Reason      string `json:"reason"`
	Credited    int    `json:"credited"`
	Result      struct {
		Scenario string `json:"scenario"`
		Passed   bool   `json:"passed"`
	} `json:"result"`
}

// Recap returns the recap lines of gameID from sinceTurn onwards. Turn
// boundary entries are skipped.
func (r *Reconstructor) Recap(ctx context.Context, gameID string, sinceTurn int) ([]RecapEvent, error) {
	entries, err := r.ledger.GetByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger for recap: %w", err)
	}

	var recap []RecapEvent
	for _, e := range entries {
		if e.Turn < sinceTurn {
			continue
		}
		t := events.EventType(e.EventType)
		if t == events.EventTypeTurnStarted || t == events.EventTypeTurnEnded {
			continue
		}

		var p recapPayload
		_ = json.Unmarshal(e.Payload, &p)

		recap = append(recap, RecapEvent{
			Turn:      e.Turn,
			Timestamp: e.Timestamp.Format("15:04:05"),
			EventType: e.EventType,
			Summary:   summarize(t, e, p),
			Impact:    impactOf(t, p),
		})
	}
	return recap, nil
}

// summarize creates a human-readable summary.
func summarize(t events.EventType, e LedgerEntry, p recapPayload) string {
	switch t {
	case events.EventTypeGameStarted:
		return fmt.Sprintf("Founded a %s company.", e.TargetID)
	case events.EventTypeOperationExecuted:
		return fmt.Sprintf("Ran %s.", e.TargetID)
	case events.EventTypeOperationRejected:
		return fmt.Sprintf("Could not run %s.", e.TargetID)
	case events.EventTypeEquipmentUpgraded:
		return fmt.Sprintf("Upgraded %s to level %d.", p.Equipment, p.NewLevel)
	case events.EventTypeMemberHired:
		return fmt.Sprintf("Hired %s.", p.Name)
	case events.EventTypeMemberFired:
		if p.Refund > 0 {
			return fmt.Sprintf("Let %s go, recovering %d.", p.Name, p.Refund)
		}
		return fmt.Sprintf("%s left the company.", p.Name)
	case events.EventTypeMemberLevelUp:
		return fmt.Sprintf("%s reached level %d.", p.Name, p.To)
	case events.EventTypePayrollSettled:
		return fmt.Sprintf("Paid %d in salaries.", p.TotalPaid)
	case events.EventTypeExamCompleted:
		if p.Result.Passed {
			return fmt.Sprintf("Passed the %s exam and earned %d.", p.Result.Scenario, p.Credited)
		}
		return fmt.Sprintf("Failed the %s exam.", p.Result.Scenario)
	case events.EventTypeWorldEvent:
		return p.Name + "."
	case events.EventTypeMeltdown:
		return fmt.Sprintf("Servers melted down; repairs cost %d.", p.RepairCost)
	case events.EventTypeGameOver:
		return p.Reason
	case events.EventTypeVictory:
		return "Won the market."
	default:
		return "Something happened."
	}
}

// impactOf classifies the entry's impact on the player.
func impactOf(t events.EventType, p recapPayload) string {
	switch t {
	case events.EventTypeMeltdown, events.EventTypeGameOver:
		return ImpactNegative
	case events.EventTypeVictory, events.EventTypeMemberLevelUp:
		return ImpactPositive
	case events.EventTypeExamCompleted:
		if p.Result.Passed {
			return ImpactPositive
		}
		return ImpactNegative
	case events.EventTypeWorldEvent:
		switch p.Type {
		case "positive":
			return ImpactPositive
		case "negative":
			return ImpactNegative
		}
	}
	return ImpactNeutral
}
