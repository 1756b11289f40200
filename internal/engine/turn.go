package engine

import (
	"fmt"
	"time"

	"github.com/algotycoon/server/internal/domain/dimension"
	"github.com/algotycoon/server/internal/domain/equipment"
	"github.com/algotycoon/server/internal/domain/exam"
	"github.com/algotycoon/server/internal/domain/rules"
	"github.com/algotycoon/server/internal/domain/state"
	"github.com/algotycoon/server/internal/domain/worldevent"
	"github.com/algotycoon/server/internal/events"
	"github.com/algotycoon/server/internal/random"
)

// TurnPayload records a turn boundary for audit.
type TurnPayload struct {
	Turn           int  `json:"turn"`
	TurnsUntilExam int  `json:"turns_until_exam"`
	ShouldExam     bool `json:"should_exam,omitempty"`
	BonusCompute   int  `json:"bonus_compute,omitempty"`
}

// MeltdownPayload records a server meltdown for audit.
type MeltdownPayload struct {
	Entropy    int     `json:"entropy"`
	Chance     float64 `json:"chance"`
	RepairCost int     `json:"repair_cost"`
}

// GameOverPayload records the terminal transition.
type GameOverPayload struct {
	Status      state.Status `json:"status"`
	Reason      string       `json:"reason,omitempty"`
	ExamsPassed int          `json:"exams_passed"`
	Budget      int          `json:"budget"`
}

// TurnReport summarises one full turn boundary.
type TurnReport struct {
	Turn     int                `json:"turn"`
	Exam     *ExamReport        `json:"exam,omitempty"`
	Meltdown bool               `json:"meltdown"`
	Event    *WorldEventPayload `json:"event,omitempty"`
	Status   state.Status       `json:"status"`
}

// AdvanceTurn runs a whole turn boundary in the mandated order: EndTurn,
// TriggerExam when due, StartTurn, TriggerEvent, CheckGameOver. A terminal
// state is returned unchanged.
func (e *Engine) AdvanceTurn(s state.GameState, rng random.Source) (state.GameState, TurnReport) {
	if s.IsTerminal() {
		return s, TurnReport{Turn: s.Progress.Turn, Status: s.GameStatus}
	}
	start := time.Now()

	s, shouldExam := e.EndTurn(s)
	var report TurnReport
	if shouldExam {
		var xr ExamReport
		s, xr = e.TriggerExam(s, rng)
		report.Exam = &xr
	}

	s = e.StartTurn(s, rng)
	report.Meltdown = s.Risks.ServerMeltdown

	s, report.Event = e.TriggerEvent(s, rng)
	s = e.CheckGameOver(s)

	report.Turn = s.Progress.Turn
	report.Status = s.GameStatus
	if e.metrics != nil {
		e.metrics.RecordTurn(time.Since(start))
	}
	return s, report
}

// EndTurn closes the current turn. shouldExam is decided by the turn being
// closed, before the increment.
func (e *Engine) EndTurn(s state.GameState) (state.GameState, bool) {
	if s.IsTerminal() {
		return s, false
	}
	shouldExam := s.Progress.Turn%state.ExamInterval == 0

	out := s.Clone()
	out.Progress.Turn++
	out.Progress.TurnsUntilExam = state.TurnsUntilExam(out.Progress.Turn)
	out.Risks.ServerMeltdown = false
	out.Resources.ComputePoints = out.Resources.ComputeMax

	e.record(out, events.EventTypeTurnEnded, events.SystemActor, "", TurnPayload{
		Turn:           out.Progress.Turn,
		TurnsUntilExam: out.Progress.TurnsUntilExam,
		ShouldExam:     shouldExam,
	})
	return out, shouldExam
}

// TriggerExam scores an exam, settles it, then settles payroll. A pass
// increments examsPassed and grants the team experience.
func (e *Engine) TriggerExam(s state.GameState, rng random.Source) (state.GameState, ExamReport) {
	result := e.examSystem.Score(s, rng)
	return e.settleExam(s, result, rng)
}

// TriggerExamScenario is TriggerExam with a fixed scenario.
func (e *Engine) TriggerExamScenario(s state.GameState, sc exam.Scenario, rng random.Source) (state.GameState, ExamReport) {
	return e.settleExam(s, e.examSystem.ScoreScenario(s, sc), rng)
}

func (e *Engine) settleExam(s state.GameState, result exam.Result, rng random.Source) (state.GameState, ExamReport) {
	out, report := e.examSystem.Settle(s, result)

	out, report.Payroll = e.teamSystem.PaySalaries(out, rng)

	if result.Passed {
		out.Progress.ExamsPassed++
		out, report.LevelUps = e.teamSystem.GrantExperience(out, e.balance.ExpPerExamPassed, rng)
	}

	if e.metrics != nil {
		e.metrics.RecordExam(result.Passed)
	}
	e.record(out, events.EventTypeExamCompleted, events.SystemActor, result.Scenario, report)
	e.record(out, events.EventTypePayrollSettled, events.SystemActor, "", report.Payroll)
	for _, m := range report.Payroll.FiredMembers {
		e.record(out, events.EventTypeMemberFired, events.SystemActor, m.ID, FirePayload{MemberID: m.ID, Name: m.Name})
	}
	for _, up := range report.LevelUps {
		e.record(out, events.EventTypeMemberLevelUp, events.SystemActor, up.MemberID, up)
	}
	return out, report
}

// StartTurn opens the new turn: resets the side-job counter, rolls for a
// meltdown when entropy is past the danger line, refreshes the hiring pool
// and applies the team's per-turn bonuses. Draw order: meltdown roll (only
// when entropy qualifies), then the pool.
func (e *Engine) StartTurn(s state.GameState, rng random.Source) state.GameState {
	if s.IsTerminal() {
		return s
	}
	out := s.Clone()
	out.Progress.SideJobsThisTurn = 0

	if out.Metrics.Entropy > e.balance.MeltdownEntropyThreshold {
		chance := rules.MeltdownChance(out.Equipment.BonusOf(equipment.Cooling))
		if random.Chance(rng, chance) {
			out.Resources.Budget -= e.balance.MeltdownRepairCost
			out.Risks.ServerMeltdown = true
			if e.metrics != nil {
				e.metrics.RecordMeltdown()
			}
			e.record(out, events.EventTypeMeltdown, events.SystemActor, "", MeltdownPayload{
				Entropy:    out.Metrics.Entropy,
				Chance:     chance,
				RepairCost: e.balance.MeltdownRepairCost,
			})
		}
	}

	out.HiringPool = e.teamSystem.GeneratePool(rng, out.Progress.Turn)

	bonuses := TeamBonuses(out.Team)
	bonusCompute := rules.Floor(bonuses.AP)
	out.Resources.ComputePoints += bonusCompute
	for _, k := range dimension.All {
		if d := rules.Floor(bonuses.Dimensions[k]); d > 0 {
			out.Dimensions = out.Dimensions.Add(k, d)
		}
	}
	out = out.Normalize()

	e.record(out, events.EventTypeTurnStarted, events.SystemActor, "", TurnPayload{
		Turn:           out.Progress.Turn,
		TurnsUntilExam: out.Progress.TurnsUntilExam,
		BonusCompute:   bonusCompute,
	})
	return out
}

// TriggerEvent rolls and applies this turn's world event, if any.
func (e *Engine) TriggerEvent(s state.GameState, rng random.Source) (state.GameState, *WorldEventPayload) {
	if s.IsTerminal() {
		return s, nil
	}
	ev := e.eventSystem.Roll(s, rng)
	if ev == nil {
		return s, nil
	}
	return e.ApplyEvent(s, *ev, rng)
}

// ApplyEvent applies a specific world event.
func (e *Engine) ApplyEvent(s state.GameState, ev worldevent.Event, rng random.Source) (state.GameState, *WorldEventPayload) {
	out, payload := e.eventSystem.Apply(s, ev, rng)
	e.record(out, events.EventTypeWorldEvent, events.SystemActor, ev.ID, payload)
	return out, &payload
}

// CheckGameOver tracks consecutive negative-budget turns and ends the game on
// bankruptcy or on reaching the victory exam count.
func (e *Engine) CheckGameOver(s state.GameState) state.GameState {
	if s.IsTerminal() {
		return s
	}
	out := s.Clone()
	if out.Resources.Budget < 0 {
		out.Progress.ConsecutiveNegativeBudget++
	} else {
		out.Progress.ConsecutiveNegativeBudget = 0
	}

	switch {
	case out.Progress.ConsecutiveNegativeBudget >= e.balance.BankruptcyTurns:
		out.GameStatus = state.StatusGameOver
		out.GameOverReason = BankruptcyReason(e.balance.BankruptcyTurns)
	case out.Progress.ExamsPassed >= e.balance.VictoryExams:
		out.GameStatus = state.StatusVictory
	default:
		return out
	}

	if e.metrics != nil {
		e.metrics.RecordGameEnded(out.GameStatus == state.StatusVictory)
	}
	t := events.EventTypeGameOver
	if out.GameStatus == state.StatusVictory {
		t = events.EventTypeVictory
	}
	e.record(out, t, events.SystemActor, "", GameOverPayload{
		Status:      out.GameStatus,
		Reason:      out.GameOverReason,
		ExamsPassed: out.Progress.ExamsPassed,
		Budget:      out.Resources.Budget,
	})
	return out
}

// BankruptcyReason is the game-over reason after turns negative checks.
func BankruptcyReason(turns int) string {
	return fmt.Sprintf("Bankrupt: budget stayed negative for %d consecutive turns", turns)
}
