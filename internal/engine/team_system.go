package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/algotycoon/server/internal/domain/dimension"
	"github.com/algotycoon/server/internal/domain/state"
	"github.com/algotycoon/server/internal/domain/team"
	"github.com/algotycoon/server/internal/random"
)

// candidateNamespace seeds the name-based UUIDs of generated candidates, so
// a replayed pool yields the same ids.
var candidateNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("algotycoon/team/candidate"))

// HirePayload records a hire for audit.
type HirePayload struct {
	MemberID   string      `json:"member_id"`
	Name       string      `json:"name"`
	Rarity     team.Rarity `json:"rarity"`
	HiringCost int         `json:"hiring_cost"`
}

// FirePayload records a dismissal for audit.
type FirePayload struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	Refund   int    `json:"refund"`
}

// LevelUp records a member crossing one or more levels.
type LevelUp struct {
	MemberID  string           `json:"member_id"`
	Name      string           `json:"name"`
	From      int              `json:"from"`
	To        int              `json:"to"`
	NewTraits []team.TraitType `json:"new_traits,omitempty"`
}

// Payroll is the outcome of a salary settlement.
type Payroll struct {
	TotalPaid    int           `json:"total_paid"`
	FiredMembers []team.Member `json:"fired_members,omitempty"`
}

// Bonuses is the aggregated, level-scaled contribution of every trait on the
// team.
type Bonuses struct {
	Dimensions    map[dimension.Key]float64 `json:"dimensions,omitempty"`
	AP            float64                   `json:"ap"`
	CostReduction float64                   `json:"cost_reduction"`
	DataBonus     float64                   `json:"data_bonus"`
}

// TeamBonuses sums each member's trait bonuses scaled by its level
// multiplier.
func TeamBonuses(members []team.Member) Bonuses {
	b := Bonuses{Dimensions: map[dimension.Key]float64{}}
	for _, m := range members {
		mult := team.LevelMultiplier(m.Level)
		for _, t := range m.Traits {
			cfg, ok := team.TraitConfigFor(t)
			if !ok {
				continue
			}
			for k, v := range cfg.Dimensions {
				b.Dimensions[k] += v * mult
			}
			b.AP += cfg.AP * mult
			b.CostReduction += cfg.CostReduction * mult
			b.DataBonus += cfg.DataBonus * mult
		}
	}
	return b
}

// TeamSystem generates candidates, manages the roster and settles payroll.
type TeamSystem struct {
	traitGainChance float64
}

// NewTeamSystem creates the team system. traitGainChance is the chance to
// learn a trait per even level crossed.
func NewTeamSystem(traitGainChance float64) *TeamSystem {
	return &TeamSystem{traitGainChance: traitGainChance}
}

// GenerateCandidate draws one candidate. Draw order: founder special,
// intern special, rarity, three stats, traits, name. A special hit stops
// drawing.
func (ts *TeamSystem) GenerateCandidate(rng random.Source, turn, slot int) team.Member {
	for _, sp := range team.Specials {
		if random.Chance(rng, sp.Probability) {
			return ts.special(sp, turn, slot)
		}
	}

	rarity := team.RollRarity(rng.Float64())
	cfg := team.RarityConfigFor(rarity)

	stats := team.Stats{
		Coding:        random.IntRange(rng, cfg.StatMin, cfg.StatMax),
		Research:      random.IntRange(rng, cfg.StatMin, cfg.StatMax),
		Communication: random.IntRange(rng, cfg.StatMin, cfg.StatMax),
	}

	remaining := append([]team.TraitType(nil), team.TraitTypes...)
	traits := make([]team.TraitType, 0, cfg.TraitSlots)
	for i := 0; i < cfg.TraitSlots && len(remaining) > 0; i++ {
		idx := random.Intn(rng, len(remaining))
		traits = append(traits, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	name := team.Names[random.Intn(rng, len(team.Names))]

	m := team.Member{
		Name:       name,
		Rarity:     rarity,
		BaseStats:  stats,
		Traits:     traits,
		Level:      1,
		HiringCost: cfg.HiringCost,
		Salary:     team.Salary(rarity, 1),
	}
	m.ID = candidateID(turn, slot, m)
	return m
}

func (ts *TeamSystem) special(sp team.Special, turn, slot int) team.Member {
	cfg := team.RarityConfigFor(sp.Rarity)
	m := team.Member{
		Name:        sp.Name,
		Rarity:      sp.Rarity,
		BaseStats:   sp.Stats,
		Traits:      append([]team.TraitType(nil), sp.Traits...),
		Level:       1,
		HiringCost:  cfg.HiringCost,
		Salary:      team.Salary(sp.Rarity, 1),
		IsSpecial:   true,
		SpecialType: sp.Type,
	}
	m.ID = candidateID(turn, slot, m)
	return m
}

func candidateID(turn, slot int, m team.Member) string {
	key := fmt.Sprintf("%d/%d/%s/%s/%d/%d/%d/%v",
		turn, slot, m.Rarity, m.Name,
		m.BaseStats.Coding, m.BaseStats.Research, m.BaseStats.Communication, m.Traits)
	return uuid.NewSHA1(candidateNamespace, []byte(key)).String()
}

// GeneratePool draws a fresh hiring pool of team.PoolSize candidates.
func (ts *TeamSystem) GeneratePool(rng random.Source, turn int) []team.Member {
	pool := make([]team.Member, 0, team.PoolSize)
	for slot := 0; slot < team.PoolSize; slot++ {
		pool = append(pool, ts.GenerateCandidate(rng, turn, slot))
	}
	return pool
}

// Hire moves a candidate from the pool to the team and charges its hiring
// cost.
func (ts *TeamSystem) Hire(s state.GameState, candidateID string) (state.GameState, HirePayload, error) {
	if len(s.Team) >= team.MaxSize {
		return s, HirePayload{}, fmt.Errorf("hire %s: %w", candidateID, team.ErrTeamFull)
	}
	idx := team.IndexOf(s.HiringPool, candidateID)
	if idx < 0 {
		return s, HirePayload{}, fmt.Errorf("hire %s: %w", candidateID, team.ErrCandidateNotFound)
	}
	candidate := s.HiringPool[idx]
	if s.Resources.Budget < candidate.HiringCost {
		return s, HirePayload{}, fmt.Errorf("hire %s: need %d, have %d: %w",
			candidateID, candidate.HiringCost, s.Resources.Budget, team.ErrInsufficientFunds)
	}

	out := s.Clone()
	out.Resources.Budget -= candidate.HiringCost
	out.HiringPool = append(out.HiringPool[:idx], out.HiringPool[idx+1:]...)
	out.Team = append(out.Team, candidate.Clone())

	return out, HirePayload{
		MemberID:   candidate.ID,
		Name:       candidate.Name,
		Rarity:     candidate.Rarity,
		HiringCost: candidate.HiringCost,
	}, nil
}

// Fire removes a member and refunds part of its hiring cost.
func (ts *TeamSystem) Fire(s state.GameState, memberID string) (state.GameState, FirePayload, error) {
	idx := team.IndexOf(s.Team, memberID)
	if idx < 0 {
		return s, FirePayload{}, fmt.Errorf("fire %s: %w", memberID, team.ErrMemberNotFound)
	}
	member := s.Team[idx]
	refund := member.FireRefund()

	out := s.Clone()
	out.Resources.Budget += refund
	out.Team = append(out.Team[:idx], out.Team[idx+1:]...)

	return out, FirePayload{MemberID: member.ID, Name: member.Name, Refund: refund}, nil
}

// AddExperience grants amount experience to m. Every even level crossed
// rolls once for a new trait while m is below the regular trait cap.
// Salary follows the new level.
func (ts *TeamSystem) AddExperience(m team.Member, amount int, rng random.Source) (team.Member, *LevelUp) {
	if amount <= 0 {
		return m, nil
	}
	m = m.Clone()
	from := m.Level
	m.Experience += amount
	to := team.LevelForExperience(m.Experience)
	if to <= from {
		return m, nil
	}

	up := &LevelUp{MemberID: m.ID, Name: m.Name, From: from, To: to}
	for lvl := from + 1; lvl <= to; lvl++ {
		if lvl%2 != 0 || len(m.Traits) >= team.MaxTraits {
			continue
		}
		if !random.Chance(rng, ts.traitGainChance) {
			continue
		}
		var unowned []team.TraitType
		for _, t := range team.TraitTypes {
			if !m.HasTrait(t) {
				unowned = append(unowned, t)
			}
		}
		if len(unowned) == 0 {
			continue
		}
		gained := unowned[random.Intn(rng, len(unowned))]
		m.Traits = append(m.Traits, gained)
		up.NewTraits = append(up.NewTraits, gained)
	}

	m.Level = to
	m.Salary = team.Salary(m.Rarity, to)
	return m, up
}

// GrantExperience gives every member amount experience, in roster order.
func (ts *TeamSystem) GrantExperience(s state.GameState, amount int, rng random.Source) (state.GameState, []LevelUp) {
	if amount <= 0 || len(s.Team) == 0 {
		return s, nil
	}
	out := s.Clone()
	var ups []LevelUp
	for i, m := range out.Team {
		updated, up := ts.AddExperience(m, amount, rng)
		out.Team[i] = updated
		if up != nil {
			ups = append(ups, *up)
		}
	}
	return out, ups
}

// PaySalaries settles payroll. If the budget cannot cover the total, a
// uniformly random member is fired and the total recomputed until the team
// is solvent or empty.
func (ts *TeamSystem) PaySalaries(s state.GameState, rng random.Source) (state.GameState, Payroll) {
	out := s.Clone()
	var payroll Payroll

	total := totalSalary(out.Team)
	for len(out.Team) > 0 && out.Resources.Budget < total {
		idx := random.Intn(rng, len(out.Team))
		payroll.FiredMembers = append(payroll.FiredMembers, out.Team[idx])
		out.Team = append(out.Team[:idx], out.Team[idx+1:]...)
		total = totalSalary(out.Team)
	}

	if len(out.Team) > 0 {
		out.Resources.Budget -= total
		payroll.TotalPaid = total
	}
	return out, payroll
}

func totalSalary(members []team.Member) int {
	total := 0
	for _, m := range members {
		total += m.Salary
	}
	return total
}
