package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/algotycoon/server/internal/domain/state"
)

// Plans returns n plans with consecutive seeds starting at baseSeed.
func Plans(baseSeed int64, n int, a state.Archetype, d state.Difficulty, maxTurns int) []Plan {
	plans := make([]Plan, n)
	for i := range plans {
		plans[i] = Plan{Seed: baseSeed + int64(i), Archetype: a, Difficulty: d, MaxTurns: maxTurns}
	}
	return plans
}

// RunBatch runs plans on at most workers goroutines. Results keep the order
// of plans. The first error cancels the remaining runs.
func (a *Autopilot) RunBatch(ctx context.Context, plans []Plan, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]Result, len(plans))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, plan := range plans {
		i, plan := i, plan
		g.Go(func() error {
			res, err := a.Run(ctx, plan)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summary aggregates a batch.
type Summary struct {
	Runs        int
	Victories   int
	GameOvers   int
	Unfinished  int
	AvgTurns    float64
	AvgExams    float64
	AvgBudget   float64
	BestBudget  int
	WorstBudget int
}

// VictoryRate is the share of runs won.
func (s Summary) VictoryRate() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.Victories) / float64(s.Runs)
}

// Summarize aggregates results.
func Summarize(results []Result) Summary {
	sum := Summary{Runs: len(results)}
	if len(results) == 0 {
		return sum
	}
	var turns, exams, budget int
	for i, r := range results {
		switch r.Status {
		case state.StatusVictory:
			sum.Victories++
		case state.StatusGameOver:
			sum.GameOvers++
		default:
			sum.Unfinished++
		}
		turns += r.Turns
		exams += r.ExamsPassed
		budget += r.Budget
		if i == 0 || r.Budget > sum.BestBudget {
			sum.BestBudget = r.Budget
		}
		if i == 0 || r.Budget < sum.WorstBudget {
			sum.WorstBudget = r.Budget
		}
	}
	n := float64(len(results))
	sum.AvgTurns = float64(turns) / n
	sum.AvgExams = float64(exams) / n
	sum.AvgBudget = float64(budget) / n
	return sum
}
