// Package main runs seeded autopilot batches and reports how the balance
// holds up.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/algotycoon/server/internal/domain/state"
	"github.com/algotycoon/server/internal/engine"
	"github.com/algotycoon/server/internal/platform/config"
	"github.com/algotycoon/server/internal/platform/logger"
	"github.com/algotycoon/server/internal/sim"
)

var (
	runs           int
	baseSeed       int64
	archetype      string
	difficulty     string
	maxTurns       int
	workers        int
	balancePath    string
	minVictoryRate float64
	showRuns       bool
	verbose        bool
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

var rootCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play seeded autopilot games and summarise the outcomes",
	Long: `simulate plays --runs games with consecutive seeds starting at --seed.
The same flags always produce the same report. With --min-victory-rate the
command fails when fewer games are won.`,
	RunE: runSimulate,
}

func init() {
	f := rootCmd.Flags()
	f.IntVar(&runs, "runs", 100, "number of games")
	f.Int64Var(&baseSeed, "seed", 1, "seed of the first game")
	f.StringVar(&archetype, "archetype", string(state.ArchetypeStartup), "startup, bigtech or academic")
	f.StringVar(&difficulty, "difficulty", string(state.DifficultyNormal), "easy, normal, hard or nightmare")
	f.IntVar(&maxTurns, "max-turns", sim.DefaultMaxTurns, "turn limit per game")
	f.IntVar(&workers, "workers", 0, "concurrent games (0 uses the tuning profile)")
	f.StringVar(&balancePath, "balance", "", "balance YAML overlay")
	f.Float64Var(&minVictoryRate, "min-victory-rate", 0, "fail below this share of victories")
	f.BoolVar(&showRuns, "show-runs", false, "print one row per game")
	f.BoolVarP(&verbose, "verbose", "v", false, "log every finished game")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logger.New(level)
	if err != nil {
		return err
	}
	defer log.Sync()

	bal, err := config.LoadBalance(balancePath)
	if err != nil {
		return err
	}
	if workers <= 0 {
		workers = config.DefaultTuning().SimulationWorkers
	}

	ap := sim.New(engine.NewEngine(nil, log, bal), log)
	plans := sim.Plans(baseSeed, runs, state.Archetype(archetype), state.Difficulty(difficulty), maxTurns)
	results, err := ap.RunBatch(cmd.Context(), plans, workers)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showRuns {
		fmt.Fprintln(out, runTable(results))
	}
	summary := sim.Summarize(results)
	fmt.Fprintln(out, summaryTable(summary))

	if minVictoryRate > 0 {
		rate := summary.VictoryRate()
		if rate < minVictoryRate {
			fmt.Fprintln(out, failStyle.Render(fmt.Sprintf("FAIL victory rate %.1f%% < %.1f%%", rate*100, minVictoryRate*100)))
			return fmt.Errorf("victory rate %.3f below %.3f", rate, minVictoryRate)
		}
		fmt.Fprintln(out, passStyle.Render(fmt.Sprintf("PASS victory rate %.1f%%", rate*100)))
	}
	log.Debug("simulation finished", zap.Int("runs", summary.Runs))
	return nil
}

func styled(t *table.Table) *table.Table {
	return t.
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func runTable(results []sim.Result) *table.Table {
	t := styled(table.New()).Headers("seed", "status", "turns", "exams", "budget", "ops", "hires", "upgrades")
	for _, r := range results {
		t.Row(
			strconv.FormatInt(r.Seed, 10),
			string(r.Status),
			strconv.Itoa(r.Turns),
			strconv.Itoa(r.ExamsPassed),
			strconv.Itoa(r.Budget),
			strconv.Itoa(r.Operations),
			strconv.Itoa(r.Hires),
			strconv.Itoa(r.Upgrades),
		)
	}
	return t
}

func summaryTable(s sim.Summary) *table.Table {
	return styled(table.New()).
		Headers("metric", "value").
		Row("games", strconv.Itoa(s.Runs)).
		Row("archetype / difficulty", archetype+" / "+difficulty).
		Row("victories", strconv.Itoa(s.Victories)).
		Row("bankruptcies", strconv.Itoa(s.GameOvers)).
		Row("unfinished", strconv.Itoa(s.Unfinished)).
		Row("victory rate", fmt.Sprintf("%.1f%%", s.VictoryRate()*100)).
		Row("avg turns", fmt.Sprintf("%.1f", s.AvgTurns)).
		Row("avg exams passed", fmt.Sprintf("%.2f", s.AvgExams)).
		Row("avg budget", fmt.Sprintf("%.0f", s.AvgBudget)).
		Row("best / worst budget", fmt.Sprintf("%d / %d", s.BestBudget, s.WorstBudget))
}
