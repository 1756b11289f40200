// Package main is the entry point for the tycoon game server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/algotycoon/server/internal/engine"
	"github.com/algotycoon/server/internal/events"
	"github.com/algotycoon/server/internal/infra/storage"
	"github.com/algotycoon/server/internal/network"
	"github.com/algotycoon/server/internal/platform/config"
	"github.com/algotycoon/server/internal/platform/logger"
	"github.com/algotycoon/server/internal/platform/metrics"
	"github.com/algotycoon/server/internal/session"
)

const shutdownTimeout = 10 * time.Second

var (
	addrFlag    string
	dbFlag      string
	balanceFlag string
	profileFlag string
	levelFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "tycoon-server",
	Short: "Authoritative server for the recommendation algorithm tycoon",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve games over WebSocket and the ledger over HTTP",
	Long: `Serve hosts live games. Settings come from TYCOON_* environment
variables; flags override them.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (TYCOON_ADDR)")
	serveCmd.Flags().StringVar(&dbFlag, "db", "", "SQLite path, or :memory: (TYCOON_DB_PATH)")
	serveCmd.Flags().StringVar(&balanceFlag, "balance", "", "balance YAML overlay (TYCOON_BALANCE_PATH)")
	serveCmd.Flags().StringVar(&profileFlag, "profile", "", "tuning profile: default, stress or low (TYCOON_PROFILE)")
	serveCmd.Flags().StringVar(&levelFlag, "log-level", "", "debug, info, warn or error (TYCOON_LOG_LEVEL)")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Server, error) {
	cfg, err := config.LoadServer()
	if err != nil {
		return config.Server{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = addrFlag
	}
	if flags.Changed("db") {
		cfg.DBPath = dbFlag
	}
	if flags.Changed("balance") {
		cfg.BalancePath = balanceFlag
	}
	if flags.Changed("profile") {
		cfg.Profile = profileFlag
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = levelFlag
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	bal, err := config.LoadBalance(cfg.BalancePath)
	if err != nil {
		return err
	}
	tuning := config.TuningFor(cfg.Profile)

	appLogger.Info("initializing SQLite", zap.String("path", cfg.DBPath))
	db, err := storage.InitSQLite(cfg.DBPath, tuning)
	if err != nil {
		return fmt.Errorf("failed to initialize SQLite: %w", err)
	}
	defer db.Close()

	ledgerRepo := storage.NewSQLiteLedgerRepository(db)
	runRepo := storage.NewSQLiteRunRepository(db)
	eventLog := events.NewEventLog(storage.NewLedgerPersister(ledgerRepo, storage.DefaultWriteTimeout))

	collector := metrics.Get()
	gameEngine := engine.NewEngine(eventLog, appLogger, bal).WithMetrics(collector)

	sessions, err := session.NewManager(gameEngine, cfg.SessionCacheSize, appLogger, session.WithRuns(runRepo))
	if err != nil {
		return err
	}
	hub := network.NewHub(appLogger, tuning,
		network.WithHubMetrics(collector),
		network.WithActionInterval(cfg.ActionInterval),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", network.ServeWS(hub, sessions))
	network.NewLedgerHandler(eventLog, ledgerRepo, runRepo, appLogger).RegisterRoutes(mux)
	mux.HandleFunc("/metrics", collector.Handler())
	mux.HandleFunc("/metrics/prometheus", collector.PrometheusHandler())
	mux.HandleFunc("/healthz", healthz(db, sessions))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	hub.StartEventPoller(gctx, eventLog, network.DefaultPollInterval)
	g.Go(func() error {
		sessions.RunReaper(gctx, cfg.ReaperInterval, cfg.SessionIdleTTL)
		return nil
	})
	g.Go(func() error {
		appLogger.Info("server listening", zap.String("addr", cfg.Addr), zap.String("profile", cfg.Profile))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func healthz(db *sql.DB, sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","sessions":%d}`, sessions.Len())
	}
}
