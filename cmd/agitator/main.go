// Package main - agitator
// Load generator: many concurrent players each start a game and spam actions
// against a running server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/algotycoon/server/internal/domain/dimension"
	"github.com/algotycoon/server/internal/domain/equipment"
	"github.com/algotycoon/server/internal/domain/operation"
	"github.com/algotycoon/server/internal/network"
	"github.com/algotycoon/server/internal/session"
)

// Config for the agitator
type Config struct {
	ServerURL      string
	NumClients     int
	ActionInterval time.Duration
	TestDuration   time.Duration
	Difficulty     string
	OutputPath     string
}

// Stats tracks performance metrics
type Stats struct {
	MessagesSent     int64
	MessagesReceived int64
	Errors           int64
	Rejections       int64
	GamesEnded       int64
	Latencies        []time.Duration
	mu               sync.Mutex
}

var cfg Config

var rootCmd = &cobra.Command{
	Use:   "agitator",
	Short: "WebSocket load generator for the tycoon server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.TestDuration)
		defer cancel()
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()

		fmt.Println("=========================================")
		fmt.Println("AGITATOR - Stress Test Tool")
		fmt.Println("=========================================")
		fmt.Printf("Server: %s\n", cfg.ServerURL)
		fmt.Printf("Clients: %d\n", cfg.NumClients)
		fmt.Printf("Interval: %v\n", cfg.ActionInterval)
		fmt.Printf("Duration: %v\n", cfg.TestDuration)
		fmt.Println("=========================================")

		stats := runStressTest(ctx, cfg)
		return printResults(stats, cfg)
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&cfg.ServerURL, "url", "ws://localhost:8080/ws", "WebSocket server URL")
	f.IntVar(&cfg.NumClients, "clients", 50, "Number of concurrent clients")
	f.DurationVar(&cfg.ActionInterval, "interval", 150*time.Millisecond, "Action interval per client")
	f.DurationVar(&cfg.TestDuration, "duration", 60*time.Second, "Test duration")
	f.StringVar(&cfg.Difficulty, "difficulty", "normal", "Difficulty of the games the clients start")
	f.StringVar(&cfg.OutputPath, "out", "stress_test_results.json", "Where to write the JSON report")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runStressTest(ctx context.Context, config Config) *Stats {
	stats := &Stats{
		Latencies: make([]time.Duration, 0, 10000),
	}

	var wg sync.WaitGroup

	fmt.Println("\nStarting clients...")

	for i := 0; i < config.NumClients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			runClient(ctx, clientID, config, stats)
		}(i)

		// Stagger client starts to avoid thundering herd
		time.Sleep(10 * time.Millisecond)
	}

	fmt.Printf("All %d clients started\n\n", config.NumClients)

	// Progress updates
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sent := atomic.LoadInt64(&stats.MessagesSent)
				recv := atomic.LoadInt64(&stats.MessagesReceived)
				errs := atomic.LoadInt64(&stats.Errors)
				fmt.Printf("Progress: Sent=%d Recv=%d Errors=%d\n", sent, recv, errs)
			}
		}
	}()

	wg.Wait()
	return stats
}

// player is the client's view of its game, updated from STATE replies.
type player struct {
	mu         sync.Mutex
	gameID     string
	candidates []string
	team       []string
	ended      bool
}

func (p *player) update(snap *session.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gameID = snap.GameID
	p.candidates = p.candidates[:0]
	for _, c := range snap.State.HiringPool {
		p.candidates = append(p.candidates, c.ID)
	}
	p.team = p.team[:0]
	for _, m := range snap.State.Team {
		p.team = append(p.team, m.ID)
	}
	p.ended = snap.State.IsTerminal()
}

func runClient(ctx context.Context, clientID int, config Config, stats *Stats) {
	u, err := url.Parse(config.ServerURL)
	if err != nil {
		fmt.Printf("Client %d: URL parse error: %v\n", clientID, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		fmt.Printf("Client %d: Connection failed: %v\n", clientID, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	defer conn.Close()

	p := &player{}
	go func() {
		for {
			var msg network.ServerMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			atomic.AddInt64(&stats.MessagesReceived, 1)
			switch msg.Type {
			case network.MessageError:
				atomic.AddInt64(&stats.Rejections, 1)
			case network.MessageState:
				if msg.Snapshot != nil {
					p.update(msg.Snapshot)
				}
			}
		}
	}()

	newGame := network.PlayerAction{Type: string(session.ActionNewGame)}
	newGame.Payload, _ = json.Marshal(map[string]any{"archetype": "startup", "difficulty": config.Difficulty})
	if !send(conn, newGame, stats) {
		return
	}

	ticker := time.NewTicker(config.ActionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.mu.Lock()
			ended := p.ended
			p.mu.Unlock()
			if ended {
				atomic.AddInt64(&stats.GamesEnded, 1)
				if !send(conn, newGame, stats) {
					return
				}
				continue
			}
			if !send(conn, generateRandomAction(p), stats) {
				return
			}
		}
	}
}

func send(conn *websocket.Conn, action network.PlayerAction, stats *Stats) bool {
	start := time.Now()
	if err := conn.WriteJSON(action); err != nil {
		atomic.AddInt64(&stats.Errors, 1)
		return false
	}
	latency := time.Since(start)
	atomic.AddInt64(&stats.MessagesSent, 1)

	stats.mu.Lock()
	stats.Latencies = append(stats.Latencies, latency)
	stats.mu.Unlock()
	return true
}

var operationIDs = func() []string {
	var ids []string
	for _, op := range operation.All() {
		ids = append(ids, op.ID)
	}
	return ids
}()

func generateRandomAction(p *player) network.PlayerAction {
	p.mu.Lock()
	defer p.mu.Unlock()

	var (
		actionType session.ActionType
		payload    any
	)
	switch roll := rand.Intn(100); {
	case roll < 60:
		actionType = session.ActionExecuteOperation
		payload = map[string]string{
			"operation_id": operationIDs[rand.Intn(len(operationIDs))],
			"dimension":    string(dimension.All[rand.Intn(len(dimension.All))]),
		}
	case roll < 70:
		actionType = session.ActionUpgradeEquipment
		payload = map[string]string{"equipment": string(equipment.Types[rand.Intn(len(equipment.Types))])}
	case roll < 78 && len(p.candidates) > 0:
		actionType = session.ActionHire
		payload = map[string]string{"member_id": p.candidates[rand.Intn(len(p.candidates))]}
	case roll < 80 && len(p.team) > 0:
		actionType = session.ActionFire
		payload = map[string]string{"member_id": p.team[rand.Intn(len(p.team))]}
	default:
		actionType = session.ActionEndTurn
	}

	action := network.PlayerAction{Type: string(actionType), GameID: p.gameID}
	if payload != nil {
		action.Payload, _ = json.Marshal(payload)
	}
	return action
}

func printResults(stats *Stats, config Config) error {
	fmt.Println("\n=========================================")
	fmt.Println("STRESS TEST RESULTS")
	fmt.Println("=========================================")

	sent := atomic.LoadInt64(&stats.MessagesSent)
	recv := atomic.LoadInt64(&stats.MessagesReceived)
	errs := atomic.LoadInt64(&stats.Errors)
	rejected := atomic.LoadInt64(&stats.Rejections)
	ended := atomic.LoadInt64(&stats.GamesEnded)

	fmt.Printf("Messages Sent:     %d\n", sent)
	fmt.Printf("Messages Received: %d\n", recv)
	fmt.Printf("Errors:            %d\n", errs)
	fmt.Printf("Rejected Actions:  %d\n", rejected)
	fmt.Printf("Games Ended:       %d\n", ended)
	fmt.Printf("Error Rate:        %.2f%%\n", float64(errs)/float64(sent+1)*100)

	throughput := float64(sent) / config.TestDuration.Seconds()
	fmt.Printf("Throughput:        %.2f msg/sec\n", throughput)

	stats.mu.Lock()
	latencies := append([]time.Duration(nil), stats.Latencies...)
	stats.mu.Unlock()
	if len(latencies) > 0 {
		var total time.Duration
		lo, hi := latencies[0], latencies[0]
		for _, l := range latencies {
			total += l
			lo = min(lo, l)
			hi = max(hi, l)
		}
		fmt.Printf("\nLatency:\n")
		fmt.Printf("  Min: %v\n", lo)
		fmt.Printf("  Avg: %v\n", total/time.Duration(len(latencies)))
		fmt.Printf("  Max: %v\n", hi)
	}

	fmt.Println("\n-----------------------------------------")
	switch {
	case errs == 0:
		fmt.Println("TEST PASSED: System handled the load")
	case float64(errs)/float64(sent+1) < 0.05:
		fmt.Println("TEST WARNING: Some errors detected")
	default:
		fmt.Println("TEST FAILED: High error rate")
	}
	fmt.Println("=========================================")

	results := map[string]any{
		"messages_sent":      sent,
		"messages_received":  recv,
		"errors":             errs,
		"rejected_actions":   rejected,
		"games_ended":        ended,
		"throughput_per_sec": throughput,
		"config": map[string]any{
			"clients":  config.NumClients,
			"interval": config.ActionInterval.String(),
			"duration": config.TestDuration.String(),
		},
	}

	jsonData, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(config.OutputPath, jsonData, 0o644); err != nil {
		return err
	}
	fmt.Printf("\nResults saved to %s\n", config.OutputPath)
	return nil
}
