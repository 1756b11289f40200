// Package metrics provides observability for the game server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers engine and host counters.
type Collector struct {
	// Turn metrics
	TurnCount      int64
	TurnLatencySum int64 // nanoseconds
	TurnLatencyMax int64
	LastTurnTime   time.Time

	// Gameplay
	GamesStarted       int64
	GamesOver          int64
	Victories          int64
	OperationsExecuted int64
	OperationsRejected int64
	ExamsPassed        int64
	ExamsFailed        int64
	Meltdowns          int64

	// Ledger metrics
	EventsWritten    int64
	EventWriteLatSum int64
	EventWriteLatMax int64
	EventWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = NewCollector()

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{StartTime: time.Now()}
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

func storeMax(addr *int64, v int64) {
	for {
		cur := atomic.LoadInt64(addr)
		if v <= cur || atomic.CompareAndSwapInt64(addr, cur, v) {
			return
		}
	}
}

// RecordTurn records a completed turn boundary.
func (c *Collector) RecordTurn(latency time.Duration) {
	atomic.AddInt64(&c.TurnCount, 1)
	atomic.AddInt64(&c.TurnLatencySum, int64(latency))
	storeMax(&c.TurnLatencyMax, int64(latency))

	c.mu.Lock()
	c.LastTurnTime = time.Now()
	c.mu.Unlock()
}

// RecordGameStarted counts a new session.
func (c *Collector) RecordGameStarted() {
	atomic.AddInt64(&c.GamesStarted, 1)
}

// RecordGameEnded counts a session reaching a terminal state.
func (c *Collector) RecordGameEnded(victory bool) {
	if victory {
		atomic.AddInt64(&c.Victories, 1)
		return
	}
	atomic.AddInt64(&c.GamesOver, 1)
}

// RecordOperation counts an operation attempt.
func (c *Collector) RecordOperation(executed bool) {
	if executed {
		atomic.AddInt64(&c.OperationsExecuted, 1)
	} else {
		atomic.AddInt64(&c.OperationsRejected, 1)
	}
}

// RecordExam counts an exam outcome.
func (c *Collector) RecordExam(passed bool) {
	if passed {
		atomic.AddInt64(&c.ExamsPassed, 1)
	} else {
		atomic.AddInt64(&c.ExamsFailed, 1)
	}
}

// RecordMeltdown counts a server meltdown.
func (c *Collector) RecordMeltdown() {
	atomic.AddInt64(&c.Meltdowns, 1)
}

// RecordEventWrite records a ledger write to the database.
func (c *Collector) RecordEventWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	atomic.AddInt64(&c.EventWriteLatSum, int64(latency))
	storeMax(&c.EventWriteLatMax, int64(latency))

	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	turnCount := atomic.LoadInt64(&c.TurnCount)
	eventsWritten := atomic.LoadInt64(&c.EventsWritten)

	var turnAvg, eventAvg float64
	if turnCount > 0 {
		turnAvg = float64(atomic.LoadInt64(&c.TurnLatencySum)) / float64(turnCount) / 1e6 // ms
	}
	if eventsWritten > 0 {
		eventAvg = float64(atomic.LoadInt64(&c.EventWriteLatSum)) / float64(eventsWritten) / 1e6
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"turns": map[string]interface{}{
			"count":          turnCount,
			"avg_latency_ms": turnAvg,
			"max_latency_ms": float64(atomic.LoadInt64(&c.TurnLatencyMax)) / 1e6,
			"last_turn":      c.LastTurnTime.Format(time.RFC3339),
		},

		"games": map[string]interface{}{
			"started":   atomic.LoadInt64(&c.GamesStarted),
			"game_over": atomic.LoadInt64(&c.GamesOver),
			"victories": atomic.LoadInt64(&c.Victories),
			"meltdowns": atomic.LoadInt64(&c.Meltdowns),
		},

		"operations": map[string]interface{}{
			"executed": atomic.LoadInt64(&c.OperationsExecuted),
			"rejected": atomic.LoadInt64(&c.OperationsRejected),
		},

		"exams": map[string]interface{}{
			"passed": atomic.LoadInt64(&c.ExamsPassed),
			"failed": atomic.LoadInt64(&c.ExamsFailed),
		},

		"events": map[string]interface{}{
			"written":          eventsWritten,
			"avg_write_lat_ms": eventAvg,
			"max_write_lat_ms": float64(atomic.LoadInt64(&c.EventWriteLatMax)) / 1e6,
			"errors":           atomic.LoadInt64(&c.EventWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		_ = json.NewEncoder(w).Encode(c.Snapshot())
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func (c *Collector) PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		counter := func(name, help string, v int64) {
			fmt.Fprintf(w, "# HELP %s %s\n", name, help)
			fmt.Fprintf(w, "# TYPE %s counter\n", name)
			fmt.Fprintf(w, "%s %d\n\n", name, v)
		}

		counter("tycoon_turn_count", "Total turn boundaries processed", atomic.LoadInt64(&c.TurnCount))

		fmt.Fprintf(w, "# HELP tycoon_turn_latency_max_ms Maximum turn latency\n")
		fmt.Fprintf(w, "# TYPE tycoon_turn_latency_max_ms gauge\n")
		fmt.Fprintf(w, "tycoon_turn_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.TurnLatencyMax))/1e6)

		counter("tycoon_games_started", "Total games started", atomic.LoadInt64(&c.GamesStarted))

		fmt.Fprintf(w, "# HELP tycoon_games_ended Total games ended by outcome\n")
		fmt.Fprintf(w, "# TYPE tycoon_games_ended counter\n")
		fmt.Fprintf(w, "tycoon_games_ended{outcome=\"game_over\"} %d\n", atomic.LoadInt64(&c.GamesOver))
		fmt.Fprintf(w, "tycoon_games_ended{outcome=\"victory\"} %d\n\n", atomic.LoadInt64(&c.Victories))

		fmt.Fprintf(w, "# HELP tycoon_operations_total Operation attempts by result\n")
		fmt.Fprintf(w, "# TYPE tycoon_operations_total counter\n")
		fmt.Fprintf(w, "tycoon_operations_total{result=\"executed\"} %d\n", atomic.LoadInt64(&c.OperationsExecuted))
		fmt.Fprintf(w, "tycoon_operations_total{result=\"rejected\"} %d\n\n", atomic.LoadInt64(&c.OperationsRejected))

		fmt.Fprintf(w, "# HELP tycoon_exams_total Exams by result\n")
		fmt.Fprintf(w, "# TYPE tycoon_exams_total counter\n")
		fmt.Fprintf(w, "tycoon_exams_total{result=\"passed\"} %d\n", atomic.LoadInt64(&c.ExamsPassed))
		fmt.Fprintf(w, "tycoon_exams_total{result=\"failed\"} %d\n\n", atomic.LoadInt64(&c.ExamsFailed))

		counter("tycoon_meltdowns", "Total server meltdowns", atomic.LoadInt64(&c.Meltdowns))
		counter("tycoon_events_written", "Total ledger entries written", atomic.LoadInt64(&c.EventsWritten))
		counter("tycoon_event_write_errors", "Total ledger write errors", atomic.LoadInt64(&c.EventWriteErrors))

		fmt.Fprintf(w, "# HELP tycoon_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE tycoon_ws_connections gauge\n")
		fmt.Fprintf(w, "tycoon_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP tycoon_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE tycoon_ws_messages_total counter\n")
		fmt.Fprintf(w, "tycoon_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "tycoon_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
