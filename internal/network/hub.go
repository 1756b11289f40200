// Package network exposes live games over WebSocket and the audit ledger over
// HTTP.
package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/algotycoon/server/internal/events"
	"github.com/algotycoon/server/internal/platform/config"
	"github.com/algotycoon/server/internal/platform/logger"
	"github.com/algotycoon/server/internal/platform/metrics"
)

// DefaultPollInterval is how often the ledger poller looks for new entries.
const DefaultPollInterval = 200 * time.Millisecond

type subscription struct {
	client *Client
	gameID string
}

type envelope struct {
	gameID string
	// target, when set, receives data alone.
	target *Client
	data   []byte
}

// Hub owns every client send channel. Clients are grouped by the game they
// follow; ledger entries fan out to the clients of their game only.
type Hub struct {
	clients map[*Client]string
	games   map[string]map[*Client]struct{}
	mu      sync.RWMutex

	register   chan *Client
	subscribe  chan subscription
	unregister chan *Client
	outbound   chan envelope
	done       chan struct{}
	stopOnce   sync.Once

	tuning         config.Tuning
	actionInterval time.Duration
	logger         *logger.Logger
	metrics        *metrics.Collector
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithActionInterval sets the minimum gap between two actions of a client.
func WithActionInterval(d time.Duration) HubOption {
	return func(h *Hub) { h.actionInterval = d }
}

// WithHubMetrics reports connection counts to c.
func WithHubMetrics(c *metrics.Collector) HubOption {
	return func(h *Hub) { h.metrics = c }
}

// NewHub initializes a new WebSocket Hub.
func NewHub(log *logger.Logger, tuning config.Tuning, opts ...HubOption) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	h := &Hub{
		clients:        make(map[*Client]string),
		games:          make(map[string]map[*Client]struct{}),
		register:       make(chan *Client),
		subscribe:      make(chan subscription),
		unregister:     make(chan *Client),
		outbound:       make(chan envelope, tuning.BroadcastChannelBuffer),
		done:           make(chan struct{}),
		tuning:         tuning,
		actionInterval: defaultActionInterval,
		logger:         log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run starts the Hub's main loop. It returns when ctx is done, closing every
// client send channel.
func (h *Hub) Run(ctx context.Context) {
	defer h.stop()
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket hub shutting down")
			h.mu.Lock()
			for c := range h.clients {
				h.dropLocked(c)
			}
			h.mu.Unlock()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = ""
			h.mu.Unlock()
			if h.metrics != nil {
				h.metrics.RecordWSConnection(1)
			}
			h.logger.Debug("websocket client connected")
		case sub := <-h.subscribe:
			h.handleSubscribe(sub)
		case c := <-h.unregister:
			h.mu.Lock()
			h.dropLocked(c)
			h.mu.Unlock()
		case env := <-h.outbound:
			h.deliver(env)
		}
	}
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) handleSubscribe(sub subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, ok := h.clients[sub.client]
	if !ok || current == sub.gameID {
		return
	}
	if limit := h.tuning.MaxClientsPerGame; limit > 0 && len(h.games[sub.gameID]) >= limit {
		h.trySendLocked(sub.client, errorMessage(sub.gameID, "game has too many watchers"))
		return
	}
	h.leaveLocked(sub.client, current)

	members, ok := h.games[sub.gameID]
	if !ok {
		members = make(map[*Client]struct{})
		h.games[sub.gameID] = members
	}
	members[sub.client] = struct{}{}
	h.clients[sub.client] = sub.gameID
}

func (h *Hub) leaveLocked(c *Client, gameID string) {
	if gameID == "" {
		return
	}
	if members, ok := h.games[gameID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.games, gameID)
		}
	}
}

func (h *Hub) dropLocked(c *Client) {
	gameID, ok := h.clients[c]
	if !ok {
		return
	}
	h.leaveLocked(c, gameID)
	delete(h.clients, c)
	close(c.send)
	if h.metrics != nil {
		h.metrics.RecordWSConnection(-1)
	}
	h.logger.Debug("websocket client disconnected", zap.String("game_id", gameID))
}

func (h *Hub) deliver(env envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if env.target != nil {
		h.trySendLocked(env.target, env.data)
		return
	}
	for c := range h.games[env.gameID] {
		h.trySendLocked(c, env.data)
	}
}

// trySendLocked drops clients that cannot keep up.
func (h *Hub) trySendLocked(c *Client, data []byte) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		h.logger.Warn("dropping slow websocket client")
		h.dropLocked(c)
	}
}

// Register adds the client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.send)
	}
}

// Subscribe moves c onto the broadcast list of gameID.
func (h *Hub) Subscribe(c *Client, gameID string) {
	select {
	case h.subscribe <- subscription{client: c, gameID: gameID}:
	case <-h.done:
	}
}

// Unregister removes the client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Send queues data for one client.
func (h *Hub) Send(c *Client, data []byte) {
	select {
	case h.outbound <- envelope{target: c, data: data}:
	case <-h.done:
	}
}

// Broadcast queues data for every client following gameID.
func (h *Hub) Broadcast(gameID string, data []byte) {
	select {
	case h.outbound <- envelope{gameID: gameID, data: data}:
	case <-h.done:
	}
}

// BroadcastEvent serializes a ledger entry and sends it to the clients of its
// game.
func (h *Hub) BroadcastEvent(event events.GameEvent) {
	payload, err := json.Marshal(ServerMessage{Type: MessageLedger, GameID: event.GameID, Event: &event})
	if err != nil {
		h.logger.Error("failed to serialize ledger entry for broadcast", zap.String("id", event.ID), zap.Error(err))
		return
	}
	h.Broadcast(event.GameID, payload)
}

// Watchers returns how many clients follow gameID.
func (h *Hub) Watchers(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}

// Connected returns how many clients are registered.
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartEventPoller spawns a goroutine that polls the ledger and pushes every
// entry appended after the call returns to the hub. The engine never blocks on
// slow clients this way.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	cursor := eventLog.Cursor()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-h.done:
				return
			case <-ticker.C:
				var fresh []events.GameEvent
				fresh, cursor = eventLog.Tail(cursor)
				for _, event := range fresh {
					h.BroadcastEvent(event)
				}
			}
		}
	}()
}
