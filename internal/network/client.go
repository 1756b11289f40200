package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/algotycoon/server/internal/domain/dimension"
	"github.com/algotycoon/server/internal/domain/equipment"
	"github.com/algotycoon/server/internal/domain/state"
	"github.com/algotycoon/server/internal/events"
	"github.com/algotycoon/server/internal/infra/storage"
	"github.com/algotycoon/server/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	defaultActionInterval = 100 * time.Millisecond
)

var (
	ErrRateLimited    = errors.New("too many actions")
	ErrMalformedInput = errors.New("malformed action")
)

// MessageType tags a server message.
type MessageType string

const (
	MessageState  MessageType = "STATE"
	MessageError  MessageType = "ERROR"
	MessageLedger MessageType = "LEDGER"
)

// PlayerAction represents an incoming command from the frontend.
type PlayerAction struct {
	Type    string          `json:"type"`              // NEW_GAME, EXECUTE_OPERATION, ...
	GameID  string          `json:"game_id,omitempty"` // Defaults to the game the client follows
	Payload json.RawMessage `json:"payload,omitempty"` // Action-specific data
}

type newGamePayload struct {
	Archetype  state.Archetype  `json:"archetype"`
	Difficulty state.Difficulty `json:"difficulty"`
	Seed       *int64           `json:"seed,omitempty"`
}

type operationPayload struct {
	OperationID string        `json:"operation_id"`
	Dimension   dimension.Key `json:"dimension,omitempty"`
}

type equipmentPayload struct {
	Equipment equipment.Type `json:"equipment"`
}

type memberPayload struct {
	MemberID string `json:"member_id"`
}

// ServerMessage is everything the server writes to a socket.
type ServerMessage struct {
	Type     MessageType       `json:"type"`
	GameID   string            `json:"game_id,omitempty"`
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
	Event    *events.GameEvent `json:"event,omitempty"`
	Error    string            `json:"error,omitempty"`
}

func errorMessage(gameID, msg string) []byte {
	data, _ := json.Marshal(ServerMessage{Type: MessageError, GameID: gameID, Error: msg})
	return data
}

// Client is one WebSocket connection. gameID and lastActionTime are owned by
// the read pump.
type Client struct {
	hub      *Hub
	sessions *session.Manager
	conn     *websocket.Conn
	send     chan []byte

	gameID         string
	lastActionTime time.Time
}

// NewClient creates a new WebSocket client following gameID, which may be
// empty until the client starts a game.
func NewClient(hub *Hub, sessions *session.Manager, conn *websocket.Conn, gameID string) *Client {
	buf := hub.tuning.ClientSendBuffer
	if buf <= 0 {
		buf = 64
	}
	return &Client{
		hub:      hub,
		sessions: sessions,
		conn:     conn,
		send:     make(chan []byte, buf),
		gameID:   gameID,
	}
}

// Start registers the client and runs both pumps.
func (c *Client) Start() {
	c.hub.Register(c)
	if c.gameID != "" {
		c.hub.Subscribe(c, c.gameID)
	}
	go c.WritePump()
	go c.ReadPump()
}

// ReadPump pumps messages from the websocket connection to the session
// manager.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read failed", zap.Error(err))
			}
			break
		}
		if c.hub.metrics != nil {
			c.hub.metrics.RecordWSMessage(true)
		}

		var action PlayerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.reply(nil, fmt.Errorf("%w: %v", ErrMalformedInput, err))
			continue
		}

		snap, err := c.handlePlayerAction(action)
		c.reply(snap, err)
	}
}

func (c *Client) reply(snap *session.Snapshot, err error) {
	msg := ServerMessage{Type: MessageState, GameID: c.gameID, Snapshot: snap}
	if err != nil {
		if c.hub.metrics != nil {
			c.hub.metrics.RecordWSError()
		}
		msg = ServerMessage{Type: MessageError, GameID: c.gameID, Error: err.Error()}
	}
	data, mErr := json.Marshal(msg)
	if mErr != nil {
		c.hub.logger.Error("failed to serialize reply", zap.Error(mErr))
		return
	}
	c.hub.Send(c, data)
}

func (c *Client) handlePlayerAction(pa PlayerAction) (*session.Snapshot, error) {
	now := time.Now()
	if !c.lastActionTime.IsZero() && now.Sub(c.lastActionTime) < c.hub.actionInterval {
		c.hub.logger.Warn("rate limit exceeded", zap.String("game_id", c.gameID), zap.String("action", pa.Type))
		return nil, ErrRateLimited
	}
	c.lastActionTime = now

	action, err := decodeAction(pa)
	if err != nil {
		return nil, err
	}
	if action.GameID == "" {
		action.GameID = c.gameID
	}

	ctx, cancel := context.WithTimeout(context.Background(), storage.DefaultWriteTimeout)
	defer cancel()
	snap, err := c.sessions.Apply(ctx, action)
	if err != nil {
		return nil, err
	}

	if snap.GameID != c.gameID {
		c.gameID = snap.GameID
		c.hub.Subscribe(c, c.gameID)
	}
	return &snap, nil
}

// decodeAction maps the wire form to a session action.
func decodeAction(pa PlayerAction) (session.Action, error) {
	a := session.Action{Type: session.ActionType(pa.Type), GameID: pa.GameID}
	switch a.Type {
	case session.ActionEndTurn:
		return a, nil
	case session.ActionNewGame, session.ActionExecuteOperation, session.ActionUpgradeEquipment,
		session.ActionHire, session.ActionFire:
	default:
		return a, fmt.Errorf("action %q: %w", pa.Type, session.ErrUnknownAction)
	}
	if len(pa.Payload) == 0 {
		return a, fmt.Errorf("%w: %s needs a payload", ErrMalformedInput, pa.Type)
	}

	var err error
	switch a.Type {
	case session.ActionNewGame:
		var p newGamePayload
		if err = json.Unmarshal(pa.Payload, &p); err == nil {
			a.Archetype, a.Difficulty, a.Seed = p.Archetype, p.Difficulty, p.Seed
		}
	case session.ActionExecuteOperation:
		var p operationPayload
		if err = json.Unmarshal(pa.Payload, &p); err == nil {
			a.OperationID, a.Dimension = p.OperationID, p.Dimension
		}
	case session.ActionUpgradeEquipment:
		var p equipmentPayload
		if err = json.Unmarshal(pa.Payload, &p); err == nil {
			a.Equipment = p.Equipment
		}
	default:
		var p memberPayload
		if err = json.Unmarshal(pa.Payload, &p); err == nil {
			a.MemberID = p.MemberID
		}
	}
	if err != nil {
		return a, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return a, nil
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
			if c.hub.metrics != nil {
				c.hub.metrics.RecordWSMessage(false)
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
