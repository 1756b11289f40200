package network

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/algotycoon/server/internal/events"
	"github.com/algotycoon/server/internal/platform/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startHub(t *testing.T, tuning config.Tuning, opts ...HubOption) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(nil, tuning, opts...)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub, cancel
}

func bareClient(buffer int) *Client {
	return &Client{send: make(chan []byte, buffer)}
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestBroadcastReachesOnlyThatGame(t *testing.T) {
	hub, _ := startHub(t, config.DefaultTuning())
	a, b := bareClient(4), bareClient(4)
	hub.Register(a)
	hub.Register(b)
	hub.Subscribe(a, "g1")
	hub.Subscribe(b, "g2")

	hub.Broadcast("g1", []byte("hello"))
	assert.Equal(t, "hello", string(receive(t, a)))

	hub.Broadcast("g2", []byte("other"))
	assert.Equal(t, "other", string(receive(t, b)))
	assert.Empty(t, a.send)
	assert.Equal(t, 1, hub.Watchers("g1"))
	assert.Equal(t, 2, hub.Connected())
}

func TestResubscribeLeavesPreviousGame(t *testing.T) {
	hub, _ := startHub(t, config.DefaultTuning())
	c := bareClient(4)
	hub.Register(c)
	hub.Subscribe(c, "g1")
	hub.Subscribe(c, "g2")
	hub.Send(c, []byte("sync"))
	receive(t, c)

	assert.Zero(t, hub.Watchers("g1"))
	assert.Equal(t, 1, hub.Watchers("g2"))
}

func TestFullGameRejectsWatcher(t *testing.T) {
	tuning := config.LowResourceTuning()
	tuning.MaxClientsPerGame = 1
	hub, _ := startHub(t, tuning)

	a, b := bareClient(4), bareClient(4)
	hub.Register(a)
	hub.Register(b)
	hub.Subscribe(a, "g1")
	hub.Subscribe(b, "g1")

	var msg ServerMessage
	require.NoError(t, json.Unmarshal(receive(t, b), &msg))
	assert.Equal(t, MessageError, msg.Type)
	assert.Equal(t, 1, hub.Watchers("g1"))
}

func TestSlowClientIsDropped(t *testing.T) {
	hub, _ := startHub(t, config.DefaultTuning())
	c := bareClient(1)
	hub.Register(c)
	hub.Subscribe(c, "g1")

	// Nothing reads c.send, so "one" fills the buffer and "two" overflows it.
	hub.Broadcast("g1", []byte("one"))
	hub.Broadcast("g1", []byte("two"))

	require.Eventually(t, func() bool { return hub.Connected() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "one", string(receive(t, c)))
	_, ok := <-c.send
	assert.False(t, ok)
}

func TestShutdownClosesClients(t *testing.T) {
	hub, cancel := startHub(t, config.DefaultTuning())
	c := bareClient(1)
	hub.Register(c)
	cancel()

	select {
	case _, ok := <-c.send:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("client not closed on shutdown")
	}

	// Calls after shutdown return instead of blocking.
	hub.Broadcast("g1", []byte("late"))
	hub.Unregister(c)
}

func TestEventPollerForwardsNewEntries(t *testing.T) {
	hub, cancel := startHub(t, config.DefaultTuning())
	log := events.NewEventLog(nil)
	_, err := log.Append(events.GameEvent{GameID: "g1", Type: events.EventTypeGameStarted})
	require.NoError(t, err)

	c := bareClient(8)
	hub.Register(c)
	hub.Subscribe(c, "g1")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	hub.StartEventPoller(ctx, log, 5*time.Millisecond)

	_, err = log.Append(events.GameEvent{GameID: "g2", Type: events.EventTypeTurnEnded})
	require.NoError(t, err)
	_, err = log.Append(events.GameEvent{GameID: "g1", Type: events.EventTypeTurnEnded, Turn: 1})
	require.NoError(t, err)

	var msg ServerMessage
	require.NoError(t, json.Unmarshal(receive(t, c), &msg))
	assert.Equal(t, MessageLedger, msg.Type)
	require.NotNil(t, msg.Event)
	assert.Equal(t, events.EventTypeTurnEnded, msg.Event.Type)
	assert.Equal(t, "g1", msg.Event.GameID)

	stop()
	cancel()
}

func TestEventPollerForwardsEntryAppendedRightAfterStart(t *testing.T) {
	hub, _ := startHub(t, config.DefaultTuning())
	log := events.NewEventLog(nil)

	c := bareClient(8)
	hub.Register(c)
	hub.Subscribe(c, "g1")
	require.Eventually(t, func() bool { return hub.Watchers("g1") == 1 }, 2*time.Second, 5*time.Millisecond)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	hub.StartEventPoller(ctx, log, 5*time.Millisecond)
	_, err := log.Append(events.GameEvent{GameID: "g1", Type: events.EventTypeGameStarted})
	require.NoError(t, err)

	var msg ServerMessage
	require.NoError(t, json.Unmarshal(receive(t, c), &msg))
	require.NotNil(t, msg.Event)
	assert.Equal(t, events.EventTypeGameStarted, msg.Event.Type)
}

func TestEventPollerSurvivesForget(t *testing.T) {
	hub, _ := startHub(t, config.DefaultTuning())
	log := events.NewEventLog(nil)

	c := bareClient(8)
	hub.Register(c)
	hub.Subscribe(c, "g1")
	require.Eventually(t, func() bool { return hub.Watchers("g1") == 1 }, 2*time.Second, 5*time.Millisecond)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	hub.StartEventPoller(ctx, log, 5*time.Millisecond)

	_, err := log.Append(events.GameEvent{GameID: "g1", Type: events.EventTypeGameStarted})
	require.NoError(t, err)
	var msg ServerMessage
	require.NoError(t, json.Unmarshal(receive(t, c), &msg))
	assert.Equal(t, events.EventTypeGameStarted, msg.Event.Type)

	_, err = log.Append(events.GameEvent{GameID: "g2", Type: events.EventTypeGameStarted})
	require.NoError(t, err)
	log.Forget("g2")
	_, err = log.Append(events.GameEvent{GameID: "g1", Type: events.EventTypeTurnEnded, Turn: 1})
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal(receive(t, c), &msg))
	assert.Equal(t, events.EventTypeTurnEnded, msg.Event.Type)
	select {
	case extra := <-c.send:
		t.Fatalf("unexpected duplicate message: %s", extra)
	case <-time.After(50 * time.Millisecond):
	}
}
