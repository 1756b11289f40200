package events

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPersister struct {
	mu     sync.Mutex
	events []GameEvent
	err    error
}

func (p *recordingPersister) Append(e GameEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func TestAppendFillsIdentity(t *testing.T) {
	el := NewEventLog(nil)

	e, err := el.Append(GameEvent{GameID: "g1", Type: EventTypeTurnEnded, Turn: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, 1, el.Len())
}

func TestAppendWritesThrough(t *testing.T) {
	p := &recordingPersister{}
	el := NewEventLog(p)

	_, err := el.Append(GameEvent{GameID: "g1", Type: EventTypeMemberHired})
	require.NoError(t, err)
	require.Len(t, p.events, 1)
	assert.Equal(t, EventTypeMemberHired, p.events[0].Type)
}

func TestAppendKeepsEventWhenPersistFails(t *testing.T) {
	el := NewEventLog(&recordingPersister{err: errors.New("disk full")})

	_, err := el.Append(GameEvent{GameID: "g1", Type: EventTypeMeltdown})
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 1, el.Len())
}

func TestQueryFilters(t *testing.T) {
	el := NewEventLog(nil)
	for _, e := range []GameEvent{
		{GameID: "g1", Type: EventTypeOperationExecuted, Turn: 1, ActorID: "player"},
		{GameID: "g1", Type: EventTypeTurnEnded, Turn: 1, ActorID: SystemActor},
		{GameID: "g1", Type: EventTypeOperationExecuted, Turn: 2, ActorID: "player"},
		{GameID: "g2", Type: EventTypeOperationExecuted, Turn: 1, ActorID: "player"},
	} {
		_, err := el.Append(e)
		require.NoError(t, err)
	}

	assert.Len(t, el.GetByGame("g1"), 3)
	assert.Len(t, el.GetByTurn("g1", 1), 2)
	assert.Len(t, el.Query(Filter{Type: EventTypeOperationExecuted}), 3)
	assert.Len(t, el.Query(Filter{GameID: "g1", ActorID: SystemActor}), 1)
	assert.Len(t, el.Query(Filter{}), 4)
}

func TestSinceReturnsCopy(t *testing.T) {
	el := NewEventLog(nil)
	for i := 0; i < 3; i++ {
		_, err := el.Append(GameEvent{GameID: "g", Turn: i})
		require.NoError(t, err)
	}

	tail := el.Since(1)
	require.Len(t, tail, 2)
	tail[0].Turn = 99
	assert.Equal(t, 1, el.Replay()[1].Turn)

	assert.Nil(t, el.Since(3))
	assert.Len(t, el.Since(-5), 3)
}

func TestForgetKeepsCursorsValid(t *testing.T) {
	el := NewEventLog(nil)
	for _, id := range []string{"g1", "g2", "g1", "g2"} {
		_, err := el.Append(GameEvent{GameID: id})
		require.NoError(t, err)
	}
	cursor := el.Cursor()
	assert.Equal(t, 4, cursor)

	assert.Equal(t, 2, el.Forget("g2"))
	assert.Zero(t, el.Forget("g2"))
	assert.Equal(t, 2, el.Len())
	assert.Empty(t, el.GetByGame("g2"))
	assert.Equal(t, 4, el.Cursor())

	_, err := el.Append(GameEvent{GameID: "g1", Turn: 7})
	require.NoError(t, err)
	tail, next := el.Tail(cursor)
	require.Len(t, tail, 1)
	assert.Equal(t, 7, tail[0].Turn)
	assert.Equal(t, 5, next)

	tail, next = el.Tail(next)
	assert.Nil(t, tail)
	assert.Equal(t, 5, next)

	// Cursor 1 pointed at a forgotten g2 entry; the next retained one follows.
	assert.Len(t, el.Since(1), 2)
}
