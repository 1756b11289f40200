package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEventCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := FromZap(zap.New(core)).With(zap.String("game_id", "g1"))

	log.Event("OPERATION_EXECUTED", "g1", "web_crawl", zap.Int("turn", 3))

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "OPERATION_EXECUTED", ctx["event_type"])
	assert.Equal(t, "web_crawl", ctx["details"])
	assert.Equal(t, "g1", ctx["game_id"])
	assert.EqualValues(t, 3, ctx["turn"])
}

func TestLevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := FromZap(zap.New(core))

	log.Info("hidden")
	log.Warn("shown")

	assert.Equal(t, 1, logs.Len())
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud")
	assert.Error(t, err)
}

func TestNopDoesNotPanic(t *testing.T) {
	log := NewNop()
	log.Info("x")
	log.Event("X", "y", "z")
}
