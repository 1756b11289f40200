package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envTestConfig struct {
	Port int `env:"TYCOON_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("TYCOON_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadServer(t *testing.T) {
	t.Setenv("TYCOON_ADDR", ":9999")
	t.Setenv("TYCOON_SESSION_CACHE_SIZE", "8")

	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 8, cfg.SessionCacheSize)
	assert.Equal(t, "tycoon.db", cfg.DBPath)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, time.Minute, cfg.ReaperInterval)
	assert.Equal(t, 100*time.Millisecond, cfg.ActionInterval)
}

func TestLoadServerParsesDurations(t *testing.T) {
	t.Setenv("TYCOON_SESSION_IDLE_TTL", "90s")
	t.Setenv("TYCOON_REAPER_INTERVAL", "0s")

	_, err := LoadServer()
	assert.Error(t, err)

	t.Setenv("TYCOON_REAPER_INTERVAL", "10s")
	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.SessionIdleTTL)
}

func TestLoadServerActionInterval(t *testing.T) {
	t.Setenv("TYCOON_ACTION_INTERVAL", "-1s")
	_, err := LoadServer()
	assert.Error(t, err)

	t.Setenv("TYCOON_ACTION_INTERVAL", "250ms")
	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.ActionInterval)
}

func TestLoadServerRejectsEmptyCache(t *testing.T) {
	t.Setenv("TYCOON_SESSION_CACHE_SIZE", "0")

	_, err := LoadServer()
	assert.Error(t, err)
}

func TestLoadBalanceDefaults(t *testing.T) {
	bal, err := LoadBalance("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBalance(), bal)

	bal, err = LoadBalance(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultBalance(), bal)
}

func TestLoadBalanceOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tester_refund_chance: 0.5\nvictory_exams: 3\n"), 0o644))

	bal, err := LoadBalance(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, bal.TesterRefundChance)
	assert.Equal(t, 3, bal.VictoryExams)
	assert.Equal(t, DefaultBalance().MeltdownRepairCost, bal.MeltdownRepairCost)
}

func TestLoadBalanceRejectsBadChance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("event_chance: 1.5\n"), 0o644))

	_, err := LoadBalance(path)
	assert.ErrorContains(t, err, "event_chance")
}

func TestLoadBalanceRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("victory_exams: [nope"), 0o644))

	_, err := LoadBalance(path)
	assert.ErrorContains(t, err, "parse balance")
}

func TestTuningProfiles(t *testing.T) {
	assert.Equal(t, StressTuning(), TuningFor("stress"))
	assert.Equal(t, LowResourceTuning(), TuningFor("low"))
	assert.Equal(t, DefaultTuning(), TuningFor("anything"))
}
