package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()
	c.RecordOperation(true)
	c.RecordOperation(true)
	c.RecordOperation(false)
	c.RecordExam(true)
	c.RecordGameEnded(true)
	c.RecordTurn(2 * time.Millisecond)
	c.RecordTurn(5 * time.Millisecond)

	assert.EqualValues(t, 2, c.OperationsExecuted)
	assert.EqualValues(t, 1, c.OperationsRejected)
	assert.EqualValues(t, 1, c.ExamsPassed)
	assert.EqualValues(t, 1, c.Victories)
	assert.EqualValues(t, 2, c.TurnCount)
	assert.Equal(t, int64(5*time.Millisecond), c.TurnLatencyMax)
}

func TestHandlerServesJSON(t *testing.T) {
	c := NewCollector()
	c.RecordExam(false)

	rec := httptest.NewRecorder()
	c.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	exams := body["exams"].(map[string]any)
	assert.EqualValues(t, 1, exams["failed"])
}

func TestPrometheusHandler(t *testing.T) {
	c := NewCollector()
	c.RecordWSMessage(true)

	rec := httptest.NewRecorder()
	c.PrometheusHandler()(rec, httptest.NewRequest(http.MethodGet, "/metrics/prometheus", nil))

	out := rec.Body.String()
	assert.True(t, strings.Contains(out, `tycoon_ws_messages_total{direction="in"} 1`), out)
	assert.Contains(t, out, "# TYPE tycoon_turn_count counter")
}
