package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()
	c.RecordTurn(100 * time.Millisecond)
	c.RecordTurn(300 * time.Millisecond)
	c.RecordToolCalls(3)
	c.RecordError()

	s := c.Collect()
	assert.Equal(t, int64(2), s.TurnCount)
	assert.Equal(t, int64(3), s.ToolCalls)
	assert.Equal(t, int64(1), s.ErrorCount)
	assert.InDelta(t, 200.0, s.AvgLatencyMs, 0.01)
}

func TestCollectorEmptySession(t *testing.T) {
	s := NewCollector().Collect()
	assert.Equal(t, int64(0), s.TurnCount)
	assert.Equal(t, 0.0, s.AvgLatencyMs)
}

func TestStatsSummary(t *testing.T) {
	s := &Stats{
		Uptime:       "1m0s",
		TurnCount:    2,
		ErrorCount:   1,
		ToolCalls:    3,
		AvgLatencyMs: 200,
	}
	assert.Equal(t, "session: 2 turns, 3 tool calls, 1 errors, avg turn 200ms, up 1m0s", s.Summary())
}
