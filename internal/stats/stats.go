// Package stats provides session statistics tracking for Scout.
package stats

import (
	"fmt"
	"time"
)

// Collector tracks per-session conversation metrics.
type Collector struct {
	startTime     time.Time
	turnCount     int64
	errorCount    int64
	toolCallCount int64
	totalDuration int64 // nanoseconds
}

// NewCollector creates a new stats collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
	}
}

// Stats represents session statistics at a point in time.
type Stats struct {
	Uptime       string  `json:"uptime"`
	TurnCount    int64   `json:"turn_count"`
	ErrorCount   int64   `json:"error_count"`
	ToolCalls    int64   `json:"tool_calls"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// Collect returns current session statistics.
func (c *Collector) Collect() *Stats {
	avgLatency := float64(0)
	if c.turnCount > 0 {
		avgLatency = float64(c.totalDuration) / float64(c.turnCount) / 1e6
	}

	return &Stats{
		Uptime:       time.Since(c.startTime).Round(time.Second).String(),
		TurnCount:    c.turnCount,
		ErrorCount:   c.errorCount,
		ToolCalls:    c.toolCallCount,
		AvgLatencyMs: avgLatency,
	}
}

// RecordTurn records a completed conversation turn.
func (c *Collector) RecordTurn(duration time.Duration) {
	c.turnCount++
	c.totalDuration += duration.Nanoseconds()
}

// RecordError records a failed turn.
func (c *Collector) RecordError() {
	c.errorCount++
}

// RecordToolCalls records dispatched tool calls.
func (c *Collector) RecordToolCalls(n int) {
	c.toolCallCount += int64(n)
}

// Summary renders a one-paragraph human-readable session summary.
func (s *Stats) Summary() string {
	return fmt.Sprintf("session: %d turns, %d tool calls, %d errors, avg turn %.0fms, up %s",
		s.TurnCount, s.ToolCalls, s.ErrorCount, s.AvgLatencyMs, s.Uptime)
}
