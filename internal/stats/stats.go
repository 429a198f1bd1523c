// Package stats provides processing statistics for the agent.
package stats

import (
	"sync"
	"time"
)

// Collector collects and tracks pipeline statistics.
type Collector struct {
	mu            sync.Mutex
	startTime     time.Time
	messageCount  int64
	modelCalls    int64
	fallbacks     int64
	escalations   int64
	storeFailures int64
	byIntent      map[string]int64
	totalDuration time.Duration
}

// NewCollector creates a new stats collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		byIntent:  make(map[string]int64),
	}
}

// Stats represents pipeline statistics at a point in time.
type Stats struct {
	Uptime        string           `json:"uptime"`
	MessageCount  int64            `json:"message_count"`
	ModelCalls    int64            `json:"model_calls"`
	Fallbacks     int64            `json:"fallbacks"`
	Escalations   int64            `json:"escalations"`
	StoreFailures int64            `json:"store_failures"`
	ByIntent      map[string]int64 `json:"by_intent"`
	AvgLatencyMs  float64          `json:"avg_latency_ms"`
}

// RecordMessage records one processed message.
func (c *Collector) RecordMessage(intent string, usedModel, escalated bool, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messageCount++
	c.byIntent[intent]++
	if usedModel {
		c.modelCalls++
	} else {
		c.fallbacks++
	}
	if escalated {
		c.escalations++
	}
	c.totalDuration += duration
}

// RecordStoreFailure records a failed persistence action.
func (c *Collector) RecordStoreFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.storeFailures++
}

// Collect returns current statistics.
func (c *Collector) Collect() *Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	avgLatency := float64(0)
	if c.messageCount > 0 {
		avgLatency = float64(c.totalDuration.Nanoseconds()) / float64(c.messageCount) / 1e6
	}

	byIntent := make(map[string]int64, len(c.byIntent))
	for k, v := range c.byIntent {
		byIntent[k] = v
	}

	return &Stats{
		Uptime:        time.Since(c.startTime).String(),
		MessageCount:  c.messageCount,
		ModelCalls:    c.modelCalls,
		Fallbacks:     c.fallbacks,
		Escalations:   c.escalations,
		StoreFailures: c.storeFailures,
		ByIntent:      byIntent,
		AvgLatencyMs:  avgLatency,
	}
}
