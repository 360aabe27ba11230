package services

import (
	"sync/atomic"
)

// Metrics tracks operational counters for the screening pipeline.
type Metrics struct {
	ScreenRequests   atomic.Int64
	CacheHits        atomic.Int64
	CacheMisses      atomic.Int64
	CacheErrors      atomic.Int64
	ModelCalls       atomic.Int64
	ModelErrors      atomic.Int64
	DegradedResults  atomic.Int64
	RejectedRequests atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Snapshot returns the current counter values keyed by metric name.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"screen_requests":   m.ScreenRequests.Load(),
		"cache_hits":        m.CacheHits.Load(),
		"cache_misses":      m.CacheMisses.Load(),
		"cache_errors":      m.CacheErrors.Load(),
		"model_calls":       m.ModelCalls.Load(),
		"model_errors":      m.ModelErrors.Load(),
		"degraded_results":  m.DegradedResults.Load(),
		"rejected_requests": m.RejectedRequests.Load(),
	}
}
