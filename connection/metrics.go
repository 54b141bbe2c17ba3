package connection

import (
	"slices"
	"sync"
	"time"
)

// Metrics tracks device runs made through a ResilientDevice.
type Metrics struct {
	mu sync.RWMutex

	Runs     int64
	Failures int64
	Rejected int64
	Shots    int64

	TotalRunTime   time.Duration
	AverageLatency time.Duration
	P95Latency     time.Duration
	P99Latency     time.Duration

	latencies  []time.Duration
	windowSize int
}

func NewMetrics() *Metrics {
	return &Metrics{
		latencies:  make([]time.Duration, 0, 1000), // Store last 1000 measurements
		windowSize: 1000,
	}
}

func (m *Metrics) recordRun(startTime time.Time, shots int, success bool) {
	duration := time.Since(startTime)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Runs++
	m.TotalRunTime += duration
	if success {
		m.Shots += int64(shots)
	} else {
		m.Failures++
	}

	m.updateLatencyPercentiles(duration)
}

func (m *Metrics) recordRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rejected++
}

func (m *Metrics) updateLatencyPercentiles(duration time.Duration) {
	m.AverageLatency = m.TotalRunTime / time.Duration(m.Runs)

	m.latencies = append(m.latencies, duration)
	if len(m.latencies) > m.windowSize {
		m.latencies = m.latencies[1:]
	}

	sorted := slices.Clone(m.latencies)
	slices.Sort(sorted)

	p95Index := min(int(float64(len(sorted))*0.95), len(sorted)-1)
	p99Index := min(int(float64(len(sorted))*0.99), len(sorted)-1)

	m.P95Latency = sorted[p95Index]
	m.P99Latency = sorted[p99Index]
}

// ExportMetrics returns a snapshot keyed by metric name.
func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	successRate := 0.0
	if m.Runs > 0 {
		successRate = float64(m.Runs-m.Failures) / float64(m.Runs)
	}

	return map[string]interface{}{
		"runs":         m.Runs,
		"failures":     m.Failures,
		"rejected":     m.Rejected,
		"shots":        m.Shots,
		"success_rate": successRate,
		"avg_latency":  m.AverageLatency.Milliseconds(),
		"p95_latency":  m.P95Latency.Milliseconds(),
		"p99_latency":  m.P99Latency.Milliseconds(),
	}
}
