package pipeline

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// DefaultStatsWindow is the number of inference times kept by default
const DefaultStatsWindow = 100

// LatencyStats keeps the most recent inference times in a fixed size window
type LatencyStats struct {
	mu      sync.Mutex
	samples []float64
	next    int
	full    bool
	total   uint64
}

// LatencySummary describes the inference times in the window, all times are
// in milliseconds
type LatencySummary struct {
	Count  int     `json:"count"`
	Total  uint64  `json:"total"`
	Mean   float64 `json:"mean_ms"`
	StdDev float64 `json:"stddev_ms"`
	P50    float64 `json:"p50_ms"`
	P95    float64 `json:"p95_ms"`
	Min    float64 `json:"min_ms"`
	Max    float64 `json:"max_ms"`
}

// NewLatencyStats returns stats over a window of the given size, a size of
// zero or less uses DefaultStatsWindow
func NewLatencyStats(window int) *LatencyStats {

	if window <= 0 {
		window = DefaultStatsWindow
	}

	return &LatencyStats{
		samples: make([]float64, window),
	}
}

// Observe records an inference time
func (l *LatencyStats) Observe(d time.Duration) {

	l.mu.Lock()
	defer l.mu.Unlock()

	l.samples[l.next] = float64(d) / float64(time.Millisecond)
	l.next++
	l.total++

	if l.next == len(l.samples) {
		l.next = 0
		l.full = true
	}
}

// Summary returns statistics for the samples currently in the window
func (l *LatencyStats) Summary() LatencySummary {

	l.mu.Lock()

	n := l.next
	if l.full {
		n = len(l.samples)
	}

	data := make([]float64, n)
	copy(data, l.samples[:n])
	total := l.total

	l.mu.Unlock()

	sum := LatencySummary{Count: n, Total: total}

	if n == 0 {
		return sum
	}

	sort.Float64s(data)

	sum.Mean, sum.StdDev = stat.MeanStdDev(data, nil)
	sum.P50 = stat.Quantile(0.5, stat.Empirical, data, nil)
	sum.P95 = stat.Quantile(0.95, stat.Empirical, data, nil)
	sum.Min = data[0]
	sum.Max = data[n-1]

	if n == 1 {
		// sample standard deviation is undefined for one value
		sum.StdDev = 0
	}

	return sum
}
