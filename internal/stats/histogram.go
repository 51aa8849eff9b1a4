package stats

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram is a thread-safe HDR histogram for live latency snapshots.
//
// It records latencies in microseconds and answers quantile queries in
// milliseconds. HDR quantiles are bucket-quantized, which is fine for a
// progress display but not for the final report; see Percentile.
type Histogram struct {
	mu   sync.Mutex
	hist *hdrhistogram.Histogram
}

// NewHistogram creates a histogram covering 1us to 10 minutes at 3
// significant figures.
func NewHistogram() *Histogram {
	return &Histogram{
		hist: hdrhistogram.New(1, int64(10*time.Minute/time.Microsecond), 3),
	}
}

// Record records one latency observation.
func (h *Histogram) Record(d time.Duration) {
	us := d.Microseconds()
	if us < 1 {
		us = 1
	}
	h.mu.Lock()
	h.hist.RecordValue(us)
	h.mu.Unlock()
}

// QuantileMs returns the latency at quantile q (0-100) in milliseconds.
func (h *Histogram) QuantileMs(q float64) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return float64(h.hist.ValueAtQuantile(q)) / 1000.0
}

// Count returns the number of recorded observations.
func (h *Histogram) Count() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.TotalCount()
}

// Reset clears all recorded observations.
func (h *Histogram) Reset() {
	h.mu.Lock()
	h.hist.Reset()
	h.mu.Unlock()
}
