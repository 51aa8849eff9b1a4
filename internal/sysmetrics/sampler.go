// Package sysmetrics polls a resource-metrics endpoint while a measurement
// phase is active.
//
// Sampling is best-effort instrumentation: a poll that fails is discarded
// without logging or retry, because it must never abort or skew the load
// test it is observing. If the endpoint is unreachable for the whole run the
// summary simply has no values, which callers treat as a normal outcome.
package sysmetrics

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultInterval is the poll interval between samples.
const DefaultInterval = 500 * time.Millisecond

// Sample is one reading from the metrics endpoint.
type Sample struct {
	CPUPercent float64
	MemoryMB   float64
}

// Summary aggregates the samples collected during one measurement phase.
// Nil pointers mean no samples were collected.
type Summary struct {
	AvgCPUPercent *float64
	AvgMemoryMB   *float64
	PeakMemoryMB  *float64
}

// Sampler periodically polls a metrics URL and accumulates samples.
//
// Samples are written only by the sampler's own goroutine; Stop waits for
// that goroutine before the samples are read.
type Sampler struct {
	url      string
	interval time.Duration
	client   *http.Client

	mu      sync.Mutex
	samples []Sample

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSampler creates a sampler for the given metrics URL. An empty URL
// yields a sampler that collects nothing.
func NewSampler(url string, client *http.Client) *Sampler {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Second}
	}
	return &Sampler{
		url:      url,
		interval: DefaultInterval,
		client:   client,
	}
}

// Start begins polling until Stop is called or ctx is cancelled.
func (s *Sampler) Start(ctx context.Context) {
	if s.url == "" {
		return
	}

	pollCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
				// Error channel deliberately discarded; see package doc.
				s.poll(pollCtx)
			}
		}
	}()
}

// Stop ends polling and waits for the in-flight poll, if any. A sample
// landing exactly at the boundary is still kept.
func (s *Sampler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Sampler) poll(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return
	}

	cpu := gjson.GetBytes(body, "cpuPercent")
	mem := gjson.GetBytes(body, "memoryMB")
	if !cpu.Exists() || !mem.Exists() {
		return
	}

	s.mu.Lock()
	s.samples = append(s.samples, Sample{
		CPUPercent: cpu.Float(),
		MemoryMB:   mem.Float(),
	})
	s.mu.Unlock()
}

// Samples returns a copy of the collected samples.
func (s *Sampler) Samples() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Summarize reduces the collected samples to averages and peak memory.
func (s *Sampler) Summarize() Summary {
	samples := s.Samples()
	if len(samples) == 0 {
		return Summary{}
	}

	var cpuSum, memSum, memPeak float64
	for _, smp := range samples {
		cpuSum += smp.CPUPercent
		memSum += smp.MemoryMB
		if smp.MemoryMB > memPeak {
			memPeak = smp.MemoryMB
		}
	}

	n := float64(len(samples))
	avgCPU := cpuSum / n
	avgMem := memSum / n
	return Summary{
		AvgCPUPercent: &avgCPU,
		AvgMemoryMB:   &avgMem,
		PeakMemoryMB:  &memPeak,
	}
}
