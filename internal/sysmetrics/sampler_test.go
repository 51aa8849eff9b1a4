package sysmetrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestSampler_CollectsSamples(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cpuPercent": 25.5, "memoryMB": 1024}`))
	}))
	defer srv.Close()

	s := NewSampler(srv.URL, nil)
	s.Start(context.Background())
	time.Sleep(1200 * time.Millisecond)
	s.Stop()

	samples := s.Samples()
	if len(samples) < 1 {
		t.Fatal("no samples collected")
	}
	if samples[0].CPUPercent != 25.5 || samples[0].MemoryMB != 1024 {
		t.Errorf("sample = %+v, want cpu 25.5 mem 1024", samples[0])
	}

	sum := s.Summarize()
	if sum.AvgCPUPercent == nil || *sum.AvgCPUPercent != 25.5 {
		t.Errorf("AvgCPUPercent = %v, want 25.5", sum.AvgCPUPercent)
	}
	if sum.PeakMemoryMB == nil || *sum.PeakMemoryMB != 1024 {
		t.Errorf("PeakMemoryMB = %v, want 1024", sum.PeakMemoryMB)
	}
}

func TestSampler_PeakMemory(t *testing.T) {
	var n atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) == 1 {
			w.Write([]byte(`{"cpuPercent": 10, "memoryMB": 100}`))
			return
		}
		w.Write([]byte(`{"cpuPercent": 30, "memoryMB": 300}`))
	}))
	defer srv.Close()

	s := NewSampler(srv.URL, nil)
	s.Start(context.Background())
	time.Sleep(1200 * time.Millisecond)
	s.Stop()

	if len(s.Samples()) < 2 {
		t.Skip("too few samples on slow machine")
	}
	sum := s.Summarize()
	if *sum.PeakMemoryMB != 300 {
		t.Errorf("PeakMemoryMB = %v, want 300", *sum.PeakMemoryMB)
	}
	if *sum.AvgMemoryMB <= 100 || *sum.AvgMemoryMB >= 300 {
		t.Errorf("AvgMemoryMB = %v, want between 100 and 300", *sum.AvgMemoryMB)
	}
}

func TestSampler_UnreachableEndpointDegradesGracefully(t *testing.T) {
	// A port nothing listens on: every poll fails and is swallowed.
	s := NewSampler("http://127.0.0.1:1/metrics", nil)
	s.Start(context.Background())
	time.Sleep(700 * time.Millisecond)
	s.Stop()

	if got := len(s.Samples()); got != 0 {
		t.Errorf("Samples() length = %d, want 0", got)
	}
	sum := s.Summarize()
	if sum.AvgCPUPercent != nil || sum.AvgMemoryMB != nil || sum.PeakMemoryMB != nil {
		t.Error("summary fields present with no samples, want all nil")
	}
}

func TestSampler_MalformedBodyDiscarded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unrelated": true}`))
	}))
	defer srv.Close()

	s := NewSampler(srv.URL, nil)
	s.Start(context.Background())
	time.Sleep(700 * time.Millisecond)
	s.Stop()

	if got := len(s.Samples()); got != 0 {
		t.Errorf("Samples() length = %d, want 0 for body without expected fields", got)
	}
}

func TestSampler_EmptyURLIsNoop(t *testing.T) {
	s := NewSampler("", nil)
	s.Start(context.Background())
	s.Stop()

	if got := len(s.Samples()); got != 0 {
		t.Errorf("Samples() length = %d, want 0", got)
	}
}

func TestSampler_StopIsIdempotentWithoutStart(t *testing.T) {
	s := NewSampler("http://127.0.0.1:1/metrics", nil)
	// Stop before Start must not panic.
	s.Stop()
}
