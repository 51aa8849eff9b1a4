package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/querylab/benchcore/internal/bench"
	"github.com/querylab/benchcore/internal/orchestrator"
	"github.com/querylab/benchcore/internal/store"
)

func TestReporter_RenderProgressNonTTY(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.renderProgress(orchestrator.ProgressState{
		IsRunning:           true,
		CurrentVariant:      "baseline",
		CurrentVariantIndex: 0,
		TotalVariants:       3,
		IsWarmingUp:         true,
		Progress:            0.25,
		Remaining:           42 * time.Second,
		Live:                bench.LiveSnapshot{TotalRequests: 10, Errors: 1},
	})

	out := buf.String()
	for _, want := range []string{"baseline", "1/3", "warming up", "25%", "42s"} {
		if !strings.Contains(out, want) {
			t.Errorf("progress line %q missing %q", out, want)
		}
	}
}

func TestReporter_PrintRun(t *testing.T) {
	avgCPU := 33.0
	avgMem := 100.0
	peakMem := 140.0
	run := &store.BenchmarkRun{
		ID:        "abc-123",
		Name:      "orders",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Hardware:  orchestrator.Hardware{OS: "linux", CPU: "amd64 x8", MemoryMB: 16384, Runtime: "go1.23.5"},
		Runs: []orchestrator.EndpointRun{
			{
				Variant:  "naive",
				Scenario: "n-plus-one",
				Results: bench.Results{
					TotalRequests:     100,
					RequestsPerSecond: 50,
					LatencyP50:        12.5,
					Errors:            2,
					AvgCPUPercent:     &avgCPU,
					AvgMemoryMB:       &avgMem,
					PeakMemoryMB:      &peakMem,
				},
			},
		},
	}

	var buf bytes.Buffer
	NewReporter(&buf).PrintRun(run)

	out := buf.String()
	for _, want := range []string{"orders", "abc-123", "naive", "n-plus-one", "12.5", "linux"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReporter_PrintRunList(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.PrintRunList(nil)
	if !strings.Contains(buf.String(), "no saved runs") {
		t.Errorf("empty listing output = %q", buf.String())
	}

	buf.Reset()
	r.PrintRunList([]store.BenchmarkRun{
		{ID: "id-1", Name: "first", CreatedAt: time.Now()},
	})
	if !strings.Contains(buf.String(), "id-1") || !strings.Contains(buf.String(), "first") {
		t.Errorf("listing output = %q", buf.String())
	}
}
