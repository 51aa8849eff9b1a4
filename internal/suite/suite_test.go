package suite

import (
	"testing"
)

func TestParse_Valid(t *testing.T) {
	data := []byte(`
name: orders comparison
metricsUrl: http://localhost:3000/metrics
config:
  duration: 10s
  concurrency: 10
  warmupRequests: 5
  httpTimeoutSeconds: 30
variants:
  - name: naive
    scenario: n-plus-one
    endpoint: http://localhost:3000/api/orders/naive
  - name: batched
    scenario: n-plus-one
    endpoint: http://localhost:3000/api/orders/batched
`)

	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if s.Name != "orders comparison" {
		t.Errorf("Name = %q", s.Name)
	}
	if len(s.Variants) != 2 {
		t.Fatalf("len(Variants) = %d, want 2", len(s.Variants))
	}
	if s.Variants[0].Name != "naive" || s.Variants[1].Name != "batched" {
		t.Errorf("variant order not preserved: %+v", s.Variants)
	}
	if s.Config.Concurrency != 10 {
		t.Errorf("Concurrency = %d, want 10", s.Config.Concurrency)
	}
	if s.MetricsURL != "http://localhost:3000/metrics" {
		t.Errorf("MetricsURL = %q", s.MetricsURL)
	}
}

func TestParse_DefaultsName(t *testing.T) {
	data := []byte(`
config:
  duration: 1s
  concurrency: 1
variants:
  - name: only
    endpoint: http://localhost:1234/
`)
	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.Name == "" {
		t.Error("Name not defaulted")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no variants", "config:\n  duration: 1s\n  concurrency: 1\n"},
		{"unnamed variant", "config:\n  duration: 1s\n  concurrency: 1\nvariants:\n  - endpoint: http://x/\n"},
		{"variant without endpoint", "config:\n  duration: 1s\n  concurrency: 1\nvariants:\n  - name: a\n"},
		{"zero concurrency", "config:\n  duration: 1s\n  concurrency: 0\nvariants:\n  - name: a\n    endpoint: http://x/\n"},
		{"not yaml", "{{{{"},
	}
	for _, tt := range tests {
		if _, err := Parse([]byte(tt.data)); err == nil {
			t.Errorf("Parse(%s) = nil error, want failure", tt.name)
		}
	}
}
