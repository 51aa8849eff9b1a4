package bench

// Results is the outcome of one measured run against one endpoint.
// Immutable once computed.
//
// The resource fields are pointers because absence means "no samples were
// collected", a normal outcome when the metrics endpoint is missing; they
// are omitted from JSON rather than reported as zero.
type Results struct {
	// TotalRequests is successes plus errors. Warmup never counts.
	TotalRequests int64 `json:"totalRequests"`

	// RequestsPerSecond is successes divided by the measured duration.
	RequestsPerSecond float64 `json:"requestsPerSecond"`

	// Latency percentiles in milliseconds, nearest-rank over the raw
	// sample. All zero when every request failed.
	LatencyP50 float64 `json:"latencyP50"`
	LatencyP95 float64 `json:"latencyP95"`
	LatencyP99 float64 `json:"latencyP99"`

	// Errors counts failed or timed-out requests.
	Errors int64 `json:"errors"`

	// DurationMs is the actual measured wall-clock span, which may run
	// slightly past the configured duration while workers drain.
	DurationMs float64 `json:"durationMs"`

	AvgCPUPercent *float64 `json:"avgCpuPercent,omitempty"`
	AvgMemoryMB   *float64 `json:"avgMemoryMB,omitempty"`
	PeakMemoryMB  *float64 `json:"peakMemoryMB,omitempty"`
}

// LiveSnapshot is a cheap point-in-time view of an in-flight run, used by
// progress observers. Percentiles come from the live HDR histogram and are
// bucket-quantized; the final Results recomputes them from raw samples.
type LiveSnapshot struct {
	TotalRequests int64
	Errors        int64
	LatencyP50    float64
	LatencyP95    float64
	LatencyP99    float64
}
