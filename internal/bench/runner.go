// Package bench drives concurrent load against a single endpoint for a
// bounded wall-clock window, separating warmup from measurement.
//
// The model is a closed loop: N workers each issue one request at a time,
// as fast as the target answers, until the deadline passes. There is no
// target request rate and no retry. Each worker independently polls the
// wall clock, so instantaneous concurrency floats between 0 and N
// depending on individual request latency; that approximation is part of
// the contract, not a bug.
package bench

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/querylab/benchcore/internal/stats"
	"github.com/querylab/benchcore/internal/sysmetrics"
)

// Runner produces one Results for one endpoint given one Config.
//
// A Runner may be reused for sequential runs but not concurrently.
type Runner struct {
	client     *http.Client
	metricsURL string

	// Live aggregates for progress observers only. The authoritative
	// counts are folded from per-worker results after the join.
	liveTotal  atomic.Int64
	liveErrors atomic.Int64
	liveHist   *stats.Histogram
}

// NewRunner creates a Runner that sends requests with client and samples
// resource usage from metricsURL (empty to skip sampling).
func NewRunner(client *http.Client, metricsURL string) *Runner {
	return &Runner{
		client:     client,
		metricsURL: metricsURL,
		liveHist:   stats.NewHistogram(),
	}
}

// workerResult is the aggregate a single worker owns and hands back when
// it finishes. Workers never share mutable state; the runner folds these
// after every worker has joined.
type workerResult struct {
	successes int64
	errors    int64
	latencies []float64 // milliseconds, completion order
}

// Run executes the warmup phase then the measurement phase and returns the
// computed results.
//
// Per-request failures are counted, never returned; the error return is
// reserved for the fatal class (invalid configuration, cancelled context).
func (r *Runner) Run(ctx context.Context, endpoint string, cfg Config, listener PhaseListener) (Results, error) {
	if err := cfg.Validate(); err != nil {
		return Results{}, err
	}
	if err := validateEndpoint(endpoint); err != nil {
		return Results{}, err
	}
	if listener == nil {
		listener = NopListener{}
	}

	r.liveTotal.Store(0)
	r.liveErrors.Store(0)
	r.liveHist.Reset()

	r.warmup(ctx, endpoint, cfg, listener)

	if err := ctx.Err(); err != nil {
		return Results{}, err
	}

	return r.measure(ctx, endpoint, cfg, listener)
}

// warmup issues the priming calls sequentially. Successes and failures are
// both ignored; nothing here reaches the measured statistics.
func (r *Runner) warmup(ctx context.Context, endpoint string, cfg Config, listener PhaseListener) {
	listener.PhaseStarted(PhaseWarmup)
	for i := 0; i < cfg.WarmupRequests; i++ {
		if ctx.Err() != nil {
			break
		}
		r.doRequest(ctx, endpoint, cfg.Timeout())
	}
	listener.PhaseEnded(PhaseWarmup)
}

func (r *Runner) measure(ctx context.Context, endpoint string, cfg Config, listener PhaseListener) (Results, error) {
	sampler := sysmetrics.NewSampler(r.metricsURL, nil)
	sampler.Start(ctx)

	listener.PhaseStarted(PhaseMeasure)
	start := time.Now()
	deadline := start.Add(cfg.DurationValue())

	resultsCh := make(chan workerResult, cfg.Concurrency)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resultsCh <- r.runWorker(ctx, endpoint, cfg.Timeout(), deadline)
		}()
	}
	wg.Wait()
	close(resultsCh)

	elapsed := time.Since(start)
	sampler.Stop()
	listener.PhaseEnded(PhaseMeasure)

	var successes, errors int64
	var latencies []float64
	for wr := range resultsCh {
		successes += wr.successes
		errors += wr.errors
		latencies = append(latencies, wr.latencies...)
	}

	durationMs := float64(elapsed) / float64(time.Millisecond)
	rps := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rps = float64(successes) / secs
	}

	res := Results{
		TotalRequests:     successes + errors,
		RequestsPerSecond: rps,
		LatencyP50:        stats.Percentile(latencies, 50),
		LatencyP95:        stats.Percentile(latencies, 95),
		LatencyP99:        stats.Percentile(latencies, 99),
		Errors:            errors,
		DurationMs:        durationMs,
	}

	summary := sampler.Summarize()
	res.AvgCPUPercent = summary.AvgCPUPercent
	res.AvgMemoryMB = summary.AvgMemoryMB
	res.PeakMemoryMB = summary.PeakMemoryMB

	return res, nil
}

// runWorker loops until the wall clock passes deadline. On success the
// latency is kept; on failure or timeout only the error count moves, and
// the worker proceeds immediately to its next iteration.
func (r *Runner) runWorker(ctx context.Context, endpoint string, timeout time.Duration, deadline time.Time) workerResult {
	var wr workerResult
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			break
		}

		reqStart := time.Now()
		err := r.doRequest(ctx, endpoint, timeout)
		if err != nil {
			wr.errors++
			r.liveErrors.Add(1)
			r.liveTotal.Add(1)
			continue
		}

		latency := time.Since(reqStart)
		wr.successes++
		wr.latencies = append(wr.latencies, float64(latency)/float64(time.Millisecond))
		r.liveTotal.Add(1)
		r.liveHist.Record(latency)
	}
	return wr
}

// doRequest issues one GET bounded by timeout. Any status >= 400 is a
// failure; the body content is irrelevant to the engine and is drained so
// the connection can be reused.
func (r *Runner) doRequest(ctx context.Context, endpoint string, timeout time.Duration) error {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	_, copyErr := io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &statusError{code: resp.StatusCode}
	}
	// A connection dying mid-body after a 2xx status line is still a
	// failed request; the response never completed.
	if copyErr != nil {
		return copyErr
	}
	return nil
}

// Live returns a snapshot of the in-flight aggregates for progress display.
func (r *Runner) Live() LiveSnapshot {
	return LiveSnapshot{
		TotalRequests: r.liveTotal.Load(),
		Errors:        r.liveErrors.Load(),
		LatencyP50:    r.liveHist.QuantileMs(50),
		LatencyP95:    r.liveHist.QuantileMs(95),
		LatencyP99:    r.liveHist.QuantileMs(99),
	}
}

// validateEndpoint rejects targets no client could ever reach. This is the
// fatal class: a request-level failure against a routable endpoint is data,
// an unusable endpoint aborts the run before any traffic is sent.
func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: unsupported scheme %q", endpoint, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}
	return nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return "unexpected status " + strconv.Itoa(e.code)
}
