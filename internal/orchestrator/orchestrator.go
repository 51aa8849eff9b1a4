// Package orchestrator sequences named benchmark variants through the load
// generator, one at a time, while publishing a live progress and ETA model.
//
// Variants never run concurrently: overlapping load would contaminate each
// other's resource measurements. A single failing variant aborts the whole
// run, because a multi-variant result is only meaningful as a complete,
// comparable set.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/querylab/benchcore/internal/bench"
)

// tickInterval is the fixed redraw tick for progress snapshots.
const tickInterval = 250 * time.Millisecond

// Variant is one named configuration of the target being measured.
type Variant struct {
	Name     string `json:"name" yaml:"name"`
	Scenario string `json:"scenario" yaml:"scenario"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// EndpointRun records the completed measurement of one variant. Immutable
// once created.
type EndpointRun struct {
	Endpoint string        `json:"endpoint"`
	Variant  string        `json:"variant"`
	Scenario string        `json:"scenario"`
	Config   bench.Config  `json:"config"`
	Results  bench.Results `json:"results"`
}

// Orchestrator runs an ordered list of variants sequentially and keeps a
// ProgressState current throughout.
type Orchestrator struct {
	runner *bench.Runner

	mu           sync.Mutex
	state        ProgressState
	measureStart time.Time
	configured   time.Duration

	// updates is the observer channel. Sends are non-blocking; a slow
	// observer drops snapshots rather than stalling the run.
	updates chan ProgressState
}

// New creates an Orchestrator driving the given runner.
func New(runner *bench.Runner) *Orchestrator {
	return &Orchestrator{
		runner:  runner,
		updates: make(chan ProgressState, 64),
	}
}

// Updates returns the channel on which progress snapshots are published.
// Snapshots arrive on every phase transition and on a fixed redraw tick.
func (o *Orchestrator) Updates() <-chan ProgressState {
	return o.updates
}

// State returns a copy of the current progress state with progress and ETA
// computed at call time.
func (o *Orchestrator) State() ProgressState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked(time.Now())
}

// Run executes every variant in order with the shared config and returns
// the completed runs. On any variant failure the orchestration aborts and
// no partial result is returned.
func (o *Orchestrator) Run(ctx context.Context, variants []Variant, cfg bench.Config) ([]EndpointRun, error) {
	if len(variants) == 0 {
		close(o.updates)
		return nil, fmt.Errorf("no variants to run")
	}
	if err := cfg.Validate(); err != nil {
		close(o.updates)
		return nil, err
	}

	names := make([]string, len(variants))
	for i, v := range variants {
		names[i] = v.Name
	}

	now := time.Now()
	o.mu.Lock()
	o.configured = cfg.DurationValue()
	o.measureStart = time.Time{}
	o.state = ProgressState{
		IsRunning:          true,
		CurrentVariant:     names[0],
		TotalVariants:      len(variants),
		BenchmarkStartTime: now,
		CompletedVariants:  []string{},
		PendingVariants:    append([]string{}, names[1:]...),
		Duration:           cfg.Duration,
		IsWarmingUp:        false,
	}
	o.mu.Unlock()

	tickCtx, stopTick := context.WithCancel(ctx)
	tickDone := make(chan struct{})
	go func() {
		defer close(tickDone)
		o.runTicker(tickCtx)
	}()

	// The orchestrator is single-use: closing the channel is how observers
	// learn the run is over even if the final snapshot send is dropped.
	// The ticker must be fully stopped first so nothing publishes after
	// the close.
	defer func() {
		stopTick()
		<-tickDone
		o.mu.Lock()
		o.state.IsRunning = false
		o.publishLocked(time.Now())
		close(o.updates)
		o.mu.Unlock()
	}()

	o.mu.Lock()
	o.state.VariantStartTime = time.Now()
	o.publishLocked(time.Now())
	o.mu.Unlock()

	runs := make([]EndpointRun, 0, len(variants))
	for i, v := range variants {
		results, err := o.runner.Run(ctx, v.Endpoint, cfg, o)
		if err != nil {
			return nil, fmt.Errorf("variant %q failed: %w", v.Name, err)
		}

		runs = append(runs, EndpointRun{
			Endpoint: v.Endpoint,
			Variant:  v.Name,
			Scenario: v.Scenario,
			Config:   cfg,
			Results:  results,
		})

		// Record completion and advance to the next variant in one
		// critical section, so no tick ever observes a state where the
		// completed, in-flight and pending sets do not cover every
		// variant exactly once.
		o.mu.Lock()
		o.state.CompletedVariants = append(o.state.CompletedVariants, v.Name)
		if i+1 < len(variants) {
			o.state.CurrentVariant = names[i+1]
			o.state.CurrentVariantIndex = i + 1
			o.state.VariantStartTime = time.Now()
			o.state.PendingVariants = append([]string{}, names[i+2:]...)
			o.measureStart = time.Time{}
			o.publishLocked(time.Now())
		} else {
			// Nothing is in flight anymore; the deferred block
			// publishes the final snapshot. measureStart must be
			// cleared here too, or the final snapshot would count
			// the finished variant twice and report progress > 1.
			o.state.IsRunning = false
			o.measureStart = time.Time{}
		}
		o.mu.Unlock()
	}

	return runs, nil
}

// PhaseStarted implements bench.PhaseListener.
func (o *Orchestrator) PhaseStarted(p bench.Phase) {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch p {
	case bench.PhaseWarmup:
		o.state.IsWarmingUp = true
	case bench.PhaseMeasure:
		o.state.IsWarmingUp = false
		o.measureStart = time.Now()
	}
	o.publishLocked(time.Now())
}

// PhaseEnded implements bench.PhaseListener.
func (o *Orchestrator) PhaseEnded(p bench.Phase) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if p == bench.PhaseWarmup {
		o.state.IsWarmingUp = false
	}
	o.publishLocked(time.Now())
}

func (o *Orchestrator) runTicker(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.mu.Lock()
			o.publishLocked(time.Now())
			o.mu.Unlock()
		}
	}
}

// snapshotLocked builds an observer copy of the state. Caller holds o.mu.
func (o *Orchestrator) snapshotLocked(now time.Time) ProgressState {
	snap := o.state
	snap.CompletedVariants = append([]string{}, o.state.CompletedVariants...)
	snap.PendingVariants = append([]string{}, o.state.PendingVariants...)
	snap.Progress, snap.Remaining = progressAt(now, o.state, o.measureStart, o.configured)
	if o.runner != nil {
		snap.Live = o.runner.Live()
	}
	return snap
}

// publishLocked pushes a snapshot without blocking. Caller holds o.mu.
func (o *Orchestrator) publishLocked(now time.Time) {
	snap := o.snapshotLocked(now)
	select {
	case o.updates <- snap:
	default:
		// Observer is behind; drop the snapshot.
	}
}

var _ bench.PhaseListener = (*Orchestrator)(nil)
