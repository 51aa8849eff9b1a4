package orchestrator

import (
	"time"

	"github.com/querylab/benchcore/internal/bench"
)

// ProgressState is an ephemeral view of an in-flight multi-variant run.
// It is mutated only by the Orchestrator; observers receive copies and the
// state is discarded when the run finishes or fails. It is never persisted.
type ProgressState struct {
	IsRunning           bool
	CurrentVariant      string
	CurrentVariantIndex int
	TotalVariants       int
	VariantStartTime    time.Time
	BenchmarkStartTime  time.Time

	// CompletedVariants and PendingVariants are ordered. While running,
	// len(Completed) + 1 + len(Pending) == TotalVariants; the +1 is the
	// in-flight variant.
	CompletedVariants []string
	PendingVariants   []string

	// Duration is the configured duration string, snapshotted from the
	// run config.
	Duration string

	IsWarmingUp bool

	// Progress is the overall fractional progress in [0, 1].
	Progress float64

	// Remaining is the ETA for the rest of the run.
	Remaining time.Duration

	// Live carries in-flight counters for the current variant.
	Live bench.LiveSnapshot
}

// fixedOverheadEstimate pads the per-variant time estimate before any
// variant has completed, covering warmup and setup.
const fixedOverheadEstimate = 2 * time.Second

// progressAt computes the fractional progress and ETA at time now.
//
// Per-variant fraction is 0 during warmup, otherwise measured elapsed over
// the configured duration, capped at 1. Once at least one variant has
// completed, the per-variant time estimate is the observed average;
// before that it falls back to the configured duration plus the fixed
// overhead. During warmup the remaining estimate is widened by the current
// variant's full configured duration, since none of it has been measured.
func progressAt(now time.Time, st ProgressState, measureStart time.Time, configured time.Duration) (float64, time.Duration) {
	if st.TotalVariants == 0 {
		return 0, 0
	}

	fraction := 0.0
	if !st.IsWarmingUp && !measureStart.IsZero() && configured > 0 {
		fraction = float64(now.Sub(measureStart)) / float64(configured)
		if fraction > 1 {
			fraction = 1
		}
	}

	completed := len(st.CompletedVariants)
	progress := (float64(completed) + fraction) / float64(st.TotalVariants)

	perVariant := configured + fixedOverheadEstimate
	if completed > 0 {
		perVariant = now.Sub(st.BenchmarkStartTime) / time.Duration(completed)
	}

	remainingVariants := float64(st.TotalVariants-completed) - fraction
	remaining := time.Duration(remainingVariants * float64(perVariant))
	if st.IsWarmingUp {
		remaining += configured
	}
	if remaining < 0 {
		remaining = 0
	}

	return progress, remaining
}
