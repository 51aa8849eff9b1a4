// Package output renders benchmark progress and results on the console.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/querylab/benchcore/internal/orchestrator"
	"github.com/querylab/benchcore/internal/store"
)

// Reporter consumes progress snapshots and prints a live status line, then
// a final comparison table. It is the fire-and-forget observer side of the
// orchestrator's update channel: it can lag freely, the orchestrator drops
// snapshots it cannot deliver.
type Reporter struct {
	w     io.Writer
	isTTY bool

	heading *color.Color
	good    *color.Color
	bad     *color.Color
	dim     *color.Color
}

// NewReporter creates a Reporter writing to w. Colors are enabled only
// when w is a terminal.
func NewReporter(w io.Writer) *Reporter {
	r := &Reporter{
		w:       w,
		heading: color.New(color.FgCyan, color.Bold),
		good:    color.New(color.FgGreen),
		bad:     color.New(color.FgRed),
		dim:     color.New(color.Faint),
	}

	if f, ok := w.(*os.File); ok {
		r.isTTY = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if !r.isTTY {
		r.heading.DisableColor()
		r.good.DisableColor()
		r.bad.DisableColor()
		r.dim.DisableColor()
	}
	return r
}

// Watch drains snapshots until the channel closes or the run stops,
// rendering a status line per snapshot.
func (r *Reporter) Watch(updates <-chan orchestrator.ProgressState) {
	for snap := range updates {
		r.renderProgress(snap)
		if !snap.IsRunning {
			fmt.Fprintln(r.w)
			return
		}
	}
}

func (r *Reporter) renderProgress(snap orchestrator.ProgressState) {
	phase := "measuring"
	if snap.IsWarmingUp {
		phase = "warming up"
	}
	if !snap.IsRunning {
		phase = "done"
	}

	line := fmt.Sprintf("%s %3.0f%% | %s (%d/%d) %s | reqs %d err %d | p95 %.1fms | eta %s",
		progressBar(snap.Progress, 24),
		snap.Progress*100,
		snap.CurrentVariant,
		snap.CurrentVariantIndex+1,
		snap.TotalVariants,
		phase,
		snap.Live.TotalRequests,
		snap.Live.Errors,
		snap.Live.LatencyP95,
		snap.Remaining.Round(time.Second),
	)

	if r.isTTY {
		fmt.Fprintf(r.w, "\r\033[K%s", line)
	} else {
		fmt.Fprintln(r.w, line)
	}
}

func progressBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	filled := int(pct * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// PrintRun renders one saved run as a comparison table across variants.
func (r *Reporter) PrintRun(run *store.BenchmarkRun) {
	r.heading.Fprintf(r.w, "%s", run.Name)
	r.dim.Fprintf(r.w, "  %s  %s\n", run.ID, run.CreatedAt.Format(time.RFC3339))
	r.dim.Fprintf(r.w, "%s, %s, %d MB, %s\n\n", run.Hardware.OS, run.Hardware.CPU, run.Hardware.MemoryMB, run.Hardware.Runtime)

	fmt.Fprintf(r.w, "%-20s %-14s %10s %10s %9s %9s %9s %7s\n",
		"VARIANT", "SCENARIO", "REQUESTS", "REQ/S", "P50(ms)", "P95(ms)", "P99(ms)", "ERRORS")

	for _, er := range run.Runs {
		res := er.Results
		errCol := r.good
		if res.Errors > 0 {
			errCol = r.bad
		}
		fmt.Fprintf(r.w, "%-20s %-14s %10d %10.1f %9.1f %9.1f %9.1f %s\n",
			er.Variant, er.Scenario,
			res.TotalRequests, res.RequestsPerSecond,
			res.LatencyP50, res.LatencyP95, res.LatencyP99,
			errCol.Sprintf("%7d", res.Errors))

		if res.AvgCPUPercent != nil {
			r.dim.Fprintf(r.w, "%-20s cpu avg %.1f%%  mem avg %.0f MB  mem peak %.0f MB\n",
				"", *res.AvgCPUPercent, deref(res.AvgMemoryMB), deref(res.PeakMemoryMB))
		}
	}
}

// PrintRunList renders the history listing.
func (r *Reporter) PrintRunList(runs []store.BenchmarkRun) {
	if len(runs) == 0 {
		r.dim.Fprintln(r.w, "no saved runs")
		return
	}
	fmt.Fprintf(r.w, "%-38s %-22s %-20s %8s\n", "ID", "CREATED", "NAME", "VARIANTS")
	for _, run := range runs {
		fmt.Fprintf(r.w, "%-38s %-22s %-20s %8d\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Name, len(run.Runs))
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
