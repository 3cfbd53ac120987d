// Package bench provides benchmarking primitives for the lipi bench command.
package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Run result and stats
// ---------------------------------------------------------------------------

// RunResult holds the timing and size of a single conversion run.
type RunResult struct {
	Index      int
	Cold       bool // true for the first run, which also parses the tables
	Duration   time.Duration
	InputBytes int
	Throughput float64 // MiB/s
}

// Stats holds aggregate timing statistics across all runs.
type Stats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// ComputeStats calculates min, max and mean over a slice of durations.
// An empty slice yields zero Stats.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}
	mn, mx := durations[0], durations[0]
	var sum time.Duration
	for _, d := range durations {
		if d < mn {
			mn = d
		}
		if d > mx {
			mx = d
		}
		sum += d
	}
	return Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / time.Duration(len(durations)),
	}
}

// ---------------------------------------------------------------------------
// Throughput helpers
// ---------------------------------------------------------------------------

const mebibyte = 1 << 20

// CalcThroughput returns input MiB converted per second.
// Returns 0 if dur is zero to avoid division by zero.
func CalcThroughput(inputBytes int, dur time.Duration) float64 {
	if dur <= 0 {
		return 0
	}
	return float64(inputBytes) / mebibyte / dur.Seconds()
}

// MeanThroughput averages throughput over the warm runs, or over all runs
// when there is only a cold one.
func MeanThroughput(runs []RunResult) float64 {
	var (
		total float64
		n     int
	)
	for _, r := range runs {
		if r.Cold && len(runs) > 1 {
			continue
		}
		total += r.Throughput
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// ---------------------------------------------------------------------------
// Throughput threshold gate
// ---------------------------------------------------------------------------

// CheckThroughputThreshold returns an error if mean < threshold.
// A threshold of 0 disables the gate.
func CheckThroughputThreshold(mean, threshold float64) error {
	if threshold <= 0 {
		return nil
	}
	if mean < threshold {
		return fmt.Errorf("mean throughput %.3f MiB/s below threshold %.3f MiB/s", mean, threshold)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Output formatters
// ---------------------------------------------------------------------------

// FormatTable writes a human-readable ASCII table of bench results to w.
func FormatTable(runs []RunResult, stats Stats, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %10s  %10s\n", "Run", "Cold", "MS", "Bytes", "MiB/s")
	fmt.Fprintln(sb, strings.Repeat("-", 48))

	for _, r := range runs {
		cold := ""
		if r.Cold {
			cold = "yes"
		}
		fmt.Fprintf(sb, "%-5d  %-5s  %10.3f  %10d  %10.3f\n",
			r.Index+1,
			cold,
			float64(r.Duration.Microseconds())/1000,
			r.InputBytes,
			r.Throughput,
		)
	}

	fmt.Fprintln(sb, strings.Repeat("-", 48))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (min)\n", "", "", float64(stats.Min.Microseconds())/1000)
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (mean)\n", "", "", float64(stats.Mean.Microseconds())/1000)
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (max)\n", "", "", float64(stats.Max.Microseconds())/1000)

	fmt.Fprint(w, sb.String())
}

// jsonReport is the top-level JSON structure emitted by FormatJSON.
type jsonReport struct {
	Runs  []jsonRun `json:"runs"`
	Stats jsonStats `json:"stats"`
}

type jsonRun struct {
	Index      int     `json:"index"`
	Cold       bool    `json:"cold"`
	DurationMS float64 `json:"duration_ms"`
	InputBytes int     `json:"input_bytes"`
	MiBPerSec  float64 `json:"mib_per_sec"`
}

type jsonStats struct {
	MinMS  float64 `json:"min_ms"`
	MeanMS float64 `json:"mean_ms"`
	MaxMS  float64 `json:"max_ms"`
}

// FormatJSON writes a JSON report of bench results to w.
func FormatJSON(runs []RunResult, stats Stats, w io.Writer) {
	jr := jsonReport{
		Runs: make([]jsonRun, len(runs)),
		Stats: jsonStats{
			MinMS:  float64(stats.Min.Microseconds()) / 1000,
			MeanMS: float64(stats.Mean.Microseconds()) / 1000,
			MaxMS:  float64(stats.Max.Microseconds()) / 1000,
		},
	}
	for i, r := range runs {
		jr.Runs[i] = jsonRun{
			Index:      r.Index,
			Cold:       r.Cold,
			DurationMS: float64(r.Duration.Microseconds()) / 1000,
			InputBytes: r.InputBytes,
			MiBPerSec:  r.Throughput,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(jr)
}
