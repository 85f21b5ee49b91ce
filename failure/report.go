package failure

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/Pro7ech/decfail/noise"
)

// Report stores the result of an evaluation along with its diagnostics.
type Report struct {
	Scheme      Scheme
	Parameters  noise.Parameters
	Log2Failure float64
	Elapsed     time.Duration

	// Tail is the tail probability of the final law, or of
	// the one-shot law for NTRU, as a float64.
	Tail float64
	// Support is the [min, max] support of the final law.
	Support [2]int
	// Precision is the precision in bits of the NTRU evaluation.
	Precision uint

	// Workers is the size of the worker pool of the 3n-cyclotomic schemes.
	Workers int
	// Tails and Contributions are the tail probability and the
	// contribution to ln(P_success) of each block, the last entry
	// being the one of the last block.
	Tails         []float64
	Contributions []float64
	// LogSuccess is ln(P_success).
	LogSuccess float64
	// Mean, Median and Min of the contributions of the regular blocks.
	Mean, Median, Min float64
}

func (r *Report) summarize() {
	if len(r.Contributions) < 2 {
		return
	}
	values := r.Contributions[:len(r.Contributions)-1]
	r.Mean, _ = stats.Mean(values)
	r.Median, _ = stats.Median(values)
	r.Min, _ = stats.Min(values)
}

// Blocks returns the number of regular blocks of the evaluation,
// or 0 if the scheme is not over a 3n-cyclotomic ring.
func (r *Report) Blocks() int {
	return max(len(r.Contributions)-1, 0)
}

// String returns a human readable summary of the report.
func (r *Report) String() string {

	var sb strings.Builder

	fmt.Fprintf(&sb, "scheme: %s\n", r.Scheme)

	if record, err := r.Scheme.Parameters(r.Parameters); err == nil {
		schema, _ := r.Scheme.Schema()
		for _, name := range schema {
			fmt.Fprintf(&sb, "  %-9s = %v\n", name, record[name])
		}
	}

	switch r.Scheme {
	case NTRU:
		fmt.Fprintf(&sb, "support: [%d, %d]\n", r.Support[0], r.Support[1])
		fmt.Fprintf(&sb, "precision: %d bits\n", r.Precision)
		fmt.Fprintf(&sb, "failure probability: 2^-%.2f\n", r.Log2Failure)
	case RLWE3n, MLWE3n:
		fmt.Fprintf(&sb, "blocks: %d (workers: %d)\n", r.Blocks(), r.Workers)
		fmt.Fprintf(&sb, "block contributions: mean=%.4g median=%.4g min=%.4g\n", r.Mean, r.Median, r.Min)
		fmt.Fprintf(&sb, "ln(success probability): %.6g\n", r.LogSuccess)
		fmt.Fprintf(&sb, "failure probability: 2^%.2f\n", r.Log2Failure)
	default:
		fmt.Fprintf(&sb, "support: [%d, %d]\n", r.Support[0], r.Support[1])
		fmt.Fprintf(&sb, "tail probability: 2^%.2f\n", math.Log2(r.Tail))
		fmt.Fprintf(&sb, "failure probability: 2^%.2f\n", r.Log2Failure)
	}

	fmt.Fprintf(&sb, "elapsed: %s\n", r.Elapsed)

	return sb.String()
}
