package failure

import (
	"fmt"
	"math"

	"github.com/Pro7ech/decfail/noise"
	"github.com/Pro7ech/decfail/utils/bignum"
)

// oneShot is the evaluation of NTRU: the tail probability is computed
// from exact integer counts and its logarithm with e.Precision bits,
// so that probabilities far below the float64 range are not lost.
func oneShot(e *Evaluator, p noise.Parameters, report *Report) (float64, error) {

	m, err := noise.NTRUOneShot(p)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedParameter, err)
	}

	prec := e.precision()

	prob := m.Probability(prec)

	if report != nil {
		report.Tail, _ = prob.Float64()
		report.Support = [2]int{m.Value(0), m.Value(m.Counts.Degree())}
		report.Precision = prec
	}

	if prob.Sign() == 0 {
		return math.Inf(1), nil
	}

	log2p, _ := bignum.Log2(prob).Float64()

	return -log2p, nil
}
