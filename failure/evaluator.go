// Package failure implements the evaluation of the decryption failure probability
// of lattice based encryption schemes: the dispatch of a scheme to its noise model,
// the tail probability of the decryption error and the parallel reduction of the
// per-block contributions of the schemes over 3n-cyclotomic rings.
package failure

import (
	"fmt"
	"math"
	"time"

	"github.com/Pro7ech/decfail/distribution"
	"github.com/Pro7ech/decfail/noise"
)

// DefaultPrecision is the default precision in bits of the
// arbitrary precision evaluation of NTRU, i.e. 50 decimal digits.
const DefaultPrecision = 167

// Evaluator computes decryption failure probabilities.
// An Evaluator holds no state and can be used concurrently.
type Evaluator struct {
	// Workers is the number of blocks evaluated concurrently
	// for the schemes over 3n-cyclotomic rings.
	// If smaller than one, runtime.NumCPU() is used.
	Workers int

	// Precision is the precision in bits of the arbitrary
	// precision evaluation of NTRU. If zero, DefaultPrecision is used.
	Precision uint
}

// NewEvaluator returns a new [Evaluator].
func NewEvaluator(workers int, precision uint) *Evaluator {
	return &Evaluator{Workers: workers, Precision: precision}
}

func (e *Evaluator) precision() uint {
	if e.Precision == 0 {
		return DefaultPrecision
	}
	return e.Precision
}

// ComputeFailureProbability computes the decryption failure probability of the
// scheme for the given parameters with a default [Evaluator].
// See [Evaluator.ComputeFailureProbability].
func ComputeFailureProbability(scheme Scheme, record map[string]float64) (float64, error) {
	return new(Evaluator).ComputeFailureProbability(scheme, record)
}

// ComputeFailureProbability computes the decryption failure probability of the
// scheme for the given parameters. The keys of the record must be exactly the
// names returned by [Scheme.Schema].
//
// The returned value follows the convention of the scheme:
//   - LWE, LWR: log2(p) where p is the probability that a coefficient fails.
//   - RLWE_2n, MLWE_2n, MLWE_ss, RLWR, MLWR: log2(n*p).
//   - RLWE_3n, MLWE_3n: log2(-ln(P_success)), or -Inf if P_success >= 1.
//   - NTRU: -log2(p), or +Inf if p = 0.
//
// The returned error wraps one of [ErrUnknownScheme], [ErrMalformedParameter],
// [ErrInternal] or [ErrWorkerFailure].
func (e *Evaluator) ComputeFailureProbability(scheme Scheme, record map[string]float64) (log2p float64, err error) {
	return e.evaluate(scheme, record, nil)
}

// ComputeFailureReport computes the decryption failure probability of the scheme
// for the given parameters and returns it along with the diagnostics of the evaluation.
func (e *Evaluator) ComputeFailureReport(scheme Scheme, record map[string]float64) (report *Report, err error) {

	report = &Report{Scheme: scheme}

	now := time.Now()

	if report.Log2Failure, err = e.evaluate(scheme, record, report); err != nil {
		return nil, err
	}

	report.Elapsed = time.Since(now)

	return
}

func (e *Evaluator) evaluate(scheme Scheme, record map[string]float64, report *Report) (log2p float64, err error) {

	if !scheme.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrUnknownScheme, scheme)
	}

	s := schemes[scheme]

	var p noise.Parameters
	if p, err = noise.NewParameters(s.schema, record); err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrMalformedParameter, scheme, err)
	}

	if report != nil {
		report.Parameters = p
	}

	defer func() {
		if r := recover(); r != nil {
			log2p, err = 0, fmt.Errorf("%w: %s: %v", ErrInternal, scheme, r)
		}
	}()

	if log2p, err = s.eval(e, p, report); err != nil {
		return 0, fmt.Errorf("%s: %w", scheme, err)
	}

	return
}

// finalError returns the evaluation of a scheme whose decryption error
// is described by a single law. If scaled is true, the probability of
// failure of a coefficient is multiplied by the ring dimension.
func finalError(build func(noise.Parameters) (*distribution.Law, error), scaled bool) evaluation {
	return func(e *Evaluator, p noise.Parameters, report *Report) (float64, error) {

		law, err := build(p)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrMalformedParameter, err)
		}

		tail := distribution.TailProbability(law, p.Threshold)

		if report != nil {
			report.Tail = tail
			report.Support = [2]int{law.Min(), law.Max()}
		}

		if scaled {
			tail *= float64(p.N)
		}

		if tail <= 0 {
			return 0, fmt.Errorf("%w: failure probability is zero for threshold %v, its logarithm is undefined", ErrInternal, p.Threshold)
		}

		return math.Log2(tail), nil
	}
}
