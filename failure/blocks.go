package failure

import (
	"errors"
	"fmt"
	"math"

	"github.com/Pro7ech/decfail/distribution"
	"github.com/Pro7ech/decfail/noise"
	"github.com/Pro7ech/decfail/utils/concurrency"
)

// blockTask is the unit of work of the parallel reduction:
// the evaluation of the tail probability of one block.
// The index model.Blocks designates the last block.
type blockTask struct {
	index int
	model *noise.BlockModel
}

// run returns the tail probability of the block and its contribution
// multiplicity * log1p(-2*tail) to the logarithm of the success probability.
func (t blockTask) run() (tail, contribution float64, err error) {

	var law *distribution.Law
	multiplicity := 1

	if t.index == t.model.Blocks {
		law, multiplicity = t.model.Last()
	} else {
		law = t.model.Block(t.index)
	}

	tail = distribution.TailProbability(law, t.model.Threshold)

	if 2*tail >= 1 {
		return tail, 0, fmt.Errorf("%w: block %d: tail probability %v is not smaller than 1/2", ErrInternal, t.index, tail)
	}

	return tail, float64(multiplicity) * math.Log1p(-2*tail), nil
}

// reduce evaluates all the blocks of the model on at most e.Workers
// goroutines and returns the natural logarithm of the success probability.
// The contributions are summed in the order of the blocks, so that the
// result does not depend on the number of workers.
func (e *Evaluator) reduce(m *noise.BlockModel, report *Report) (logPSuccess float64, err error) {

	tails := make([]float64, m.Blocks+1)
	contributions := make([]float64, m.Blocks+1)

	pool := concurrency.NewWorkerPool(e.Workers)

	pool.RunRange(len(contributions), func(worker, i int) (err error) {
		tails[i], contributions[i], err = blockTask{index: i, model: m}.run()
		return
	})

	if err = pool.Wait(); err != nil {
		if errors.Is(err, ErrInternal) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", ErrWorkerFailure, err)
	}

	for _, c := range contributions {
		logPSuccess += c
	}

	if report != nil {
		report.Workers = cap(pool.Resources)
		report.Tails = tails
		report.Contributions = contributions
		report.LogSuccess = logPSuccess
		report.summarize()
	}

	return
}

// blocks returns the evaluation of a scheme over a 3n-cyclotomic ring.
func blocks(build func(noise.Parameters) (*noise.BlockModel, error)) evaluation {
	return func(e *Evaluator, p noise.Parameters, report *Report) (float64, error) {

		m, err := build(p)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrMalformedParameter, err)
		}

		logPSuccess, err := e.reduce(m, report)
		if err != nil {
			return 0, err
		}

		// P_failure = 1 - exp(logPSuccess) ~ -logPSuccess
		if logPSuccess >= 0 {
			return math.Inf(-1), nil
		}

		return math.Log2(-logPSuccess), nil
	}
}
