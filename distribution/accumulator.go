package distribution

import (
	"slices"
)

// accumulator collects the mass of a law being built.
// It uses a dense slice when the value range is small
// compared to the expected number of terms, and a map
// otherwise. Since the operands are always iterated in
// ascending order, the summation order of each entry,
// and thus the result, is deterministic in both cases.
type accumulator struct {
	offset int
	dense  []float64
	sparse map[int]float64
}

func newAccumulator(lo, hi, terms int) (acc *accumulator) {
	acc = new(accumulator)
	if width := hi - lo + 1; width > 0 && width <= 4*terms+1024 {
		acc.offset = lo
		acc.dense = make([]float64, width)
	} else {
		acc.sparse = make(map[int]float64, terms)
	}
	return
}

func (acc *accumulator) add(v int, p float64) {
	if acc.dense != nil {
		acc.dense[v-acc.offset] += p
	} else {
		acc.sparse[v] += p
	}
}

// law returns the accumulated law without the
// entries with a mass smaller or equal to floor.
func (acc *accumulator) law(floor float64) (l *Law) {

	l = new(Law)

	if acc.dense != nil {
		for i, p := range acc.dense {
			if p > floor {
				l.support = append(l.support, i+acc.offset)
				l.mass = append(l.mass, p)
			}
		}
		return
	}

	l.support = make([]int, 0, len(acc.sparse))
	for v, p := range acc.sparse {
		if p > floor {
			l.support = append(l.support, v)
		}
	}

	slices.Sort(l.support)

	l.mass = make([]float64, len(l.support))
	for i, v := range l.support {
		l.mass[i] = acc.sparse[v]
	}

	return
}
