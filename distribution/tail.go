package distribution

import (
	"math"
)

// TailProbability returns P(|X| > t) for X ~ l, restricted to the
// values v with |v| <= max(support(l)).
//
// The masses at v and -v are added from the largest magnitude inward,
// so that the small tail terms are summed before the large central ones.
// Returns 0 if t >= max(support(l)).
func TailProbability(l *Law, t float64) (p float64) {

	l.mustNotBeEmpty("TailProbability")

	top := l.Max()

	if math.IsNaN(t) || t >= float64(top) {
		return 0
	}

	// Positive side walks down from the end of the support,
	// negative side walks up from the first value >= -max.
	i := len(l.support) - 1
	j := 0
	for j < len(l.support) && l.support[j] < -top {
		j++
	}

	inPos := func(i int) bool {
		return i >= 0 && l.support[i] > 0 && float64(l.support[i]) > t
	}

	inNeg := func(j int) bool {
		return j < len(l.support) && l.support[j] < 0 && float64(-l.support[j]) > t
	}

	for {
		pos, neg := inPos(i), inNeg(j)

		switch {
		case pos && neg:
			switch vi, vj := l.support[i], -l.support[j]; {
			case vi > vj:
				p += l.mass[i]
				i--
			case vi < vj:
				p += l.mass[j]
				j++
			default:
				p += l.mass[i] + l.mass[j]
				i--
				j++
			}
		case pos:
			p += l.mass[i]
			i--
		case neg:
			p += l.mass[j]
			j++
		default:
			if t < 0 {
				p += l.At(0)
			}
			return
		}
	}
}
