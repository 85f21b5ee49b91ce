// Package distribution implements finite discrete probability laws over the integers
// and the algebra used to model the decryption noise of lattice based encryption schemes:
// sums (convolutions) and products of independent variables, iterated sums and tail
// probabilities.
package distribution

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Floor is the underflow floor of the engine: entries with a mass
// smaller or equal to Floor are dropped after each operation.
var Floor = math.Ldexp(1, -300)

// Law is a finite discrete probability law over the integers.
// The support is stored in ascending order next to the
// corresponding masses. A Law is immutable: all operations
// return a new Law and never modify their operands.
type Law struct {
	support []int
	mass    []float64
}

// NewLaw creates a new [Law] from a map support -> mass.
// Entries with a non-positive mass are discarded.
// The masses are not normalized.
func NewLaw(table map[int]float64) (l *Law) {

	support := make([]int, 0, len(table))
	for v, p := range table {
		if p > 0 {
			support = append(support, v)
		}
	}

	slices.Sort(support)

	l = &Law{
		support: support,
		mass:    make([]float64, len(support)),
	}

	for i, v := range support {
		l.mass[i] = table[v]
	}

	return
}

// Dirac returns the degenerate law {v: 1}.
func Dirac(v int) *Law {
	return &Law{support: []int{v}, mass: []float64{1}}
}

// Len returns the size of the support.
func (l *Law) Len() int {
	return len(l.support)
}

// IsEmpty returns true if the support is empty.
func (l *Law) IsEmpty() bool {
	return l == nil || len(l.support) == 0
}

// Min returns the smallest value of the support.
func (l *Law) Min() int {
	l.mustNotBeEmpty("Min")
	return l.support[0]
}

// Max returns the largest value of the support.
func (l *Law) Max() int {
	l.mustNotBeEmpty("Max")
	return l.support[len(l.support)-1]
}

// At returns the mass at v.
func (l *Law) At(v int) float64 {
	if i, ok := slices.BinarySearch(l.support, v); ok {
		return l.mass[i]
	}
	return 0
}

// Support returns a copy of the support, in ascending order.
func (l *Law) Support() []int {
	return slices.Clone(l.support)
}

// Mass returns a copy of the masses, in the order of [Law.Support].
func (l *Law) Mass() []float64 {
	return slices.Clone(l.mass)
}

// Map returns the law as a map support -> mass.
func (l *Law) Map() (table map[int]float64) {
	table = make(map[int]float64, len(l.support))
	for i, v := range l.support {
		table[v] = l.mass[i]
	}
	return
}

// Range calls f on each (value, mass) pair in ascending
// order of value, until f returns false.
func (l *Law) Range(f func(v int, p float64) bool) {
	for i, v := range l.support {
		if !f(v, l.mass[i]) {
			return
		}
	}
}

// Sum returns the total mass.
func (l *Law) Sum() (s float64) {
	for _, p := range l.mass {
		s += p
	}
	return
}

// Mean returns the expectation of the law.
func (l *Law) Mean() (mu float64) {
	for i, v := range l.support {
		mu += float64(v) * l.mass[i]
	}
	return
}

// Variance returns the variance of the law.
func (l *Law) Variance() (sigma2 float64) {
	mu := l.Mean()
	for i, v := range l.support {
		x := float64(v) - mu
		sigma2 += x * x * l.mass[i]
	}
	return
}

// Equal returns true if both laws have the same support and if their
// masses differ by at most tol, absolute or relative to the largest of
// both masses.
func (l *Law) Equal(other *Law, tol float64) bool {

	if l.Len() != other.Len() {
		return false
	}

	for i := range l.support {
		if l.support[i] != other.support[i] {
			return false
		}

		a, b := l.mass[i], other.mass[i]
		if d := math.Abs(a - b); d > tol && d > tol*math.Max(a, b) {
			return false
		}
	}

	return true
}

// String returns a compact representation of the law.
func (l *Law) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, v := range l.support {
		if i != 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d: %.6g", v, l.mass[i])
	}
	sb.WriteString("}")
	return sb.String()
}

func (l *Law) mustNotBeEmpty(op string) {
	if l.IsEmpty() {
		panic(fmt.Errorf("cannot %s: law is empty", op))
	}
}
