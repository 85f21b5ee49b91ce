package distribution

import (
	"fmt"
	"math/bits"
)

// Convolve returns the law of X+Y for independent X ~ a and Y ~ b.
// Entries of mass below [Floor] are pruned from the result.
func Convolve(a, b *Law) (c *Law) {

	a.mustNotBeEmpty("Convolve")
	b.mustNotBeEmpty("Convolve")

	acc := newAccumulator(a.Min()+b.Min(), a.Max()+b.Max(), a.Len()*b.Len())

	for i, x := range a.support {
		px := a.mass[i]
		for j, y := range b.support {
			acc.add(x+y, px*b.mass[j])
		}
	}

	return acc.law(Floor)
}

// Product returns the law of X*Y for independent X ~ a and Y ~ b.
// Entries of mass below [Floor] are pruned from the result.
func Product(a, b *Law) (c *Law) {

	a.mustNotBeEmpty("Product")
	b.mustNotBeEmpty("Product")

	corners := [4]int{a.Min() * b.Min(), a.Min() * b.Max(), a.Max() * b.Min(), a.Max() * b.Max()}
	lo, hi := corners[0], corners[0]
	for _, x := range corners[1:] {
		lo = min(lo, x)
		hi = max(hi, x)
	}

	acc := newAccumulator(lo, hi, a.Len()*b.Len())

	for i, x := range a.support {
		px := a.mass[i]
		for j, y := range b.support {
			acc.add(x*y, px*b.mass[j])
		}
	}

	return acc.law(Floor)
}

// Power returns the law of the sum of i independent copies of X ~ a,
// computed by binary exponentiation: O(log(i)) convolutions,
// each of them followed by a pruning of the entries below [Floor].
// Power(a, 0) returns [Dirac](0).
func Power(a *Law, i int) (c *Law) {

	a.mustNotBeEmpty("Power")

	if i < 0 {
		panic(fmt.Errorf("cannot Power: exponent %d is negative", i))
	}

	c = Dirac(0)
	for j := bits.Len64(uint64(i)) - 1; j >= 0; j-- {
		c = Convolve(c, c)
		if (i>>j)&1 == 1 {
			c = Convolve(c, a)
		}
	}

	return
}

// Prune returns a copy of a without the entries of mass smaller or equal to [Floor].
func Prune(a *Law) (c *Law) {
	c = new(Law)
	for i, v := range a.support {
		if p := a.mass[i]; p > Floor {
			c.support = append(c.support, v)
			c.mass = append(c.mass, p)
		}
	}
	return
}

// Scale returns the law of c*X for X ~ a.
func Scale(a *Law, c int) *Law {

	a.mustNotBeEmpty("Scale")

	if c == 0 {
		return Dirac(0)
	}

	l := &Law{
		support: make([]int, a.Len()),
		mass:    make([]float64, a.Len()),
	}

	n := a.Len()
	for i, v := range a.support {
		// A negative factor reverses the order of the support.
		j := i
		if c < 0 {
			j = n - 1 - i
		}
		l.support[j] = c * v
		l.mass[j] = a.mass[i]
	}

	return l
}

// Joint returns the law of f(a1, a2, b1, b2) for independent
// a1, a2 ~ a and b1, b2 ~ b. The cost is quartic in the size
// of the supports.
func Joint(a, b *Law, f func(a1, a2, b1, b2 int) int) *Law {

	a.mustNotBeEmpty("Joint")
	b.mustNotBeEmpty("Joint")

	acc := &accumulator{sparse: map[int]float64{}}

	for i1, a1 := range a.support {
		for i2, a2 := range a.support {
			pa := a.mass[i1] * a.mass[i2]
			for j1, b1 := range b.support {
				pab := pa * b.mass[j1]
				for j2, b2 := range b.support {
					acc.add(f(a1, a2, b1, b2), pab*b.mass[j2])
				}
			}
		}
	}

	return acc.law(Floor)
}
