package distribution

import (
	"fmt"
	"math"
	"math/big"

	"github.com/Pro7ech/decfail/utils/bignum"
)

// GaussianTailCut is the number of standard deviations
// at which [DiscreteGaussian] is truncated.
const GaussianTailCut = 3

// MaxWidth is the largest half width of the support of a base law:
// the parameter of [CenteredBinomial], the bound of [Uniform] and of
// the truncated [DiscreteGaussian] and the largest rounding error of
// [ModSwitching].
const MaxWidth = 1 << 12

// CenteredBinomial returns the centered binomial law of parameter k,
// i.e. the law of sum_{i<k} (a_i - b_i) for independent uniform bits
// a_i, b_i, of support [-k, k] and mass C(2k, x+k)/2^{2k}.
// The coefficients are computed exactly.
func CenteredBinomial(k int) (l *Law) {

	if k < 0 || k > MaxWidth {
		panic(fmt.Errorf("cannot CenteredBinomial: k=%d must be in [0, %d]", k, MaxWidth))
	}

	den := new(big.Int).Lsh(big.NewInt(1), uint(2*k))

	table := make(map[int]float64, 2*k+1)
	for x := -k; x <= k; x++ {
		table[x], _ = bignum.Quo(bignum.Binomial(2*k, x+k), den, 64).Float64()
	}

	return NewLaw(table)
}

// DiscreteGaussian returns the discrete Gaussian law of standard
// deviation sigma, truncated to [-floor(3*sigma), floor(3*sigma)]
// and renormalized.
func DiscreteGaussian(sigma float64) (l *Law) {

	if !(sigma > 0) || math.IsInf(sigma, 0) {
		panic(fmt.Errorf("cannot DiscreteGaussian: sigma=%v must be strictly positive and finite", sigma))
	}

	if GaussianTailCut*sigma > MaxWidth {
		panic(fmt.Errorf("cannot DiscreteGaussian: support bound %d*sigma=%v must be at most %d", GaussianTailCut, GaussianTailCut*sigma, MaxWidth))
	}

	bound := int(math.Floor(GaussianTailCut * sigma))

	weights := make([]float64, 2*bound+1)

	var norm float64
	for x := -bound; x <= bound; x++ {
		w := math.Exp(-float64(x*x) / (2 * sigma * sigma))
		weights[x+bound] = w
		norm += w
	}

	table := make(map[int]float64, 2*bound+1)
	for x := -bound; x <= bound; x++ {
		table[x] = weights[x+bound] / norm
	}

	return NewLaw(table)
}

// ModSwitching returns the law of the rounding error introduced by
// switching a uniform x in [0, q) to the modulus rq and back:
//
//	y = round(rq * x / q) mod rq
//	z = round(q * y / rq) mod q
//	e = [x - z] centered in [-q/2, q/2)
//
// Rounding is done half to even with exact integer arithmetic.
func ModSwitching(q, rq int) (l *Law) {

	if q <= 0 || rq <= 0 {
		panic(fmt.Errorf("cannot ModSwitching: q=%d and rq=%d must be strictly positive", q, rq))
	}

	if q > math.MaxInt32 || rq > math.MaxInt32 {
		panic(fmt.Errorf("cannot ModSwitching: q=%d and rq=%d must be at most 2^31-1", q, rq))
	}

	if q/rq > 2*MaxWidth {
		panic(fmt.Errorf("cannot ModSwitching: q/rq=%d must be at most %d", q/rq, 2*MaxWidth))
	}

	counts := map[int]int{}
	for x := 0; x < q; x++ {
		y := roundHalfEven(rq*x, q) % rq
		z := roundHalfEven(q*y, rq) % q
		counts[centered(x-z, q)]++
	}

	table := make(map[int]float64, len(counts))
	for e, c := range counts {
		table[e] = float64(c) / float64(q)
	}

	return NewLaw(table)
}

// Uniform returns the uniform law over [-bound, bound].
func Uniform(bound int) (l *Law) {

	if bound < 0 || bound > MaxWidth {
		panic(fmt.Errorf("cannot Uniform: bound=%d must be in [0, %d]", bound, MaxWidth))
	}

	p := 1 / float64(2*bound+1)

	table := make(map[int]float64, 2*bound+1)
	for x := -bound; x <= bound; x++ {
		table[x] = p
	}

	return NewLaw(table)
}

// SparseTernary returns the law {-1: p, 0: 1-2p, 1: p}.
func SparseTernary(p float64) (l *Law) {

	if !(p >= 0 && p <= 0.5) {
		panic(fmt.Errorf("cannot SparseTernary: p=%v must be in [0, 0.5]", p))
	}

	return NewLaw(map[int]float64{-1: p, 0: 1 - 2*p, 1: p})
}

// roundHalfEven returns round(num/den) for num >= 0 and den > 0,
// ties being rounded to the nearest even integer.
func roundHalfEven(num, den int) (r int) {
	r = num / den
	rem := 2 * (num % den)
	if rem > den || (rem == den && r&1 == 1) {
		r++
	}
	return
}

// centered returns the representative of a mod q in [-q/2, q/2).
func centered(a, q int) int {
	a %= q
	if a < 0 {
		a += q
	}
	if 2*a < q {
		return a
	}
	return a - q
}
