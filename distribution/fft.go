package distribution

import (
	"fmt"
	"math"
	"math/bits"
)

// FFTFloor is the mass below which the entries produced by the
// spectral operations are discarded as numerical noise.
const FFTFloor = 1e-18

// ConvolveFFT returns the law of X+Y for independent X ~ a and Y ~ b,
// computed by pointwise multiplication in the Fourier domain.
// It is an alternative to [Convolve] for laws with a flat support,
// where the dense representation is cheaper than the sparse one.
func ConvolveFFT(a, b *Law) *Law {

	a.mustNotBeEmpty("ConvolveFFT")
	b.mustNotBeEmpty("ConvolveFFT")

	size := (a.Max() - a.Min()) + (b.Max() - b.Min()) + 1
	n := nextPow2(size)

	fa := a.dense(n)
	fb := b.dense(n)

	fft(fa, false)
	fft(fb, false)

	for i := range fa {
		fa[i] *= fb[i]
	}

	fft(fa, true)

	return fromDense(fa[:size], a.Min()+b.Min())
}

// PowerFFT returns the law of the sum of t independent copies of X ~ a,
// computed by exponentiation in the Fourier domain.
// It is an alternative to [Power].
func PowerFFT(a *Law, t int) *Law {

	a.mustNotBeEmpty("PowerFFT")

	switch {
	case t < 0:
		panic(fmt.Errorf("cannot PowerFFT: exponent %d is negative", t))
	case t == 0:
		return Dirac(0)
	case t == 1:
		return Prune(a)
	}

	size := t*(a.Max()-a.Min()) + 1
	n := nextPow2(size)

	f := a.dense(n)

	fft(f, false)

	for i := range f {
		f[i] = powComplex(f[i], t)
	}

	fft(f, true)

	return fromDense(f[:size], t*a.Min())
}

// dense returns the law as a zero padded vector of size n
// starting at the smallest value of the support.
func (l *Law) dense(n int) (f []complex128) {
	f = make([]complex128, n)
	offset := l.Min()
	for i, v := range l.support {
		f[v-offset] = complex(l.mass[i], 0)
	}
	return
}

func fromDense(f []complex128, offset int) (l *Law) {
	l = new(Law)
	for i := range f {
		if p := real(f[i]); p > FFTFloor && p > Floor {
			l.support = append(l.support, i+offset)
			l.mass = append(l.mass, p)
		}
	}
	return
}

// fft computes in place the radix-2 discrete Fourier transform
// of values, whose size must be a power of two.
// If inverse is true, computes the inverse transform, including
// the division by the size.
func fft(values []complex128, inverse bool) {

	n := len(values)
	logN := bits.Len64(uint64(n)) - 1

	bitReverseInPlace(values, logN)

	sign := -1.0
	if inverse {
		sign = 1.0
	}

	roots := make([]complex128, n>>1)
	for k := range roots {
		sin, cos := math.Sincos(sign * 2 * math.Pi * float64(k) / float64(n))
		roots[k] = complex(cos, sin)
	}

	for loglen := 1; loglen <= logN; loglen++ {
		m := 1 << loglen
		mh := m >> 1
		gap := n >> loglen
		for i := 0; i < n; i += m {
			for j, k := 0, i; j < mh; j, k = j+1, k+1 {
				u := values[k]
				v := values[k+mh] * roots[j*gap]
				values[k], values[k+mh] = u+v, u-v
			}
		}
	}

	if inverse {
		scale := complex(1/float64(n), 0)
		for i := range values {
			values[i] *= scale
		}
	}
}

func bitReverseInPlace(values []complex128, logN int) {
	if logN == 0 {
		return
	}
	for i := range values {
		j := int(bits.Reverse64(uint64(i)) >> (64 - logN))
		if i < j {
			values[i], values[j] = values[j], values[i]
		}
	}
}

// powComplex returns z^e by square and multiply.
func powComplex(z complex128, e int) (r complex128) {
	r = 1
	for ; e > 0; e >>= 1 {
		if e&1 == 1 {
			r *= z
		}
		z *= z
	}
	return
}

func nextPow2(x int) int {
	if x <= 1 {
		return 1
	}
	return 1 << bits.Len64(uint64(x-1))
}
