package overhead

import (
	"fmt"
	"math"

	"github.com/Pro7ech/decfail/utils/bignum"
)

// Sizes stores the sizes in bytes of the elements of a scheme.
type Sizes struct {
	// ModQ is the size of a polynomial (or vector) of dimension n modulo q.
	ModQ int
	// ShortUniform is the size of a secret uniform in [-B, B].
	ShortUniform int
	// ShortBinomial is the size of a secret sampled from the centered binomial of parameter eta.
	ShortBinomial int
	PublicKey     int
	PrivateKey    int
	Ciphertext    int
}

func (s Sizes) String() string {
	return fmt.Sprintf("pk=%dB sk=%dB ct=%dB (mod q=%dB, uniform=%dB, binomial=%dB)",
		s.PublicKey, s.PrivateKey, s.Ciphertext, s.ModQ, s.ShortUniform, s.ShortBinomial)
}

// toBytes converts a number of bits to bytes, truncated.
func toBytes(x float64) int {
	return int(math.Trunc(x / 8))
}

func ceilLog2(x int) float64 {
	return float64(bignum.CeilLog2(x))
}

// uniformBits is the number of bits of a coefficient uniform in [-B, B].
func uniformBits(b int) float64 {
	return ceilLog2(2*b+1) * float64(b) / float64(bignum.Pow2(bignum.CeilLog2(b)))
}

func (p Parameters) modQ() int {
	return toBytes(float64(p.N) * ceilLog2(p.Q))
}

func ntruSizes(p Parameters) Sizes {
	n := float64(p.N)
	pk := n * ceilLog2(p.Q)
	return Sizes{
		ModQ:          toBytes(pk),
		ShortUniform:  toBytes(pk),
		ShortBinomial: toBytes(pk),
		PublicKey:     toBytes(pk),
		PrivateKey:    int(math.Trunc(pk/8 + 2*n*ceilLog2(p.P)/8)),
		Ciphertext:    toBytes(pk),
	}
}

func lweSizes(p Parameters) Sizes {
	n, m := float64(p.N), float64(p.M)
	return Sizes{
		ModQ:          p.modQ(),
		ShortUniform:  toBytes(n * uniformBits(p.B)),
		ShortBinomial: toBytes(2 * n * float64(p.Eta)),
		PublicKey:     int(math.Trunc(m*ceilLog2(p.Q)/8 + 16)),
		PrivateKey:    toBytes(n * ceilLog2(p.Q)),
		Ciphertext:    toBytes((n + 1) * ceilLog2(p.Q)),
	}
}

func rlweSizes(p Parameters) Sizes {
	s := lweSizes(p)
	s.PublicKey = toBytes(2 * float64(p.N) * ceilLog2(p.Q))
	return s
}

func mlweSizes(p Parameters) Sizes {
	n, k := float64(p.N), float64(p.K)
	logQ := math.Log2(float64(p.Q))
	return Sizes{
		ModQ:          p.modQ(),
		ShortUniform:  toBytes(n * k * uniformBits(p.B)),
		ShortBinomial: toBytes(2 * n * k * float64(p.Eta)),
		PublicKey:     int(math.Trunc(k*n*logQ/8 + 32)),
		PrivateKey:    toBytes(k * n * logQ),
		Ciphertext:    toBytes((k + 1) * n * logQ),
	}
}

func lwrSizes(p Parameters) Sizes {
	n, m := float64(p.N), float64(p.M)
	return Sizes{
		ModQ:          p.modQ(),
		ShortUniform:  toBytes(n * uniformBits(p.B)),
		ShortBinomial: toBytes(2 * n * float64(p.Eta)),
		PublicKey:     int(math.Trunc(m*ceilLog2(p.P)/8 + 16)),
		PrivateKey:    toBytes(n * ceilLog2(p.Q)),
		Ciphertext:    toBytes((n + 1) * ceilLog2(p.P)),
	}
}

func rlwrSizes(p Parameters) Sizes {
	n := float64(p.N)
	s := lwrSizes(p)
	s.PublicKey = int(math.Trunc(n*ceilLog2(p.P)/8 + n*ceilLog2(p.Q)/8))
	s.Ciphertext = toBytes(2 * n * ceilLog2(p.P))
	return s
}

func mlwrSizes(p Parameters) Sizes {
	n, k := float64(p.N), float64(p.K)
	return Sizes{
		ModQ:          p.modQ(),
		ShortUniform:  toBytes(n * uniformBits(p.B)),
		ShortBinomial: toBytes(2 * n * float64(p.Eta)),
		PublicKey:     int(math.Trunc(k*n*ceilLog2(p.P)/8 + 32)),
		PrivateKey:    toBytes(k * n * ceilLog2(p.Q)),
		Ciphertext:    toBytes((k + 1) * n * ceilLog2(p.P)),
	}
}
