package overhead

import (
	"fmt"
	"math"

	"github.com/Pro7ech/decfail/utils/bignum"
)

// ShakeRate is the rate in bytes of SHAKE256.
const ShakeRate = 136

// Cost is the cost of an algorithm.
type Cost struct {
	// Shake is the number of calls to the SHAKE256 permutation.
	Shake int
	// Multiplications is the number of multiplications modulo q.
	Multiplications float64
}

// CostProfile is the cost of the key generation, encryption and decryption.
type CostProfile struct {
	KeyGen, Encrypt, Decrypt Cost
}

// Costs stores the cost of a scheme when its secrets are uniform
// in [-B, B] and when they follow a centered binomial of parameter eta.
type Costs struct {
	Uniform, Binomial CostProfile
}

func (c Costs) String() string {
	f := func(c CostProfile) string {
		return fmt.Sprintf("keygen=(%d, %.0f) encrypt=(%d, %.0f) decrypt=(%d, %.0f)",
			c.KeyGen.Shake, c.KeyGen.Multiplications,
			c.Encrypt.Shake, c.Encrypt.Multiplications,
			c.Decrypt.Shake, c.Decrypt.Multiplications)
	}
	return fmt.Sprintf("uniform: %s\nbinomial: %s", f(c.Uniform), f(c.Binomial))
}

// uniformBytes is the number of bytes of a uniform secret coefficient of bound B.
func uniformBytes(b int) float64 {
	logB := bignum.CeilLog2(b)
	return float64(logB) * float64(b) / float64(bignum.Pow2(logB)) / 8
}

// binomialBytes is the number of bytes of a centered binomial coefficient of parameter eta.
func binomialBytes(eta int) float64 {
	return float64(eta) / 4
}

// calls returns the number of SHAKE256 calls to squeeze x bytes.
func calls(x float64) int {
	return int(math.Ceil(x / ShakeRate))
}

// nttMul is the number of multiplications of a product of
// two polynomials of degree n with the NTT: 3n log2(n) + n.
func nttMul(n int) float64 {
	return 3*float64(n)*math.Log2(float64(n)) + float64(n)
}

// moduleMul is the number of multiplications of the key generation
// of the module schemes: k^2 n log2(n) + 2kn log2(n) + k^2 n.
func moduleMul(n, k int) float64 {
	nf, kf := float64(n), float64(k)
	logN := math.Log2(nf)
	return kf*kf*nf*logN + 2*kf*nf*logN + kf*kf*nf
}

// profiles builds both profiles, the uniform and the binomial one
// differing only by the number of bytes per secret coefficient.
func profiles(p Parameters, build func(coeff float64) CostProfile) Costs {
	return Costs{
		Uniform:  build(uniformBytes(p.B)),
		Binomial: build(binomialBytes(p.Eta)),
	}
}

func ntruCosts(p Parameters) Costs {
	n := float64(p.N)
	return profiles(p, func(coeff float64) CostProfile {
		return CostProfile{
			KeyGen:  Cost{calls(2 * n * coeff), 11 * n * n},
			Encrypt: Cost{calls(n * coeff / 8), n * n},
			Decrypt: Cost{0, n * n},
		}
	})
}

func lweCosts(p Parameters) Costs {
	n, m := float64(p.N), float64(p.M)
	matrix := m * n * ceilLog2(p.Q) / 8
	return profiles(p, func(coeff float64) CostProfile {
		return CostProfile{
			KeyGen:  Cost{calls(matrix + (n+m)*coeff), m * n},
			Encrypt: Cost{calls((n + m) * coeff), 2 * m * n},
			Decrypt: Cost{0, n},
		}
	})
}

func rlweCosts(p Parameters) Costs {
	n := float64(p.N)
	mul := math.Ceil(nttMul(p.N))
	return profiles(p, func(coeff float64) CostProfile {
		return CostProfile{
			KeyGen:  Cost{calls(3 * n * coeff), mul},
			Encrypt: Cost{calls(3 * n * coeff / 8), 2 * mul},
			Decrypt: Cost{0, nttMul(p.N)},
		}
	})
}

func mlweCosts(p Parameters) Costs {
	n, k := float64(p.N), float64(p.K)
	matrix := n * k * k * ceilLog2(p.Q) / 8
	mul := moduleMul(p.N, p.K)
	return profiles(p, func(coeff float64) CostProfile {
		return CostProfile{
			KeyGen:  Cost{calls(matrix + 2*n*k*coeff), mul},
			Encrypt: Cost{calls(3 * n * k * coeff / 8), 2 * mul},
			Decrypt: Cost{0, 3*k*n*math.Log2(n) + k*n},
		}
	})
}

func lwrCosts(p Parameters) Costs {
	n, m := float64(p.N), float64(p.M)
	matrix := n * m * ceilLog2(p.Q) / 8
	return profiles(p, func(coeff float64) CostProfile {
		return CostProfile{
			KeyGen:  Cost{calls(matrix + n*coeff), n * m},
			Encrypt: Cost{calls(n * coeff / 8), 2 * n * m},
			Decrypt: Cost{0, n},
		}
	})
}

func rlwrCosts(p Parameters) Costs {
	n := float64(p.N)
	mul := nttMul(p.N)
	return profiles(p, func(coeff float64) CostProfile {
		return CostProfile{
			KeyGen:  Cost{calls(2 * n * coeff), mul},
			Encrypt: Cost{calls(n * coeff / 8), 2 * mul},
			Decrypt: Cost{0, mul},
		}
	})
}

func mlwrCosts(p Parameters) Costs {
	n, k := float64(p.N), float64(p.K)
	matrix := n * k * k * ceilLog2(p.Q) / 8
	mul := moduleMul(p.N, p.K)
	return profiles(p, func(coeff float64) CostProfile {
		return CostProfile{
			KeyGen:  Cost{calls(matrix + n*k*coeff), mul},
			Encrypt: Cost{calls(n * k * coeff / 8), 2 * mul},
			Decrypt: Cost{0, 3*k*n*math.Log2(n) + k*n},
		}
	})
}
