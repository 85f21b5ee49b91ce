package noise

import (
	"fmt"
	"math/big"

	"github.com/Pro7ech/decfail/distribution"
	"github.com/Pro7ech/decfail/utils/bignum"
)

// NTRUScale is the factor 3 applied to both terms of the NTRU noise.
const NTRUScale = 3

// NTRUMaxModulus is the largest modulus accepted by [NTRUOneShot]. The
// exact counts have 4*(q/8-2)+1 coefficients of about q/8*log2(6) bits.
const NTRUMaxModulus = 1 << 14

// OneShotModel is the decryption error model of NTRU with fixed weight
// ternary polynomials: the noise of a coefficient is 3*(f*m) + g*r where
// f*m is a sum of Weight values uniform in {-1, 0, 1} and g*r a sum of
// Weight values uniform in {-3, 3}.
//
// The law of the noise is kept as exact integer counts: Counts.Coeffs[e]
// is the number of the Total = 6^Weight equiprobable draws for which the
// noise equals [OneShotModel.Value](e).
type OneShotModel struct {
	N, Q      int
	Weight    int
	Threshold int

	Counts *bignum.Polynomial
	Total  *big.Int
}

// NTRUOneShot returns the one-shot model of NTRU for the weight
// floor(q/8) - 2 and the threshold floor(q/2) - 2.
//
// Reads N and Q. Q must be in [16, NTRUMaxModulus].
func NTRUOneShot(p Parameters) (m *OneShotModel, err error) {

	if err = check(p.positive("n"), p.moduli("q")); err != nil {
		return
	}

	if p.Q < 16 || p.Q > NTRUMaxModulus {
		return nil, fmt.Errorf("field %q: value %d must be in [16, %d]", "q", p.Q, NTRUMaxModulus)
	}

	wt := p.Q/8 - 2

	// 3*(f*m): coefficient of X^e counts the draws of sum e - wt.
	fm := bignum.NewPolynomial(1, 1, 1).Pow(wt)

	// g*r: coefficient of X^e counts the draws of sum 3*(e - wt).
	gr := bignum.NewPolynomial(1, 0, 1).Pow(wt)

	return &OneShotModel{
		N:         p.N,
		Q:         p.Q,
		Weight:    wt,
		Threshold: p.Q/2 - 2,
		Counts:    fm.Mul(gr),
		Total:     new(big.Int).Exp(bignum.NewInt(6), bignum.NewInt(wt), nil),
	}, nil
}

// Value returns the noise associated to Counts.Coeffs[e].
func (m *OneShotModel) Value(e int) int {
	return NTRUScale * (e - 2*m.Weight)
}

// TailCount returns the number of draws for which the absolute
// value of the noise is larger than the threshold.
func (m *OneShotModel) TailCount() (count *big.Int) {
	count = new(big.Int)
	for e := range m.Counts.Coeffs {
		if v := m.Value(e); v > m.Threshold || -v > m.Threshold {
			count.Add(count, &m.Counts.Coeffs[e])
		}
	}
	return
}

// Probability returns TailCount/Total with prec bits of precision.
func (m *OneShotModel) Probability(prec uint) *big.Float {
	return bignum.Quo(m.TailCount(), m.Total, prec)
}

// Law returns the law of the noise computed in floating point
// arithmetic with the distribution package. Masses below
// [distribution.Floor] are lost.
func (m *OneShotModel) Law() *distribution.Law {
	fm := distribution.Scale(distribution.Power(distribution.Uniform(1), m.Weight), NTRUScale)
	gr := distribution.Power(distribution.NewLaw(map[int]float64{-NTRUScale: 0.5, NTRUScale: 0.5}), m.Weight)
	return distribution.Convolve(fm, gr)
}
