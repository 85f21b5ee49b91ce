package bignum

import (
	"fmt"
	"math/big"
	"math/bits"
)

// Polynomial is a dense polynomial with arbitrary precision integer
// coefficients, Coeffs[i] being the coefficient of X^i.
// It is used as an exact counting generating function.
type Polynomial struct {
	Coeffs []big.Int
}

// NewPolynomial returns a new Polynomial with the given integer coefficients.
func NewPolynomial(coeffs ...int64) *Polynomial {
	p := &Polynomial{Coeffs: make([]big.Int, len(coeffs))}
	for i := range coeffs {
		p.Coeffs[i].SetInt64(coeffs[i])
	}
	return p
}

// Degree returns the degree of the polynomial.
func (p *Polynomial) Degree() int {
	return len(p.Coeffs) - 1
}

// Mul returns p * q.
func (p *Polynomial) Mul(q *Polynomial) (r *Polynomial) {

	if len(p.Coeffs) == 0 || len(q.Coeffs) == 0 {
		return &Polynomial{}
	}

	r = &Polynomial{Coeffs: make([]big.Int, len(p.Coeffs)+len(q.Coeffs)-1)}

	tmp := new(big.Int)
	for i := range p.Coeffs {
		if p.Coeffs[i].Sign() == 0 {
			continue
		}
		for j := range q.Coeffs {
			r.Coeffs[i+j].Add(&r.Coeffs[i+j], tmp.Mul(&p.Coeffs[i], &q.Coeffs[j]))
		}
	}

	return
}

// Pow returns p^e by square and multiply.
func (p *Polynomial) Pow(e int) (r *Polynomial) {
	if e < 0 {
		panic(fmt.Errorf("cannot Pow: exponent %d is negative", e))
	}
	r = NewPolynomial(1)
	for i := bits.Len64(uint64(e)) - 1; i >= 0; i-- {
		r = r.Mul(r)
		if (e>>i)&1 == 1 {
			r = r.Mul(p)
		}
	}
	return
}

// Sum returns the sum of the coefficients, i.e. p(1).
func (p *Polynomial) Sum() (s *big.Int) {
	s = new(big.Int)
	for i := range p.Coeffs {
		s.Add(s, &p.Coeffs[i])
	}
	return
}
