package noise

import (
	"fmt"
	"math"

	"github.com/Pro7ech/decfail/distribution"
)

// BlockModel is the decryption error model of the schemes over 3n-cyclotomic
// rings. The coefficients of the noise split into Blocks independent blocks,
// the i-th one following the law [BlockModel.Block](i), and Multiplicity
// coefficients following the law [BlockModel.Last].
//
// A BlockModel is read-only: its methods are pure functions of the
// precomputed tables and can be called concurrently.
type BlockModel struct {
	// Tables are the joint laws the blocks are built from.
	Tables []*distribution.Law

	Blocks       int
	Multiplicity int
	Threshold    float64

	block func(i int) *distribution.Law
	last  func() *distribution.Law
}

// Block returns the law of the i-th block, 0 <= i < Blocks.
func (m *BlockModel) Block(i int) *distribution.Law {
	if i < 0 || i >= m.Blocks {
		panic(fmt.Errorf("cannot Block: index %d is outside [0, %d)", i, m.Blocks))
	}
	return m.block(i)
}

// Last returns the law of the remaining coefficients and their number.
func (m *BlockModel) Last() (*distribution.Law, int) {
	return m.last(), m.Multiplicity
}

func upperTable(a1, a2, b1, b2 int) int {
	return a1*a2 + b1*b2
}

func lowerTable(a1, a2, b1, b2 int) int {
	return a1*b1 + b2*(a1+a2)
}

// MaxJointSize is the largest product of the support sizes of the two
// laws of a joint table. Building a table takes quartic time in the
// support sizes.
const MaxJointSize = 1 << 14

func (p Parameters) checkBlocks() error {
	return check(p.positive("n"), p.even("n"))
}

// jointTables returns the upper and lower tables of (a, b).
func jointTables(a, b *distribution.Law) (upper, lower *distribution.Law, err error) {
	if size := a.Len() * b.Len(); size > MaxJointSize {
		return nil, nil, fmt.Errorf("joint table of supports %d x %d exceeds %d", a.Len(), b.Len(), MaxJointSize)
	}
	return distribution.Joint(a, b, upperTable), distribution.Joint(a, b, lowerTable), nil
}

// RLWE3nBlocks returns the block model of the RLWE scheme over the
// 3n-cyclotomic ring, with all noise terms drawn from psi = CB(psi_1).
// For a1, a2, b1, b2 ~ psi:
//
//	t1 = law of a1*a2 + b1*b2
//	t2 = law of a1*b1 + b2*(a1 + a2)
//
// Block i < n/2 follows Power(t1, 2i) + Power(t2, n-2i) and the last
// n/2 coefficients follow Power(t2, n).
//
// Reads N, Q, Psi1 and Threshold. N must be even and Psi1 integral.
func RLWE3nBlocks(p Parameters) (m *BlockModel, err error) {

	if err = check(
		p.checkBlocks(),
		p.moduli("q"),
		p.nonNegative("psi_1"),
	); err != nil {
		return
	}

	if p.Psi1 != math.Trunc(p.Psi1) {
		return nil, fmt.Errorf("field %q: value %v must be an integer", "psi_1", p.Psi1)
	}

	psi, err := distribution.CenteredBinomialParameters{K: int(p.Psi1)}.Law()
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", "psi_1", err)
	}

	t1, t2, err := jointTables(psi, psi)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", "psi_1", err)
	}

	n := p.N

	return &BlockModel{
		Tables:       []*distribution.Law{t1, t2},
		Blocks:       n / 2,
		Multiplicity: n / 2,
		Threshold:    p.Threshold,
		block: func(i int) *distribution.Law {
			return distribution.Convolve(distribution.Power(t1, 2*i), distribution.Power(t2, n-2*i))
		},
		last: func() *distribution.Law {
			return distribution.Power(t2, n)
		},
	}, nil
}

// MLWE3nBlocks returns the block model of the MLWE scheme of rank k over
// the 3n-cyclotomic ring, with the noise r*e - s*(e1 + Rc) + e2 + R2 where
// e, r, s, e1, e2 ~ DG(psi_1), Rc = MS(q, rqc) and R2 = MS(q, rq2).
//
// The tables re1, re2 are the upper and lower tables of (e, r), and se1, se2
// those of (s, e1 + Rc). Block i < n/2 follows
//
//	Power(re1, i*k) + Power(re2, (n/2-i)*k) + Power(se1, i*k) + Power(se2, (n/2-i)*k) + DG(psi_1) + R2
//
// and the last n/2 coefficients follow the same law for i = 0.
//
// Reads N, Q, K, Psi1, RQC, RQ2 and Threshold. N must be even.
func MLWE3nBlocks(p Parameters) (m *BlockModel, err error) {

	if err = check(
		p.checkBlocks(),
		p.positive("k", "psi_1"),
		p.moduli("q", "rqc", "rq2"),
	); err != nil {
		return
	}

	laws, err := baseLaws(
		distribution.DiscreteGaussianParameters{Sigma: p.Psi1},
		distribution.ModSwitchingParameters{Q: p.Q, RQ: p.RQC},
		distribution.ModSwitchingParameters{Q: p.Q, RQ: p.RQ2},
	)
	if err != nil {
		return nil, err
	}

	gauss := laws[0]
	e1 := distribution.Convolve(gauss, laws[1])
	lin := distribution.Convolve(gauss, laws[2])

	re1, re2, err := jointTables(gauss, gauss)
	if err != nil {
		return nil, err
	}

	se1, se2, err := jointTables(gauss, e1)
	if err != nil {
		return nil, err
	}

	h, k := p.N/2, p.K

	block := func(i int) *distribution.Law {
		re := distribution.Convolve(distribution.Power(re1, i*k), distribution.Power(re2, (h-i)*k))
		se := distribution.Convolve(distribution.Power(se1, i*k), distribution.Power(se2, (h-i)*k))
		return distribution.Convolve(distribution.Convolve(re, se), lin)
	}

	return &BlockModel{
		Tables:       []*distribution.Law{re1, re2, se1, se2, lin},
		Blocks:       h,
		Multiplicity: h,
		Threshold:    p.Threshold,
		block:        block,
		last: func() *distribution.Law {
			return block(0)
		},
	}, nil
}
