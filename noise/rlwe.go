package noise

import (
	"github.com/Pro7ech/decfail/distribution"
	"github.com/Pro7ech/decfail/utils/bignum"
)

// PublicKeyModulus returns the modulus to which the public key is compressed:
// rqk if it is strictly positive, else the smallest power of two larger or
// equal to q, for which the rounding error is zero.
func PublicKeyModulus(q, rqk int) int {
	if rqk > 0 {
		return rqk
	}
	return bignum.Pow2(bignum.CeilLog2(q))
}

// CiphertextNoise returns the parameter of the centered binomial law of the
// ciphertext noise of MLWE_2n: ke_ct, or ke if ke_ct is not strictly positive.
func CiphertextNoise(ke, kect int) int {
	if kect > 0 {
		return kect
	}
	return ke
}

// ringFinalError returns the law of r*e - s*(e1 + Rc) + e2 + R2, where the
// products are iterated over `iterations` coefficients:
//
//	Power(chie * (chir + Rk), iterations) + Power(chis * (chict + Rc), iterations) + R2 + chict
func ringFinalError(chis, chie, chir, chict, rk, rc, r2 *distribution.Law, iterations int) *distribution.Law {

	re := distribution.Product(chie, distribution.Convolve(chir, rk))
	se := distribution.Product(chis, distribution.Convolve(chict, rc))

	c := distribution.Convolve(distribution.Power(re, iterations), distribution.Power(se, iterations))

	return distribution.Convolve(c, distribution.Convolve(r2, chict))
}

func (p Parameters) checkPublicKeyModulus() error {
	if p.RQK > 0 {
		return p.moduli("rqk")
	}
	return nil
}

// RLWE2nFinalError returns the law of the decryption error of the RLWE
// scheme over Z[X]/(X^n + 1) with public key compressed to rqk and
// ciphertext compressed to (rqc, rq2):
//
//	Power(CB(ke) * (CB(ks) + MS(q, rqk)), n) + Power(CB(ks) * (CB(ke) + MS(q, rqc)), n) + MS(q, rq2) + CB(ke)
//
// Reads N, KS, KE, Q, RQC, RQ2 and RQK.
func RLWE2nFinalError(p Parameters) (*distribution.Law, error) {

	if err := check(
		p.positive("n"),
		p.moduli("q", "rqc", "rq2"),
		p.checkPublicKeyModulus(),
		p.nonNegative("ks", "ke"),
	); err != nil {
		return nil, err
	}

	laws, err := baseLaws(
		distribution.CenteredBinomialParameters{K: p.KS},
		distribution.CenteredBinomialParameters{K: p.KE},
		distribution.ModSwitchingParameters{Q: p.Q, RQ: PublicKeyModulus(p.Q, p.RQK)},
		distribution.ModSwitchingParameters{Q: p.Q, RQ: p.RQC},
		distribution.ModSwitchingParameters{Q: p.Q, RQ: p.RQ2},
	)
	if err != nil {
		return nil, err
	}

	chis, chie, rk, rc, r2 := laws[0], laws[1], laws[2], laws[3], laws[4]

	return ringFinalError(chis, chie, chis, chie, rk, rc, r2, p.N), nil
}

// MLWE2nFinalError returns the law of the decryption error of the MLWE
// scheme of rank m over Z[X]/(X^n + 1). It is the error of [RLWE2nFinalError]
// with products iterated n*m times and a ciphertext noise CB(ke_ct).
//
// Reads N, M, KS, KE, KECT, Q, RQK, RQC and RQ2.
func MLWE2nFinalError(p Parameters) (*distribution.Law, error) {

	if err := check(
		p.positive("n", "m"),
		p.moduli("q", "rqc", "rq2"),
		p.checkPublicKeyModulus(),
		p.nonNegative("ks", "ke"),
	); err != nil {
		return nil, err
	}

	laws, err := baseLaws(
		distribution.CenteredBinomialParameters{K: p.KS},
		distribution.CenteredBinomialParameters{K: p.KE},
		distribution.CenteredBinomialParameters{K: CiphertextNoise(p.KE, p.KECT)},
		distribution.ModSwitchingParameters{Q: p.Q, RQ: PublicKeyModulus(p.Q, p.RQK)},
		distribution.ModSwitchingParameters{Q: p.Q, RQ: p.RQC},
		distribution.ModSwitchingParameters{Q: p.Q, RQ: p.RQ2},
	)
	if err != nil {
		return nil, err
	}

	chis, chie, chict := laws[0], laws[1], laws[2]
	rk, rc, r2 := laws[3], laws[4], laws[5]

	return ringFinalError(chis, chie, chis, chict, rk, rc, r2, p.N*p.M), nil
}

// MLWESSFinalError returns the law of the decryption error of the MLWE
// scheme over Z[X]/(X^n - X + 1). In this ring each coefficient of a
// product accumulates up to 2n-1 products of coefficients:
//
//	Power(CB(eta_e) * CB(eta_s), 2n-1) + Power(CB(eta_s) * (CB(eta_ct) + MS(q, rqc)), 2n-1) + MS(q, rq2) + CB(eta_ct)
//
// The public key is not compressed.
// Reads N, Q, EtaS, EtaE, EtaCT, RQC and RQ2.
func MLWESSFinalError(p Parameters) (*distribution.Law, error) {

	if err := check(
		p.positive("n"),
		p.moduli("q", "rqc", "rq2"),
		p.nonNegative("eta_s", "eta_e", "eta_ct"),
	); err != nil {
		return nil, err
	}

	laws, err := baseLaws(
		distribution.CenteredBinomialParameters{K: p.EtaS},
		distribution.CenteredBinomialParameters{K: p.EtaE},
		distribution.CenteredBinomialParameters{K: p.EtaCT},
		distribution.ModSwitchingParameters{Q: p.Q, RQ: p.RQC},
		distribution.ModSwitchingParameters{Q: p.Q, RQ: p.RQ2},
	)
	if err != nil {
		return nil, err
	}

	chis, chie, chict, rc, r2 := laws[0], laws[1], laws[2], laws[3], laws[4]

	return ringFinalError(chis, chie, chis, chict, distribution.Dirac(0), rc, r2, 2*p.N-1), nil
}
