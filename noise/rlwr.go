package noise

import (
	"github.com/Pro7ech/decfail/distribution"
)

// roundingFinalError returns the law of r*Ek + s*Ec + E2 where all the
// noise terms are rounding errors and the products are iterated over
// `iterations` coefficients, with s ~ CB(ks) and r ~ CB(kr).
func roundingFinalError(ks, kr, q, rqk, rqc, rq2, iterations int) (*distribution.Law, error) {

	laws, err := baseLaws(
		distribution.CenteredBinomialParameters{K: ks},
		distribution.CenteredBinomialParameters{K: kr},
		distribution.ModSwitchingParameters{Q: q, RQ: PublicKeyModulus(q, rqk)},
		distribution.ModSwitchingParameters{Q: q, RQ: rqc},
		distribution.ModSwitchingParameters{Q: q, RQ: rq2},
	)
	if err != nil {
		return nil, err
	}

	chis, chir, ek, ec, e2 := laws[0], laws[1], laws[2], laws[3], laws[4]

	d1 := distribution.Power(distribution.Product(chir, ek), iterations)
	d2 := distribution.Power(distribution.Product(chis, ec), iterations)

	return distribution.Convolve(distribution.Convolve(d1, d2), e2), nil
}

// RLWRFinalError returns the law of the decryption error of the RLWR
// scheme over Z[X]/(X^n + 1), whose noise only comes from the rounding
// of the public key to rqk and of the ciphertext to (rqc, rq2):
//
//	Power(CB(ks) * MS(q, rqk), n) + Power(CB(ks) * MS(q, rqc), n) + MS(q, rq2)
//
// Reads N, Q, RQK, RQC, RQ2 and KS. KR is part of the record of the
// scheme but the ephemeral secret follows the law of the secret.
func RLWRFinalError(p Parameters) (*distribution.Law, error) {

	if err := check(
		p.positive("n"),
		p.moduli("q", "rqc", "rq2"),
		p.checkPublicKeyModulus(),
		p.nonNegative("ks"),
	); err != nil {
		return nil, err
	}

	return roundingFinalError(p.KS, p.KS, p.Q, p.RQK, p.RQC, p.RQ2, p.N)
}

// MLWRFinalError returns the law of the decryption error of the MLWR
// scheme of rank m over Z[X]/(X^n + 1):
//
//	Power(CB(kr) * MS(q, rqk), n*m) + Power(CB(ks) * MS(q, rqc), n*m) + MS(q, rq2)
//
// Reads N, M, Q, RQK, RQC, RQ2, KS and KR.
func MLWRFinalError(p Parameters) (*distribution.Law, error) {

	if err := check(
		p.positive("n", "m"),
		p.moduli("q", "rqc", "rq2"),
		p.checkPublicKeyModulus(),
		p.nonNegative("ks", "kr"),
	); err != nil {
		return nil, err
	}

	return roundingFinalError(p.KS, p.KR, p.Q, p.RQK, p.RQC, p.RQ2, p.N*p.M)
}
