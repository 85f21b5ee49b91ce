package noise

import (
	"github.com/Pro7ech/decfail/distribution"
)

// LWEFinalError returns the law of the decryption error <e, r> - <s, e1> + e2
// of the plain LWE scheme, with s ~ CB(ks), e ~ CB(ke_pk), r ~ CB(kr)
// and e1, e2 ~ CB(ke):
//
//	Power(CB(ke_pk) * CB(kr), n) + Power(CB(ks) * CB(ke), n) + CB(ke)
//
// Reads N, Q, KS, KEPK, KR and KE.
func LWEFinalError(p Parameters) (*distribution.Law, error) {

	if err := check(
		p.positive("n"),
		p.moduli("q"),
		p.nonNegative("ks", "ke_pk", "kr", "ke"),
	); err != nil {
		return nil, err
	}

	laws, err := baseLaws(
		distribution.CenteredBinomialParameters{K: p.KS},
		distribution.CenteredBinomialParameters{K: p.KEPK},
		distribution.CenteredBinomialParameters{K: p.KR},
		distribution.CenteredBinomialParameters{K: p.KE},
	)
	if err != nil {
		return nil, err
	}

	chis, chiepk, chir, chie := laws[0], laws[1], laws[2], laws[3]

	er := distribution.Power(distribution.Product(chiepk, chir), p.N)
	se := distribution.Power(distribution.Product(chis, chie), p.N)

	return distribution.Convolve(distribution.Convolve(er, se), chie), nil
}

// LWRFinalError returns the law of the decryption error of the plain
// LWR scheme, where every noise term is a rounding error from Q to P:
//
//	Power(MS(q, p) * CB(kr), n) + Power(MS(q, p) * CB(ks), n) + MS(q, p)
//
// Reads N, Q, P, KS and KR.
func LWRFinalError(p Parameters) (*distribution.Law, error) {

	if err := check(
		p.positive("n"),
		p.moduli("q", "p"),
		p.nonNegative("ks", "kr"),
	); err != nil {
		return nil, err
	}

	laws, err := baseLaws(
		distribution.CenteredBinomialParameters{K: p.KS},
		distribution.CenteredBinomialParameters{K: p.KR},
		distribution.ModSwitchingParameters{Q: p.Q, RQ: p.P},
	)
	if err != nil {
		return nil, err
	}

	chis, chir, chims := laws[0], laws[1], laws[2]

	er := distribution.Power(distribution.Product(chims, chir), p.N)
	se := distribution.Power(distribution.Product(chims, chis), p.N)

	return distribution.Convolve(distribution.Convolve(er, se), chims), nil
}
