package failure

import (
	"fmt"

	"github.com/Pro7ech/decfail/distribution"
	"github.com/Pro7ech/decfail/noise"
)

// FinalLaw returns the law of the decryption error of the scheme for the
// given parameters. For the schemes over 3n-cyclotomic rings, it is the law
// of the coefficients not covered by the regular blocks, and for NTRU the
// floating point approximation of the law of the one-shot noise.
func FinalLaw(scheme Scheme, record map[string]float64) (law *distribution.Law, err error) {

	if !scheme.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScheme, scheme)
	}

	var p noise.Parameters
	if p, err = noise.NewParameters(schemes[scheme].schema, record); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedParameter, scheme, err)
	}

	defer func() {
		if r := recover(); r != nil {
			law, err = nil, fmt.Errorf("%w: %s: %v", ErrInternal, scheme, r)
		}
	}()

	if law, err = schemes[scheme].law(p); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedParameter, scheme, err)
	}

	return
}

func ntruLaw(p noise.Parameters) (*distribution.Law, error) {
	m, err := noise.NTRUOneShot(p)
	if err != nil {
		return nil, err
	}
	return m.Law(), nil
}

func lastLaw(build func(noise.Parameters) (*noise.BlockModel, error)) func(p noise.Parameters) (*distribution.Law, error) {
	return func(p noise.Parameters) (*distribution.Law, error) {
		m, err := build(p)
		if err != nil {
			return nil, err
		}
		law, _ := m.Last()
		return law, nil
	}
}
