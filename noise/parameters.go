// Package noise implements the decryption error models of lattice based
// public key encryption schemes. Each builder composes the base laws of the
// distribution package into the law of the noise that decryption must
// absorb: a single final law for the schemes over 2n-cyclotomic rings and
// the plain LWE/LWR schemes, a sequence of per-block laws for the schemes
// over 3n-cyclotomic rings and an exact combinatorial model for NTRU.
package noise

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/google/go-cmp/cmp"

	"github.com/Pro7ech/decfail/distribution"
)

// MaxModulus is the largest modulus accepted by the builders.
const MaxModulus = 1 << 30

// Parameters is the record of numeric parameters read by the noise builders.
// Each scheme reads a subset of the fields, see the builders for the details.
// Parameters are read-only once created.
type Parameters struct {
	// N is the ring dimension or, for LWE/LWR, the length of the secret.
	N int `json:"n,omitempty"`
	// M is the module rank of MLWE_2n and MLWR.
	M int `json:"m,omitempty"`
	// K is the module rank of MLWE_3n.
	K int `json:"k,omitempty"`
	// Q is the ciphertext modulus.
	Q int `json:"q,omitempty"`
	// P is the rounding modulus of LWR.
	P int `json:"p,omitempty"`

	// RQ2, RQC and RQK are the moduli to which the second ciphertext component,
	// the first ciphertext component and the public key are compressed.
	// RQK <= 0 means that the public key is not compressed.
	RQ2 int `json:"rq2,omitempty"`
	RQC int `json:"rqc,omitempty"`
	RQK int `json:"rqk,omitempty"`

	// Parameters of the centered binomial laws.
	KS   int `json:"ks,omitempty"`
	KE   int `json:"ke,omitempty"`
	KEPK int `json:"ke_pk,omitempty"`
	KECT int `json:"ke_ct,omitempty"`
	KR   int `json:"kr,omitempty"`

	// Parameters of the centered binomial laws of the ring Z[X]/(X^n - X + 1).
	EtaS  int `json:"eta_s,omitempty"`
	EtaE  int `json:"eta_e,omitempty"`
	EtaCT int `json:"eta_ct,omitempty"`

	// Psi1 is the width of the noise of the 3n-cyclotomic schemes.
	Psi1 float64 `json:"psi_1,omitempty"`

	// Threshold is the decision threshold: decryption fails
	// if the absolute value of the noise is larger.
	Threshold float64 `json:"threshold,omitempty"`
}

// FieldNames returns the names of all the fields of [Parameters], sorted.
func FieldNames() (names []string) {
	p := new(Parameters)
	for name := range p.fields() {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

func (p *Parameters) fields() map[string]interface{} {
	return map[string]interface{}{
		"n":         &p.N,
		"m":         &p.M,
		"k":         &p.K,
		"q":         &p.Q,
		"p":         &p.P,
		"rq2":       &p.RQ2,
		"rqc":       &p.RQC,
		"rqk":       &p.RQK,
		"ks":        &p.KS,
		"ke":        &p.KE,
		"ke_pk":     &p.KEPK,
		"ke_ct":     &p.KECT,
		"kr":        &p.KR,
		"eta_s":     &p.EtaS,
		"eta_e":     &p.EtaE,
		"eta_ct":    &p.EtaCT,
		"psi_1":     &p.Psi1,
		"threshold": &p.Threshold,
	}
}

// NewParameters creates a new [Parameters] from a record name -> value.
// The keys of the record must be exactly the given names: a missing or an
// extra key returns an error. Fields of integer type must hold integral values.
func NewParameters(names []string, record map[string]float64) (p Parameters, err error) {

	for _, name := range names {
		if _, ok := record[name]; !ok {
			return p, fmt.Errorf("missing field %q", name)
		}
	}

	var extra []string
	for name := range record {
		if !slices.Contains(names, name) {
			extra = append(extra, name)
		}
	}

	if len(extra) != 0 {
		sort.Strings(extra)
		return p, fmt.Errorf("unexpected fields %q", extra)
	}

	fields := p.fields()

	for _, name := range names {

		v := record[name]

		if math.IsNaN(v) || math.IsInf(v, 0) {
			return p, fmt.Errorf("field %q: value %v is not finite", name, v)
		}

		switch ptr := fields[name].(type) {
		case *int:
			if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
				return p, fmt.Errorf("field %q: value %v is not a 32-bit integer", name, v)
			}
			*ptr = int(v)
		case *float64:
			*ptr = v
		default:
			return p, fmt.Errorf("field %q does not exist", name)
		}
	}

	return
}

// Record returns the given fields of the receiver as a record name -> value.
// Unknown names are ignored.
func (p Parameters) Record(names []string) (record map[string]float64) {
	record = make(map[string]float64, len(names))
	fields := p.fields()
	for _, name := range names {
		switch ptr := fields[name].(type) {
		case *int:
			record[name] = float64(*ptr)
		case *float64:
			record[name] = *ptr
		}
	}
	return
}

// Equal returns true if both parameters are identical.
func (p Parameters) Equal(other *Parameters) bool {
	return cmp.Equal(p, *other)
}

func (p Parameters) value(name string) float64 {
	switch ptr := p.fields()[name].(type) {
	case *int:
		return float64(*ptr)
	case *float64:
		return *ptr
	default:
		panic(fmt.Errorf("cannot value: field %q does not exist", name))
	}
}

// positive checks that the given fields are strictly positive.
func (p Parameters) positive(names ...string) (err error) {
	for _, name := range names {
		if v := p.value(name); v <= 0 {
			return fmt.Errorf("field %q: value %v must be strictly positive", name, v)
		}
	}
	return
}

// nonNegative checks that the given fields are non-negative.
func (p Parameters) nonNegative(names ...string) (err error) {
	for _, name := range names {
		if v := p.value(name); v < 0 {
			return fmt.Errorf("field %q: value %v must be non-negative", name, v)
		}
	}
	return
}

// moduli checks that the given fields are valid moduli.
func (p Parameters) moduli(names ...string) (err error) {
	if err = p.positive(names...); err != nil {
		return
	}
	for _, name := range names {
		if v := p.value(name); v > MaxModulus {
			return fmt.Errorf("field %q: modulus %v must be at most 2^30", name, v)
		}
	}
	return
}

// even checks that the given fields are even.
func (p Parameters) even(names ...string) (err error) {
	for _, name := range names {
		if v := p.value(name); math.Mod(v, 2) != 0 {
			return fmt.Errorf("field %q: value %v must be even", name, v)
		}
	}
	return
}

// baseLaws returns the laws described by the given parameters, in order.
func baseLaws(params ...distribution.Parameters) (laws []*distribution.Law, err error) {
	laws = make([]*distribution.Law, len(params))
	for i, d := range params {
		if laws[i], err = d.Law(); err != nil {
			return nil, err
		}
	}
	return
}

func check(checks ...error) error {
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}
