// Package overhead implements closed-form estimates of the communication
// overhead (key and ciphertext sizes) and of the computational cost (SHAKE256
// calls and multiplications) of lattice based encryption schemes.
package overhead

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/Pro7ech/decfail/failure"
)

// Family is a family of schemes sharing the same size and cost formulas.
type Family int

const (
	NTRU = Family(iota)
	LWE
	RLWE
	MLWE
	LWR
	RLWR
	MLWR
	nbFamilies
)

type family struct {
	name   string
	schema []string
	sizes  func(p Parameters) Sizes
	costs  func(p Parameters) Costs
}

var families = [nbFamilies]family{
	NTRU: {"NTRU", []string{"n", "q", "p", "B", "eta"}, ntruSizes, ntruCosts},
	LWE:  {"LWE", []string{"n", "m", "q", "B", "eta"}, lweSizes, lweCosts},
	RLWE: {"RLWE", []string{"n", "q", "B", "eta"}, rlweSizes, rlweCosts},
	MLWE: {"MLWE", []string{"n", "k", "q", "B", "eta"}, mlweSizes, mlweCosts},
	LWR:  {"LWR", []string{"n", "m", "q", "p", "B", "eta"}, lwrSizes, lwrCosts},
	RLWR: {"RLWR", []string{"n", "q", "p", "B", "eta"}, rlwrSizes, rlwrCosts},
	MLWR: {"MLWR", []string{"n", "k", "p", "q", "B", "eta"}, mlwrSizes, mlwrCosts},
}

func (f Family) String() string {
	if f < 0 || f >= nbFamilies {
		return fmt.Sprintf("Family(%d)", int(f))
	}
	return families[f].name
}

// FamilyOf returns the family of formulas of a scheme: the schemes
// over 2n and 3n-cyclotomic rings share the formulas of their family.
func FamilyOf(s failure.Scheme) (Family, error) {
	switch s {
	case failure.NTRU:
		return NTRU, nil
	case failure.LWE:
		return LWE, nil
	case failure.RLWE2n, failure.RLWE3n:
		return RLWE, nil
	case failure.MLWE2n, failure.MLWE3n, failure.MLWESS:
		return MLWE, nil
	case failure.LWR:
		return LWR, nil
	case failure.RLWR:
		return RLWR, nil
	case failure.MLWR:
		return MLWR, nil
	default:
		return -1, fmt.Errorf("%w: %s", failure.ErrUnknownScheme, s)
	}
}

// Schema returns the ordered names of the parameters of the size
// and cost estimates of the scheme.
func Schema(s failure.Scheme) ([]string, error) {
	f, err := FamilyOf(s)
	if err != nil {
		return nil, err
	}
	return slices.Clone(families[f].schema), nil
}

// Parameters are the parameters of the size and cost estimates.
type Parameters struct {
	N, M, K int
	Q, P    int
	// B is the bound of the uniform secrets.
	B int
	// Eta is the parameter of the centered binomial secrets.
	Eta int
}

func (p *Parameters) fields() map[string]*int {
	return map[string]*int{
		"n":   &p.N,
		"m":   &p.M,
		"k":   &p.K,
		"q":   &p.Q,
		"p":   &p.P,
		"B":   &p.B,
		"eta": &p.Eta,
	}
}

// NewParameters creates a new [Parameters] for the scheme from a record
// name -> value, whose keys must be exactly the names of [Schema].
// All the values must be integers, strictly positive except for eta.
func NewParameters(s failure.Scheme, record map[string]float64) (p Parameters, err error) {

	var schema []string
	if schema, err = Schema(s); err != nil {
		return
	}

	for _, name := range schema {
		if _, ok := record[name]; !ok {
			return p, fmt.Errorf("%w: missing field %q", failure.ErrMalformedParameter, name)
		}
	}

	var extra []string
	for name := range record {
		if !slices.Contains(schema, name) {
			extra = append(extra, name)
		}
	}

	if len(extra) != 0 {
		sort.Strings(extra)
		return p, fmt.Errorf("%w: unexpected fields %q", failure.ErrMalformedParameter, extra)
	}

	fields := p.fields()

	for _, name := range schema {

		v := record[name]

		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return p, fmt.Errorf("%w: field %q: value %v is not a 32-bit integer", failure.ErrMalformedParameter, name, v)
		}

		if v < 0 || (v == 0 && name != "eta") {
			return p, fmt.Errorf("%w: field %q: value %v is out of domain", failure.ErrMalformedParameter, name, v)
		}

		*fields[name] = int(v)
	}

	return
}

// ComputeSizes returns the sizes in bytes of the keys and ciphertexts of the scheme.
func ComputeSizes(s failure.Scheme, record map[string]float64) (Sizes, error) {
	f, p, err := decode(s, record)
	if err != nil {
		return Sizes{}, err
	}
	return families[f].sizes(p), nil
}

// ComputeCosts returns the cost of the key generation, encryption and decryption of the scheme.
func ComputeCosts(s failure.Scheme, record map[string]float64) (Costs, error) {
	f, p, err := decode(s, record)
	if err != nil {
		return Costs{}, err
	}
	return families[f].costs(p), nil
}

func decode(s failure.Scheme, record map[string]float64) (f Family, p Parameters, err error) {
	if f, err = FamilyOf(s); err != nil {
		return
	}
	p, err = NewParameters(s, record)
	return
}
