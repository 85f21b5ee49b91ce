package distribution

import (
	"fmt"
	"math"
)

const (
	centeredBinomialName = "CenteredBinomial"
	discreteGaussianName = "DiscreteGaussian"
	ternaryName          = "Ternary"
	uniformName          = "Uniform"
	modSwitchingName     = "ModSwitching"
)

// Parameters is an interface for the parameters of a base law.
// There are five implementations of this interface:
//   - CenteredBinomialParameters for the centered binomial law of parameter K.
//   - DiscreteGaussianParameters for the truncated discrete Gaussian of standard deviation Sigma.
//   - TernaryParameters for the law {-1: P, 0: 1-2P, 1: P}.
//   - UniformParameters for the uniform law over [-B, B].
//   - ModSwitchingParameters for the rounding error of a switch from Q to RQ and back.
type Parameters interface {
	// Law returns the law described by the parameters, or an
	// error if the parameters are out of their domain.
	Law() (*Law, error)
	Equal(Parameters) bool
	Name() string
	mustBeDist()
}

// CenteredBinomialParameters represents the parameters of
// a centered binomial law of support [-K, K].
type CenteredBinomialParameters struct {
	K int
}

// DiscreteGaussianParameters represents the parameters of a discrete
// Gaussian law of standard deviation Sigma truncated at 3*Sigma.
type DiscreteGaussianParameters struct {
	Sigma float64
}

// TernaryParameters represents the parameters of a law
// with support [-1, 0, 1] and probabilities [P, 1-2P, P].
type TernaryParameters struct {
	P float64
}

// UniformParameters represents the parameters of a
// uniform law over [-B, B].
type UniformParameters struct {
	B int
}

// ModSwitchingParameters represents the parameters of
// the rounding error law of a modulus switch from Q to
// RQ and back to Q.
type ModSwitchingParameters struct {
	Q, RQ int
}

func (d CenteredBinomialParameters) Law() (*Law, error) {
	if d.K < 0 || d.K > MaxWidth {
		return nil, fmt.Errorf("invalid %s: K=%d must be in [0, %d]", d.Name(), d.K, MaxWidth)
	}
	return CenteredBinomial(d.K), nil
}

func (d CenteredBinomialParameters) Equal(other Parameters) bool {
	switch other := other.(type) {
	case *CenteredBinomialParameters:
		return d == *other
	case CenteredBinomialParameters:
		return d == other
	default:
		return false
	}
}

func (d CenteredBinomialParameters) Name() string {
	return centeredBinomialName
}

func (d CenteredBinomialParameters) mustBeDist() {}

func (d DiscreteGaussianParameters) Law() (*Law, error) {
	if !(d.Sigma > 0) || math.IsInf(d.Sigma, 0) {
		return nil, fmt.Errorf("invalid %s: Sigma=%v must be strictly positive and finite", d.Name(), d.Sigma)
	}
	if GaussianTailCut*d.Sigma > MaxWidth {
		return nil, fmt.Errorf("invalid %s: Sigma=%v must be at most %d/%d", d.Name(), d.Sigma, MaxWidth, GaussianTailCut)
	}
	return DiscreteGaussian(d.Sigma), nil
}

func (d DiscreteGaussianParameters) Equal(other Parameters) bool {
	switch other := other.(type) {
	case *DiscreteGaussianParameters:
		return d == *other
	case DiscreteGaussianParameters:
		return d == other
	default:
		return false
	}
}

func (d DiscreteGaussianParameters) Name() string {
	return discreteGaussianName
}

func (d DiscreteGaussianParameters) mustBeDist() {}

func (d TernaryParameters) Law() (*Law, error) {
	if !(d.P >= 0 && d.P <= 0.5) {
		return nil, fmt.Errorf("invalid %s: P=%v must be in [0, 0.5]", d.Name(), d.P)
	}
	return SparseTernary(d.P), nil
}

func (d TernaryParameters) Equal(other Parameters) bool {
	switch other := other.(type) {
	case *TernaryParameters:
		return d == *other
	case TernaryParameters:
		return d == other
	default:
		return false
	}
}

func (d TernaryParameters) Name() string {
	return ternaryName
}

func (d TernaryParameters) mustBeDist() {}

func (d UniformParameters) Law() (*Law, error) {
	if d.B < 0 || d.B > MaxWidth {
		return nil, fmt.Errorf("invalid %s: B=%d must be in [0, %d]", d.Name(), d.B, MaxWidth)
	}
	return Uniform(d.B), nil
}

func (d UniformParameters) Equal(other Parameters) bool {
	switch other := other.(type) {
	case *UniformParameters:
		return d == *other
	case UniformParameters:
		return d == other
	default:
		return false
	}
}

func (d UniformParameters) Name() string {
	return uniformName
}

func (d UniformParameters) mustBeDist() {}

func (d ModSwitchingParameters) Law() (*Law, error) {
	if d.Q <= 0 || d.RQ <= 0 {
		return nil, fmt.Errorf("invalid %s: Q=%d and RQ=%d must be strictly positive", d.Name(), d.Q, d.RQ)
	}
	if d.Q > math.MaxInt32 || d.RQ > math.MaxInt32 {
		return nil, fmt.Errorf("invalid %s: Q=%d and RQ=%d must be at most 2^31-1", d.Name(), d.Q, d.RQ)
	}
	if d.Q/d.RQ > 2*MaxWidth {
		return nil, fmt.Errorf("invalid %s: Q/RQ=%d must be at most %d", d.Name(), d.Q/d.RQ, 2*MaxWidth)
	}
	return ModSwitching(d.Q, d.RQ), nil
}

func (d ModSwitchingParameters) Equal(other Parameters) bool {
	switch other := other.(type) {
	case *ModSwitchingParameters:
		return d == *other
	case ModSwitchingParameters:
		return d == other
	default:
		return false
	}
}

func (d ModSwitchingParameters) Name() string {
	return modSwitchingName
}

func (d ModSwitchingParameters) mustBeDist() {}

func getFloatFromMap(distDef map[string]interface{}, key string) (float64, error) {
	val, hasVal := distDef[key]
	if !hasVal {
		return 0, fmt.Errorf("map specifies no value for %s", key)
	}
	f, isFloat := val.(float64)
	if !isFloat {
		return 0, fmt.Errorf("value for key %s in map should be of type float", key)
	}
	return f, nil
}

func getIntFromMap(distDef map[string]interface{}, key string) (int, error) {
	f, err := getFloatFromMap(distDef, key)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("value for key %s in map should be an integer", key)
	}
	return int(f), nil
}

// ParametersFromMap decodes the parameters of a base law from a map, as produced
// by encoding/json. The key "Type" selects the law, the other keys its fields,
// e.g. {"Type": "ModSwitching", "Q": 3329, "RQ": 1024}.
func ParametersFromMap(distDef map[string]interface{}) (Parameters, error) {
	distTypeVal, specified := distDef["Type"]
	if !specified {
		return nil, fmt.Errorf("map specifies no distribution type")
	}
	distTypeStr, isString := distTypeVal.(string)
	if !isString {
		return nil, fmt.Errorf("value for key Type of map should be of type string")
	}
	switch distTypeStr {
	case centeredBinomialName:
		k, err := getIntFromMap(distDef, "K")
		if err != nil {
			return nil, err
		}
		return &CenteredBinomialParameters{K: k}, nil
	case discreteGaussianName:
		sigma, err := getFloatFromMap(distDef, "Sigma")
		if err != nil {
			return nil, err
		}
		return &DiscreteGaussianParameters{Sigma: sigma}, nil
	case ternaryName:
		p, err := getFloatFromMap(distDef, "P")
		if err != nil {
			return nil, err
		}
		return &TernaryParameters{P: p}, nil
	case uniformName:
		b, err := getIntFromMap(distDef, "B")
		if err != nil {
			return nil, err
		}
		return &UniformParameters{B: b}, nil
	case modSwitchingName:
		q, err := getIntFromMap(distDef, "Q")
		if err != nil {
			return nil, err
		}
		rq, err := getIntFromMap(distDef, "RQ")
		if err != nil {
			return nil, err
		}
		return &ModSwitchingParameters{Q: q, RQ: rq}, nil
	default:
		return nil, fmt.Errorf("distribution type %s does not exist", distTypeStr)
	}
}
