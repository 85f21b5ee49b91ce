package failure

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Pro7ech/decfail/distribution"
	"github.com/Pro7ech/decfail/noise"
)

// Scheme identifies a family of lattice based encryption schemes.
type Scheme int

const (
	NTRU = Scheme(iota)
	LWE
	RLWE2n
	RLWE3n
	MLWE2n
	MLWE3n
	MLWESS
	LWR
	RLWR
	MLWR
	nbSchemes
)

// evaluation computes the log2 failure probability of a parameter set.
// If report is not nil, it is filled with the diagnostics of the evaluation.
type evaluation func(e *Evaluator, p noise.Parameters, report *Report) (float64, error)

type scheme struct {
	name   string
	schema []string
	eval   evaluation
	law    func(p noise.Parameters) (*distribution.Law, error)
}

var schemes = [nbSchemes]scheme{
	NTRU: {
		name:   "NTRU",
		schema: []string{"n", "q"},
		eval:   oneShot,
		law:    ntruLaw,
	},
	LWE: {
		name:   "LWE",
		schema: []string{"n", "q", "ks", "ke_pk", "kr", "ke", "threshold"},
		eval:   finalError(noise.LWEFinalError, false),
		law:    noise.LWEFinalError,
	},
	RLWE2n: {
		name:   "RLWE_2n",
		schema: []string{"n", "ks", "ke", "q", "rqc", "rq2", "rqk", "threshold"},
		eval:   finalError(noise.RLWE2nFinalError, true),
		law:    noise.RLWE2nFinalError,
	},
	RLWE3n: {
		name:   "RLWE_3n",
		schema: []string{"n", "q", "psi_1", "threshold"},
		eval:   blocks(noise.RLWE3nBlocks),
		law:    lastLaw(noise.RLWE3nBlocks),
	},
	MLWE2n: {
		name:   "MLWE_2n",
		schema: []string{"n", "m", "ks", "ke", "ke_ct", "q", "rqk", "rqc", "rq2", "threshold"},
		eval:   finalError(noise.MLWE2nFinalError, true),
		law:    noise.MLWE2nFinalError,
	},
	MLWE3n: {
		name:   "MLWE_3n",
		schema: []string{"n", "q", "k", "psi_1", "rqc", "rq2", "threshold"},
		eval:   blocks(noise.MLWE3nBlocks),
		law:    lastLaw(noise.MLWE3nBlocks),
	},
	MLWESS: {
		name:   "MLWE_ss",
		schema: []string{"n", "q", "eta_s", "eta_e", "eta_ct", "rqc", "rq2", "threshold"},
		eval:   finalError(noise.MLWESSFinalError, true),
		law:    noise.MLWESSFinalError,
	},
	LWR: {
		name:   "LWR",
		schema: []string{"n", "q", "p", "ks", "kr", "threshold"},
		eval:   finalError(noise.LWRFinalError, false),
		law:    noise.LWRFinalError,
	},
	RLWR: {
		name:   "RLWR",
		schema: []string{"n", "q", "rqk", "rqc", "rq2", "ks", "kr", "threshold"},
		eval:   finalError(noise.RLWRFinalError, true),
		law:    noise.RLWRFinalError,
	},
	MLWR: {
		name:   "MLWR",
		schema: []string{"n", "m", "q", "rqk", "rqc", "rq2", "ks", "kr", "threshold"},
		eval:   finalError(noise.MLWRFinalError, true),
		law:    noise.MLWRFinalError,
	},
}

// Schemes returns all the schemes, in the order of their identifiers.
func Schemes() (s []Scheme) {
	s = make([]Scheme, nbSchemes)
	for i := range s {
		s[i] = Scheme(i)
	}
	return
}

// ParseScheme returns the scheme of the given name, e.g. "MLWE_2n".
// The comparison is case insensitive.
func ParseScheme(name string) (Scheme, error) {
	for i := range schemes {
		if strings.EqualFold(schemes[i].name, name) {
			return Scheme(i), nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
}

// Valid returns true if s is a known scheme.
func (s Scheme) Valid() bool {
	return s >= 0 && s < nbSchemes
}

func (s Scheme) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
	return schemes[s].name
}

// Schema returns the ordered names of the parameters of the scheme.
func (s Scheme) Schema() ([]string, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScheme, s)
	}
	return slices.Clone(schemes[s].schema), nil
}

// Parameters returns the record of the parameters p restricted to the schema of the scheme.
func (s Scheme) Parameters(p noise.Parameters) (map[string]float64, error) {
	schema, err := s.Schema()
	if err != nil {
		return nil, err
	}
	return p.Record(schema), nil
}
