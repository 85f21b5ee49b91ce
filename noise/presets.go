package noise

import (
	"fmt"
)

// Preset is a named parameter set of a scheme.
type Preset struct {
	Name        string
	Scheme      string
	Description string
	Parameters  Parameters
}

// Presets are the parameter sets of some well known schemes and
// small parameter sets for testing.
var Presets = []Preset{
	{
		Name:        "kyber512",
		Scheme:      "MLWE_2n",
		Description: "CRYSTALS-Kyber, NIST level 1",
		Parameters:  Parameters{N: 256, M: 2, Q: 3329, KS: 3, KE: 3, KECT: 2, RQC: 1 << 10, RQ2: 1 << 4, Threshold: 832},
	},
	{
		Name:        "kyber768",
		Scheme:      "MLWE_2n",
		Description: "CRYSTALS-Kyber, NIST level 3",
		Parameters:  Parameters{N: 256, M: 3, Q: 3329, KS: 2, KE: 2, KECT: 2, RQC: 1 << 10, RQ2: 1 << 4, Threshold: 832},
	},
	{
		Name:        "kyber1024",
		Scheme:      "MLWE_2n",
		Description: "CRYSTALS-Kyber, NIST level 5",
		Parameters:  Parameters{N: 256, M: 4, Q: 3329, KS: 2, KE: 2, KECT: 2, RQC: 1 << 11, RQ2: 1 << 5, Threshold: 832},
	},
	{
		Name:        "lightsaber",
		Scheme:      "MLWR",
		Description: "Saber, NIST level 1",
		Parameters:  Parameters{N: 256, M: 2, Q: 1 << 13, RQK: 1 << 10, RQC: 1 << 10, RQ2: 1 << 3, KS: 5, KR: 5, Threshold: 1 << 11},
	},
	{
		Name:        "saber",
		Scheme:      "MLWR",
		Description: "Saber, NIST level 3",
		Parameters:  Parameters{N: 256, M: 3, Q: 1 << 13, RQK: 1 << 10, RQC: 1 << 10, RQ2: 1 << 4, KS: 4, KR: 4, Threshold: 1 << 11},
	},
	{
		Name:        "firesaber",
		Scheme:      "MLWR",
		Description: "Saber, NIST level 5",
		Parameters:  Parameters{N: 256, M: 4, Q: 1 << 13, RQK: 1 << 10, RQC: 1 << 10, RQ2: 1 << 6, KS: 3, KR: 3, Threshold: 1 << 11},
	},
	{
		Name:        "ntru-hps2048509",
		Scheme:      "NTRU",
		Description: "NTRU-HPS, NIST level 1",
		Parameters:  Parameters{N: 509, Q: 2048},
	},
	{
		Name:        "ntru-hps4096821",
		Scheme:      "NTRU",
		Description: "NTRU-HPS, NIST level 5",
		Parameters:  Parameters{N: 821, Q: 4096},
	},
	{
		Name:        "toy-lwe",
		Scheme:      "LWE",
		Description: "small LWE instance",
		Parameters:  Parameters{N: 4, Q: 3329, KS: 2, KEPK: 2, KR: 2, KE: 2, Threshold: 10},
	},
	{
		Name:        "toy-rlwe3n",
		Scheme:      "RLWE_3n",
		Description: "small RLWE instance over the 3n-cyclotomic ring",
		Parameters:  Parameters{N: 32, Q: 257, Psi1: 1, Threshold: 42},
	},
	{
		Name:        "toy-mlwe3n",
		Scheme:      "MLWE_3n",
		Description: "small MLWE instance over the 3n-cyclotomic ring",
		Parameters:  Parameters{N: 16, K: 2, Q: 3457, Psi1: 1, RQC: 1 << 9, RQ2: 1 << 3, Threshold: 432},
	},
}

// PresetByName returns the preset with the given name.
func PresetByName(name string) (Preset, error) {
	for _, p := range Presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("preset %q does not exist", name)
}
