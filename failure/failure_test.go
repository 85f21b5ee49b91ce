package failure

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pro7ech/decfail/distribution"
	"github.com/Pro7ech/decfail/noise"
	"github.com/Pro7ech/decfail/utils/bignum"
)

func testString(opname string, scheme Scheme, record map[string]float64) string {
	return fmt.Sprintf("%s/%s/n=%v/q=%v", opname, scheme, record["n"], record["q"])
}

// dense is a law over [offset, offset+len(mass)).
type dense struct {
	offset int
	mass   []float64
}

func denseCB(k int) (d dense) {
	d.offset = -k
	d.mass = make([]float64, 2*k+1)
	den := math.Pow(4, float64(k))
	for i := range d.mass {
		c, _ := new(big.Float).SetInt(new(big.Int).Binomial(int64(2*k), int64(i))).Float64()
		d.mass[i] = c / den
	}
	return
}

func denseConvolve(a, b dense) (c dense) {
	c.offset = a.offset + b.offset
	c.mass = make([]float64, len(a.mass)+len(b.mass)-1)
	for i, x := range a.mass {
		for j, y := range b.mass {
			c.mass[i+j] += x * y
		}
	}
	return
}

func denseProduct(a, b dense) (c dense) {
	table := map[int]float64{}
	lo, hi := 0, 0
	for i, x := range a.mass {
		for j, y := range b.mass {
			v := (i + a.offset) * (j + b.offset)
			table[v] += x * y
			lo, hi = min(lo, v), max(hi, v)
		}
	}
	c.offset = lo
	c.mass = make([]float64, hi-lo+1)
	for v, p := range table {
		c.mass[v-lo] = p
	}
	return
}

func denseTail(a dense, t int) (p float64) {
	for i, x := range a.mass {
		if v := i + a.offset; v > t || -v > t {
			p += x
		}
	}
	return
}

func TestComputeFailureProbability(t *testing.T) {

	t.Run("LWE/Reference", func(t *testing.T) {

		record := map[string]float64{"n": 4, "q": 3329, "ks": 2, "ke_pk": 2, "kr": 2, "ke": 2, "threshold": 10}

		// Independent dense evaluation of <e, r> + <s, e1> + e2.
		cb := denseCB(2)
		prod := denseProduct(cb, cb)
		acc := dense{mass: []float64{1}}
		for i := 0; i < 8; i++ {
			acc = denseConvolve(acc, prod)
		}
		acc = denseConvolve(acc, cb)
		want := math.Log2(denseTail(acc, 10))

		have, err := ComputeFailureProbability(LWE, record)
		require.NoError(t, err)
		require.InDelta(t, want, have, 1e-6)
		require.Less(t, have, 0.0)

		again, err := ComputeFailureProbability(LWE, record)
		require.NoError(t, err)
		require.Equal(t, have, again)
	})

	t.Run("Conventions", func(t *testing.T) {

		lwe := map[string]float64{"n": 16, "q": 3329, "ks": 2, "ke_pk": 2, "kr": 2, "ke": 2, "threshold": 20}
		law, err := noise.LWEFinalError(noise.Parameters{N: 16, Q: 3329, KS: 2, KEPK: 2, KR: 2, KE: 2})
		require.NoError(t, err)
		have, err := ComputeFailureProbability(LWE, lwe)
		require.NoError(t, err)
		require.Equal(t, math.Log2(distribution.TailProbability(law, 20)), have)

		rlwe := map[string]float64{"n": 16, "ks": 2, "ke": 2, "q": 3329, "rqc": 1024, "rq2": 16, "rqk": 0, "threshold": 20}
		p, err := noise.NewParameters(mustSchema(t, RLWE2n), rlwe)
		require.NoError(t, err)
		law, err = noise.RLWE2nFinalError(p)
		require.NoError(t, err)
		have, err = ComputeFailureProbability(RLWE2n, rlwe)
		require.NoError(t, err)
		require.Equal(t, math.Log2(16*distribution.TailProbability(law, 20)), have)

		ntru := map[string]float64{"n": 11, "q": 256}
		have, err = ComputeFailureProbability(NTRU, ntru)
		require.NoError(t, err)
		require.Greater(t, have, 0.0)
	})

	for _, tc := range []struct {
		scheme Scheme
		record map[string]float64
	}{
		{LWR, map[string]float64{"n": 16, "q": 1024, "p": 256, "ks": 2, "kr": 2, "threshold": 40}},
		{RLWE2n, map[string]float64{"n": 32, "ks": 2, "ke": 2, "q": 3329, "rqc": 1024, "rq2": 16, "rqk": 0, "threshold": 40}},
		{MLWE2n, map[string]float64{"n": 16, "m": 2, "ks": 3, "ke": 3, "ke_ct": 2, "q": 3329, "rqk": 0, "rqc": 1024, "rq2": 16, "threshold": 50}},
		{MLWESS, map[string]float64{"n": 16, "q": 3329, "eta_s": 2, "eta_e": 2, "eta_ct": 2, "rqc": 1024, "rq2": 16, "threshold": 50}},
		{RLWR, map[string]float64{"n": 16, "q": 8192, "rqk": 1024, "rqc": 1024, "rq2": 8, "ks": 4, "kr": 4, "threshold": 600}},
		{MLWR, map[string]float64{"n": 8, "m": 2, "q": 8192, "rqk": 1024, "rqc": 1024, "rq2": 8, "ks": 4, "kr": 4, "threshold": 600}},
		{RLWE3n, map[string]float64{"n": 16, "q": 257, "psi_1": 1, "threshold": 8}},
		{MLWE3n, map[string]float64{"n": 8, "q": 3457, "k": 2, "psi_1": 1, "rqc": 512, "rq2": 8, "threshold": 300}},
		{NTRU, map[string]float64{"n": 101, "q": 128}},
	} {
		t.Run(testString("Finite", tc.scheme, tc.record), func(t *testing.T) {
			have, err := NewEvaluator(2, 0).ComputeFailureProbability(tc.scheme, tc.record)
			require.NoError(t, err)
			require.False(t, math.IsNaN(have))
			require.False(t, math.IsInf(have, 0))
		})
	}

	t.Run("RLWE_3n/Reference", func(t *testing.T) {

		record := map[string]float64{"n": 16, "q": 257, "psi_1": 1, "threshold": 8}

		p, err := noise.NewParameters(mustSchema(t, RLWE3n), record)
		require.NoError(t, err)
		m, err := noise.RLWE3nBlocks(p)
		require.NoError(t, err)

		var logPSuccess float64
		for i := 0; i < m.Blocks; i++ {
			logPSuccess += math.Log1p(-2 * distribution.TailProbability(m.Block(i), 8))
		}
		last, mult := m.Last()
		logPSuccess += float64(mult) * math.Log1p(-2*distribution.TailProbability(last, 8))

		have, err := ComputeFailureProbability(RLWE3n, record)
		require.NoError(t, err)
		require.InDelta(t, math.Log2(-logPSuccess), have, 1e-12)
	})

	t.Run("NTRU/ExactVsFloat", func(t *testing.T) {
		for _, q := range []int{64, 128, 256} {
			m, err := noise.NTRUOneShot(noise.Parameters{N: 11, Q: q})
			require.NoError(t, err)

			want := -math.Log2(distribution.TailProbability(m.Law(), float64(m.Threshold)))

			have, err := ComputeFailureProbability(NTRU, map[string]float64{"n": 11, "q": float64(q)})
			require.NoError(t, err)
			require.InDelta(t, want, have, 1e-9)
		}
	})

	t.Run("NTRU/HPS2048509", func(t *testing.T) {
		// The probability of the extreme draw alone is 6^-wt.
		have, err := NewEvaluator(0, 256).ComputeFailureProbability(NTRU, map[string]float64{"n": 509, "q": 2048})
		require.NoError(t, err)
		require.Greater(t, have, 0.0)
		require.Less(t, have, 254*math.Log2(6))
	})

	t.Run("NTRU/ZeroTail", func(t *testing.T) {
		have, err := ComputeFailureProbability(NTRU, map[string]float64{"n": 11, "q": 20})
		require.NoError(t, err)
		require.True(t, math.IsInf(have, 1))
	})

	t.Run("Saturation", func(t *testing.T) {
		have, err := ComputeFailureProbability(RLWE3n, map[string]float64{"n": 4, "q": 257, "psi_1": 1, "threshold": 1000})
		require.NoError(t, err)
		require.True(t, math.IsInf(have, -1))
	})
}

func TestParallelReduction(t *testing.T) {

	for _, tc := range []struct {
		scheme Scheme
		record map[string]float64
	}{
		{RLWE3n, map[string]float64{"n": 32, "q": 257, "psi_1": 1, "threshold": 16}},
		{MLWE3n, map[string]float64{"n": 8, "q": 3457, "k": 2, "psi_1": 1, "rqc": 512, "rq2": 8, "threshold": 300}},
	} {
		t.Run(testString("SerialVsParallel", tc.scheme, tc.record), func(t *testing.T) {
			serial, err := NewEvaluator(1, 0).ComputeFailureProbability(tc.scheme, tc.record)
			require.NoError(t, err)

			for _, workers := range []int{2, 4, 7, 64, 0} {
				parallel, err := NewEvaluator(workers, 0).ComputeFailureProbability(tc.scheme, tc.record)
				require.NoError(t, err)
				require.Equal(t, serial, parallel, "workers=%d", workers)
			}
		})
	}

	t.Run("WorkerFailure", func(t *testing.T) {
		// A model without block functions panics in every task.
		_, err := NewEvaluator(2, 0).reduce(&noise.BlockModel{Blocks: 3, Multiplicity: 3}, nil)
		require.ErrorIs(t, err, ErrWorkerFailure)
	})

	t.Run("WorkerFailure/ManyBlocks", func(t *testing.T) {
		// Two goroutines drain the indexes and skip them after the first failure.
		_, err := NewEvaluator(2, 0).reduce(&noise.BlockModel{Blocks: 1 << 20, Multiplicity: 1}, nil)
		require.ErrorIs(t, err, ErrWorkerFailure)
	})

	t.Run("TailTooLarge", func(t *testing.T) {
		_, err := ComputeFailureProbability(RLWE3n, map[string]float64{"n": 4, "q": 257, "psi_1": 1, "threshold": -1})
		require.ErrorIs(t, err, ErrInternal)
		require.False(t, errors.Is(err, ErrWorkerFailure))
	})
}

func TestErrors(t *testing.T) {

	t.Run("UnknownScheme", func(t *testing.T) {
		_, err := ComputeFailureProbability(Scheme(42), map[string]float64{})
		require.ErrorIs(t, err, ErrUnknownScheme)

		_, err = ComputeFailureProbability(Scheme(-1), map[string]float64{})
		require.ErrorIs(t, err, ErrUnknownScheme)

		_, err = ParseScheme("FrodoKEM")
		require.ErrorIs(t, err, ErrUnknownScheme)

		_, err = Scheme(42).Schema()
		require.ErrorIs(t, err, ErrUnknownScheme)
	})

	t.Run("MissingField", func(t *testing.T) {
		_, err := ComputeFailureProbability(LWE, map[string]float64{"n": 4, "q": 3329, "ks": 2, "ke_pk": 2, "kr": 2, "ke": 2})
		require.ErrorIs(t, err, ErrMalformedParameter)
		require.ErrorContains(t, err, "threshold")
	})

	t.Run("ExtraField", func(t *testing.T) {
		_, err := ComputeFailureProbability(NTRU, map[string]float64{"n": 509, "q": 2048, "p": 3})
		require.ErrorIs(t, err, ErrMalformedParameter)
	})

	t.Run("NotIntegral", func(t *testing.T) {
		_, err := ComputeFailureProbability(NTRU, map[string]float64{"n": 509, "q": 2048.5})
		require.ErrorIs(t, err, ErrMalformedParameter)
	})

	t.Run("OutOfDomain", func(t *testing.T) {
		_, err := ComputeFailureProbability(LWE, map[string]float64{"n": 0, "q": 3329, "ks": 2, "ke_pk": 2, "kr": 2, "ke": 2, "threshold": 10})
		require.ErrorIs(t, err, ErrMalformedParameter)

		_, err = ComputeFailureProbability(MLWE3n, map[string]float64{"n": 7, "q": 3457, "k": 2, "psi_1": 1, "rqc": 512, "rq2": 8, "threshold": 300})
		require.ErrorIs(t, err, ErrMalformedParameter)

		_, err = ComputeFailureProbability(NTRU, map[string]float64{"n": 509, "q": 8})
		require.ErrorIs(t, err, ErrMalformedParameter)
	})

	t.Run("OutOfDomain/Width", func(t *testing.T) {
		for _, tc := range []struct {
			scheme Scheme
			record map[string]float64
		}{
			{MLWE3n, map[string]float64{"n": 2, "q": 3457, "k": 1, "psi_1": 1e12, "rqc": 512, "rq2": 8, "threshold": 300}},
			{RLWE3n, map[string]float64{"n": 2, "q": 257, "psi_1": 1e9, "threshold": 42}},
			{LWE, map[string]float64{"n": 4, "q": 3329, "ks": 1 << 30, "ke_pk": 2, "kr": 2, "ke": 2, "threshold": 10}},
			{LWR, map[string]float64{"n": 4, "q": 1 << 30, "p": 2, "ks": 2, "kr": 2, "threshold": 10}},
			{NTRU, map[string]float64{"n": 509, "q": 1 << 30}},
		} {
			t.Run(tc.scheme.String(), func(t *testing.T) {
				_, err := ComputeFailureProbability(tc.scheme, tc.record)
				require.ErrorIs(t, err, ErrMalformedParameter)
			})
		}
	})

	t.Run("ZeroTail", func(t *testing.T) {
		_, err := ComputeFailureProbability(LWE, map[string]float64{"n": 4, "q": 3329, "ks": 2, "ke_pk": 2, "kr": 2, "ke": 2, "threshold": 1000})
		require.ErrorIs(t, err, ErrInternal)
	})

	t.Run("Panic", func(t *testing.T) {
		saved := schemes[LWR]
		defer func() { schemes[LWR] = saved }()

		schemes[LWR].eval = func(*Evaluator, noise.Parameters, *Report) (float64, error) {
			panic("unreachable")
		}

		_, err := ComputeFailureProbability(LWR, map[string]float64{"n": 4, "q": 1024, "p": 256, "ks": 2, "kr": 2, "threshold": 10})
		require.ErrorIs(t, err, ErrInternal)
		require.ErrorContains(t, err, "unreachable")
	})
}

func TestScheme(t *testing.T) {

	require.Len(t, Schemes(), 10)

	for _, s := range Schemes() {
		t.Run(s.String(), func(t *testing.T) {
			parsed, err := ParseScheme(s.String())
			require.NoError(t, err)
			require.Equal(t, s, parsed)

			schema, err := s.Schema()
			require.NoError(t, err)
			require.NotEmpty(t, schema)
			require.Contains(t, noise.FieldNames(), schema[0])

			// The schema is a copy.
			schema[0] = "zeta"
			again, _ := s.Schema()
			require.NotEqual(t, "zeta", again[0])
		})
	}

	s, err := ParseScheme("mlwe_ss")
	require.NoError(t, err)
	require.Equal(t, MLWESS, s)
	require.Equal(t, "Scheme(42)", Scheme(42).String())

	schema, err := RLWE2n.Schema()
	require.NoError(t, err)
	require.Equal(t, []string{"n", "ks", "ke", "q", "rqc", "rq2", "rqk", "threshold"}, schema)
}

func TestParseRecord(t *testing.T) {

	for s, want := range map[string]float64{
		"3329":     3329,
		" 1.5 ":    1.5,
		"2^10":     1024,
		"2**10":    1024,
		"2 ^ 3":    8,
		"-3":       -3,
		"1e3":      1000,
		"0.5**2":   0.25,
		"2^-1":     0.5,
		"16 ** 0 ": 1,
	} {
		t.Run(s, func(t *testing.T) {
			v, err := ParseValue(s)
			require.NoError(t, err)
			require.Equal(t, want, v)
		})
	}

	for _, s := range []string{"", "abc", "2^x", "x^2", "2^1.5", "2**"} {
		_, err := ParseValue(s)
		require.Error(t, err, s)
	}

	record, err := ParseRecord(map[string]string{"n": "2^8", "q": "3329"})
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"n": 256, "q": 3329}, record)

	_, err = ParseRecord(map[string]string{"n": "2^8", "q": "q"})
	require.ErrorIs(t, err, ErrMalformedParameter)
}

func TestReport(t *testing.T) {

	t.Run("RLWE_3n", func(t *testing.T) {
		record := map[string]float64{"n": 16, "q": 257, "psi_1": 1, "threshold": 8}

		report, err := NewEvaluator(3, 0).ComputeFailureReport(RLWE3n, record)
		require.NoError(t, err)

		want, err := ComputeFailureProbability(RLWE3n, record)
		require.NoError(t, err)
		require.Equal(t, want, report.Log2Failure)

		require.Equal(t, 8, report.Blocks())
		require.Equal(t, 3, report.Workers)
		require.Len(t, report.Tails, 9)

		var sum float64
		for _, c := range report.Contributions {
			sum += c
		}
		require.Equal(t, sum, report.LogSuccess)
		require.LessOrEqual(t, report.Min, report.Median)
		require.LessOrEqual(t, report.Min, report.Mean)
		require.Contains(t, report.String(), "RLWE_3n")
	})

	t.Run("LWE", func(t *testing.T) {
		record := map[string]float64{"n": 4, "q": 3329, "ks": 2, "ke_pk": 2, "kr": 2, "ke": 2, "threshold": 10}
		report, err := new(Evaluator).ComputeFailureReport(LWE, record)
		require.NoError(t, err)
		require.Equal(t, math.Log2(report.Tail), report.Log2Failure)
		require.Equal(t, [2]int{-34, 34}, report.Support)
		require.Equal(t, 0, report.Blocks())
		require.Equal(t, record, report.Parameters.Record(mustSchema(t, LWE)))
	})

	t.Run("NTRU", func(t *testing.T) {
		report, err := NewEvaluator(0, 200).ComputeFailureReport(NTRU, map[string]float64{"n": 11, "q": 64})
		require.NoError(t, err)
		require.Equal(t, uint(200), report.Precision)
		require.Equal(t, [2]int{-36, 36}, report.Support)
		require.InDelta(t, 14.0/46656, report.Tail, 1e-18)
	})

	t.Run("Error", func(t *testing.T) {
		_, err := new(Evaluator).ComputeFailureReport(NTRU, map[string]float64{})
		require.ErrorIs(t, err, ErrMalformedParameter)
	})
}

func TestFinalLaw(t *testing.T) {

	t.Run("LWE", func(t *testing.T) {
		record := map[string]float64{"n": 16, "q": 3329, "ks": 2, "ke_pk": 2, "kr": 2, "ke": 2, "threshold": 20}
		have, err := FinalLaw(LWE, record)
		require.NoError(t, err)
		want, err := noise.LWEFinalError(noise.Parameters{N: 16, Q: 3329, KS: 2, KEPK: 2, KR: 2, KE: 2, Threshold: 20})
		require.NoError(t, err)
		require.True(t, want.Equal(have, 0))
	})

	t.Run("RLWE_3n", func(t *testing.T) {
		record := map[string]float64{"n": 16, "q": 257, "psi_1": 1, "threshold": 8}
		have, err := FinalLaw(RLWE3n, record)
		require.NoError(t, err)
		p, err := noise.NewParameters(mustSchema(t, RLWE3n), record)
		require.NoError(t, err)
		m, err := noise.RLWE3nBlocks(p)
		require.NoError(t, err)
		want, _ := m.Last()
		require.True(t, want.Equal(have, 0))
	})

	t.Run("NTRU", func(t *testing.T) {
		have, err := FinalLaw(NTRU, map[string]float64{"n": 11, "q": 64})
		require.NoError(t, err)
		require.InDelta(t, 1, have.Sum(), 1e-12)
		require.Equal(t, -have.Min(), have.Max())
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := FinalLaw(Scheme(-1), nil)
		require.ErrorIs(t, err, ErrUnknownScheme)
		_, err = FinalLaw(NTRU, map[string]float64{"n": 11})
		require.ErrorIs(t, err, ErrMalformedParameter)
		_, err = FinalLaw(NTRU, map[string]float64{"n": 11, "q": 8})
		require.ErrorIs(t, err, ErrMalformedParameter)
	})
}

func TestPresets(t *testing.T) {

	require.Equal(t, bignum.PrecFromDigits(50), uint(DefaultPrecision))

	for _, preset := range noise.Presets {
		t.Run(preset.Name, func(t *testing.T) {
			scheme, err := ParseScheme(preset.Scheme)
			require.NoError(t, err)

			record, err := scheme.Parameters(preset.Parameters)
			require.NoError(t, err)

			p, err := noise.NewParameters(mustSchema(t, scheme), record)
			require.NoError(t, err)
			require.True(t, p.Equal(&preset.Parameters))
		})
	}

	for _, name := range []string{"toy-lwe", "toy-rlwe3n", "toy-mlwe3n"} {
		t.Run("Evaluate/"+name, func(t *testing.T) {
			preset, err := noise.PresetByName(name)
			require.NoError(t, err)
			scheme, err := ParseScheme(preset.Scheme)
			require.NoError(t, err)
			record, err := scheme.Parameters(preset.Parameters)
			require.NoError(t, err)
			_, err = ComputeFailureProbability(scheme, record)
			require.NoError(t, err)
		})
	}
}

func mustSchema(t *testing.T, s Scheme) []string {
	schema, err := s.Schema()
	require.NoError(t, err)
	return schema
}

func BenchmarkComputeFailureProbability(b *testing.B) {

	for _, name := range []string{"kyber512", "lightsaber", "ntru-hps2048509", "toy-rlwe3n"} {

		preset, err := noise.PresetByName(name)
		require.NoError(b, err)
		scheme, err := ParseScheme(preset.Scheme)
		require.NoError(b, err)
		record, err := scheme.Parameters(preset.Parameters)
		require.NoError(b, err)

		b.Run(testString(name, scheme, record), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := ComputeFailureProbability(scheme, record); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
