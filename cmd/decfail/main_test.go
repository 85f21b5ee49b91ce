package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pro7ech/decfail/failure"
)

func TestRecord(t *testing.T) {

	t.Run("Set", func(t *testing.T) {
		record, err := parseSet("n=256, q=2^13,threshold=1.5,")
		require.NoError(t, err)
		require.Equal(t, map[string]float64{"n": 256, "q": 8192, "threshold": 1.5}, record)

		_, err = parseSet("n256")
		require.ErrorIs(t, err, failure.ErrMalformedParameter)
		_, err = parseSet("n=2^x")
		require.ErrorIs(t, err, failure.ErrMalformedParameter)
	})

	t.Run("Params", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "params.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"n": 4, "q": "2**10", "ks": 2}`), 0o644))
		record, err := readParams(path)
		require.NoError(t, err)
		require.Equal(t, map[string]float64{"n": 4, "q": 1024, "ks": 2}, record)

		require.NoError(t, os.WriteFile(path, []byte(`{"n": [4]}`), 0o644))
		_, err = readParams(path)
		require.ErrorIs(t, err, failure.ErrMalformedParameter)

		_, err = readParams(filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
	})

	t.Run("Preset", func(t *testing.T) {
		src := source{preset: "toy-lwe", set: "threshold=12"}
		scheme, record, err := src.record()
		require.NoError(t, err)
		require.Equal(t, failure.LWE, scheme)
		require.Equal(t, 12.0, record["threshold"])

		src.scheme = "RLWR"
		_, _, err = src.record()
		require.Error(t, err)

		src = source{preset: "does-not-exist"}
		_, _, err = src.record()
		require.Error(t, err)
	})

	t.Run("Missing", func(t *testing.T) {
		_, _, err := (&source{}).record()
		require.Error(t, err)
		_, _, err = (&source{scheme: "LWE"}).record()
		require.Error(t, err)
		_, _, err = (&source{scheme: "Kyber", set: "n=1"}).record()
		require.ErrorIs(t, err, failure.ErrUnknownScheme)
	})
}

func TestCommands(t *testing.T) {

	t.Run("Failure", func(t *testing.T) {
		var out bytes.Buffer
		plot := filepath.Join(t.TempDir(), "law.html")
		require.NoError(t, runFailure([]string{"-preset", "toy-lwe", "-report", "-plot", plot}, &out))
		require.Contains(t, out.String(), "scheme: LWE")
		require.Contains(t, out.String(), "plot: "+plot)

		html, err := os.ReadFile(plot)
		require.NoError(t, err)
		require.Contains(t, string(html), "log2(mass)")
	})

	t.Run("FailureError", func(t *testing.T) {
		var out bytes.Buffer
		err := runFailure([]string{"-scheme", "LWE", "-set", "n=4"}, &out)
		require.ErrorIs(t, err, failure.ErrMalformedParameter)
	})

	t.Run("Overhead", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runOverhead([]string{"-scheme", "LWE", "-set", "n=512,m=1024,q=2^12,B=4,eta=2"}, &out))
		require.Contains(t, out.String(), "pk=1552B")
	})

	t.Run("Schemes", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runSchemes(&out))
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, len(failure.Schemes())+1)
		require.Contains(t, out.String(), "MLWE_ss")
	})

	t.Run("Presets", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runPresets(&out))
		require.Contains(t, out.String(), "kyber512")
	})
}
