// Command decfail evaluates the decryption failure probability and the
// overhead of lattice based encryption schemes.
//
//	decfail failure  -scheme S (-preset NAME | -params file.json | -set k=v,...) [-workers N] [-prec BITS] [-plot out.html] [-report]
//	decfail overhead -scheme S (-params file.json | -set k=v,...)
//	decfail schemes
//	decfail presets
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/Pro7ech/decfail/failure"
	"github.com/Pro7ech/decfail/noise"
	"github.com/Pro7ech/decfail/overhead"
)

const usage = `usage: decfail <command> [flags]

commands:
  failure   evaluate the decryption failure probability of a parameter set
  overhead  evaluate the sizes and costs of a parameter set
  schemes   list the schemes and their parameters
  presets   list the named parameter sets

run "decfail <command> -h" for the flags of a command.
`

func main() {

	l := log.New(os.Stderr, "", 0)

	if len(os.Args) < 2 {
		l.Fatal(usage)
	}

	var err error
	switch os.Args[1] {
	case "failure":
		err = runFailure(os.Args[2:], os.Stdout)
	case "overhead":
		err = runOverhead(os.Args[2:], os.Stdout)
	case "schemes":
		err = runSchemes(os.Stdout)
	case "presets":
		err = runPresets(os.Stdout)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		err = fmt.Errorf("unknown command %q\n\n%s", os.Args[1], usage)
	}

	if err != nil {
		l.Fatal(err)
	}
}

// source are the flags selecting the parameters of an evaluation.
type source struct {
	scheme string
	preset string
	params string
	set    string
}

func (s *source) register(fs *flag.FlagSet, presets bool) {
	fs.StringVar(&s.scheme, "scheme", "", "scheme name, e.g. MLWE_2n (see \"decfail schemes\")")
	if presets {
		fs.StringVar(&s.preset, "preset", "", "named parameter set (see \"decfail presets\")")
	}
	fs.StringVar(&s.params, "params", "", "JSON file with the parameters, e.g. {\"n\": 256, \"q\": \"2^13\"}")
	fs.StringVar(&s.set, "set", "", "comma separated parameters k=v, overriding the other sources")
}

func runFailure(args []string, w io.Writer) (err error) {

	fs := flag.NewFlagSet("failure", flag.ContinueOnError)

	var src source
	src.register(fs, true)
	workers := fs.Int("workers", 0, "number of concurrent block evaluations, 0 for the number of CPUs")
	prec := fs.Uint("prec", failure.DefaultPrecision, "precision in bits of the NTRU evaluation")
	plot := fs.String("plot", "", "writes an HTML bar chart of the law of the decryption error to this file")
	report := fs.Bool("report", false, "prints the diagnostics of the evaluation")

	if err = fs.Parse(args); err != nil {
		return
	}

	scheme, record, err := src.record()
	if err != nil {
		return
	}

	eval := failure.NewEvaluator(*workers, *prec)

	r, err := eval.ComputeFailureReport(scheme, record)
	if err != nil {
		return
	}

	if *report {
		fmt.Fprint(w, r.String())
	} else {
		fmt.Fprintf(w, "%s: %v\n", scheme, r.Log2Failure)
	}

	if *plot != "" {
		if err = writePlot(*plot, scheme, record); err != nil {
			return
		}
		fmt.Fprintf(w, "plot: %s\n", *plot)
	}

	return
}

func runOverhead(args []string, w io.Writer) (err error) {

	fs := flag.NewFlagSet("overhead", flag.ContinueOnError)

	var src source
	src.register(fs, false)

	if err = fs.Parse(args); err != nil {
		return
	}

	scheme, record, err := src.record()
	if err != nil {
		return
	}

	sizes, err := overhead.ComputeSizes(scheme, record)
	if err != nil {
		return
	}

	costs, err := overhead.ComputeCosts(scheme, record)
	if err != nil {
		return
	}

	fmt.Fprintf(w, "scheme: %s\n", scheme)
	fmt.Fprintf(w, "sizes: %s\n", sizes)
	fmt.Fprintf(w, "costs (SHAKE256 calls, multiplications):\n%s\n", costs)

	return
}

func runSchemes(w io.Writer) error {

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCHEME\tFAILURE PARAMETERS\tOVERHEAD PARAMETERS")

	for _, s := range failure.Schemes() {

		schema, err := s.Schema()
		if err != nil {
			return err
		}

		perf, err := overhead.Schema(s)
		if err != nil {
			return err
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\n", s, strings.Join(schema, ","), strings.Join(perf, ","))
	}

	return tw.Flush()
}

func runPresets(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PRESET\tSCHEME\tDESCRIPTION")
	for _, p := range noise.Presets {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, p.Scheme, p.Description)
	}
	return tw.Flush()
}
