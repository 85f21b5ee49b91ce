package main

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Pro7ech/decfail/distribution"
	"github.com/Pro7ech/decfail/failure"
)

// writePlot writes an HTML page with a bar chart of log2 P[X = v]
// for the law X of the decryption error of the scheme.
func writePlot(path string, scheme failure.Scheme, record map[string]float64) (err error) {

	law, err := failure.FinalLaw(scheme, record)
	if err != nil {
		return
	}

	page := components.NewPage()
	page.AddCharts(newLawChart(scheme.String(), law))

	f, err := os.Create(path)
	if err != nil {
		return
	}

	if err = page.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}

	return f.Close()
}

func newLawChart(title string, law *distribution.Law) *charts.Bar {

	xLabels := make([]string, 0, law.Len())
	items := make([]opts.BarData, 0, law.Len())

	law.Range(func(v int, p float64) bool {
		xLabels = append(xLabels, strconv.Itoa(v))
		items = append(items, opts.BarData{Value: math.Log2(p)})
		return true
	})

	subtitle := fmt.Sprintf("support=[%d, %d], mean=%.3f, variance=%.3f", law.Min(), law.Max(), law.Mean(), law.Variance())

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xLabels).
		AddSeries("log2(mass)", items).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))

	return bar
}
