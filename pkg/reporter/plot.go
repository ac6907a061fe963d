package reporter

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/montanaflynn/stats"
	"github.com/tantalor93/dohrank/pkg/dohbench"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var barColors = append([]color.Color{
	color.RGBA{R: 122, G: 195, B: 106, A: 255},
	color.RGBA{R: 90, G: 155, B: 212, A: 255},
	color.RGBA{R: 250, G: 167, B: 91, A: 255},
	color.RGBA{R: 158, G: 103, B: 171, A: 255},
}, plotutil.DarkColors...)

// available returns servers with at least one measured latency.
func available(results []dohbench.ServerResult) []dohbench.ServerResult {
	var res []dohbench.ServerResult
	for _, r := range results {
		if r.Stats != nil {
			res = append(res, r)
		}
	}
	return res
}

func latencyValues(r dohbench.ServerResult) plotter.Values {
	var values plotter.Values
	for _, l := range r.Latencies() {
		values = append(values, toMs(l))
	}
	return values
}

func serverNames(results []dohbench.ServerResult) []string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	return names
}

func savePlot(p *plot.Plot, file string) {
	if err := p.Save(6*vg.Inch, 6*vg.Inch, file); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to save plot.", err)
	}
}

func plotHistogramLatency(file string, results []dohbench.ServerResult) {
	var values plotter.Values
	for _, r := range results {
		values = append(values, latencyValues(r)...)
	}
	if len(values) == 0 {
		// nothing to plot
		return
	}
	p := plot.New()
	p.Title.Text = "Latencies distribution"

	hist, err := plotter.NewHist(values, numBins(values))
	if err != nil {
		panic(err)
	}
	p.X.Label.Text = "Latencies (ms)"
	p.X.Tick.Marker = hplot.Ticks{N: 5, Format: "%.0f"}
	p.Y.Label.Text = "Number of domains"
	p.Y.Tick.Marker = hplot.Ticks{N: 5, Format: "%.0f"}
	hist.FillColor = color.RGBA{R: 175, G: 238, B: 238, A: 255}
	p.Add(hist)

	savePlot(p, file)
}

// numBins calculates number of bins for histogram.
func numBins(values plotter.Values) int {
	n := float64(len(values))

	// small dataset
	if n < 100 {
		sqrt := math.Sqrt(n)
		return max(1, int(math.Min(15, sqrt)))
	}

	// medium dataset - use Rice's rule
	if n < 1000 {
		rice := 2 * math.Cbrt(n)
		return int(math.Min(30, rice))
	}

	// large dataset - use Doane's rule
	skewness := stat.Skew(values, nil)
	sigmaG := math.Sqrt(6 * (n - 2) / ((n + 1) * (n + 3)))
	doane := 1 + math.Log2(n) + math.Log2(1+math.Abs(skewness)/sigmaG)
	return int(math.Min(50, doane))
}

func plotBoxPlotLatency(file string, results []dohbench.ServerResult) {
	results = available(results)
	if len(results) == 0 {
		// nothing to plot
		return
	}
	p := plot.New()
	p.Title.Text = "Latencies per server"
	p.Y.Label.Text = "Latencies (ms)"
	p.Y.Tick.Marker = hplot.Ticks{N: 3, Format: "%.0f"}
	p.NominalX(serverNames(results)...)

	width := vg.Length(360 / (len(results) + 1))
	for i, r := range results {
		boxplot, err := plotter.NewBoxPlot(width, float64(i), latencyValues(r))
		if err != nil {
			panic(err)
		}
		boxplot.FillColor = color.RGBA{R: 127, G: 188, B: 165, A: 255}
		p.Add(boxplot)
	}

	savePlot(p, file)
}

func plotMedians(file string, results []dohbench.ServerResult) {
	results = available(results)
	if len(results) == 0 {
		// nothing to plot
		return
	}
	values := make(plotter.Values, 0, len(results))
	for _, r := range results {
		values = append(values, toMs(r.Stats.Median))
	}

	p := plot.New()
	p.Title.Text = "Median latency per server"
	p.Y.Label.Text = "Latency (ms)"
	p.Y.Tick.Marker = hplot.Ticks{N: 3, Format: "%.0f"}
	p.NominalX(serverNames(results)...)

	bar, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		panic(err)
	}
	bar.Color = barColors[0]
	p.Add(bar)

	savePlot(p, file)
}

// plotPercentiles plots p50, p90 and p99 latencies of every server as grouped bars.
func plotPercentiles(file string, results []dohbench.ServerResult) {
	results = available(results)
	if len(results) == 0 {
		// nothing to plot
		return
	}
	percentiles := []float64{50, 90, 99}

	p := plot.New()
	p.Title.Text = "Latency percentiles per server"
	p.Y.Label.Text = "Latency (ms)"
	p.Y.Tick.Marker = hplot.Ticks{N: 3, Format: "%.0f"}
	p.NominalX(serverNames(results)...)
	p.Legend.Top = true

	width := vg.Points(12)
	off := -vg.Length(len(percentiles)/2) * width
	for c, pct := range percentiles {
		values := make(plotter.Values, 0, len(results))
		for _, r := range results {
			v, err := stats.Percentile([]float64(latencyValues(r)), pct)
			if err != nil {
				panic(err)
			}
			values = append(values, v)
		}
		bar, err := plotter.NewBarChart(values, width)
		if err != nil {
			panic(err)
		}
		bar.Color = barColors[c%len(barColors)]
		bar.Offset = off
		p.Add(bar)
		p.Legend.Add(fmt.Sprintf("p%.0f", pct), bar)
		off += width
	}

	savePlot(p, file)
}

// plotLineLatencies plots latency of every domain in the order of probing, one line per server.
func plotLineLatencies(file string, results []dohbench.ServerResult) {
	results = available(results)
	if len(results) == 0 {
		// nothing to plot
		return
	}

	p := plot.New()
	p.Title.Text = "Response latencies"
	p.X.Label.Text = "Domain (order of probing)"
	p.X.Tick.Marker = hplot.Ticks{N: 5, Format: "%.0f"}
	p.Y.Label.Text = "Latency (ms)"

	for i, r := range results {
		var values plotter.XYs
		for j, d := range r.PerDomain {
			if d.Available() {
				values = append(values, plotter.XY{X: float64(j + 1), Y: toMs(d.Latency)})
			}
		}
		plotLine(p, values, plotutil.Color(i), r.Name)
	}
	p.Legend.Top = true

	savePlot(p, file)
}

func plotLine(p *plot.Plot, values plotter.XYs, color color.Color, name string) {
	l, err := plotter.NewLine(values)
	if err != nil {
		panic(err)
	}
	l.Color = color
	p.Add(l)
	p.Legend.Add(name, l)
	scatter, err := plotter.NewScatter(values)
	if err != nil {
		panic(err)
	}
	scatter.Color = color
	scatter.Shape = draw.CircleGlyph{}
	p.Add(scatter)
}
