package reporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/tantalor93/dohrank/pkg/dohbench"
)

type reportParameters struct {
	benchmark         *dohbench.Benchmark
	outputWriter      io.Writer
	ranked            []dohbench.ServerResult
	fastest           *dohbench.ServerResult
	summary           Summary
	hist              *hdrhistogram.Histogram
	benchmarkDuration time.Duration
}

type reportPrinter interface {
	print(params reportParameters) error
}

// PrintReport prints formatted ranking of the servers to the benchmark writer, exports graphs and generates
// CSV output if configured. If there is a fatal error while printing report, an error is returned.
func PrintReport(b *dohbench.Benchmark, results []dohbench.ServerResult, benchDuration time.Duration) error {
	ranked := Ranked(results)

	if len(b.PlotDir) != 0 {
		if err := directoryExists(b.PlotDir); err != nil {
			return fmt.Errorf("unable to plot results: %w", err)
		}

		now := time.Now().Format(time.RFC3339)
		dir := fmt.Sprintf("%s/graphs-%s", b.PlotDir, now)
		if err := os.Mkdir(dir, os.ModePerm); err != nil {
			return fmt.Errorf("unable to plot results: %w", err)
		}
		plotHistogramLatency(fileName(b, dir, "latency-histogram"), ranked)
		plotBoxPlotLatency(fileName(b, dir, "latency-boxplot"), ranked)
		plotMedians(fileName(b, dir, "median-barchart"), ranked)
		plotPercentiles(fileName(b, dir, "percentiles-barchart"), ranked)
		plotLineLatencies(fileName(b, dir, "latency-lineplot"), ranked)
	}

	if b.Csv != "" {
		if err := exportCsv(b.Csv, ranked); err != nil {
			return err
		}
	}

	if b.Silent {
		return nil
	}

	params := reportParameters{
		benchmark:         b,
		outputWriter:      b.Writer,
		ranked:            ranked,
		fastest:           Fastest(results),
		summary:           Overall(results),
		hist:              histogram(b, results),
		benchmarkDuration: benchDuration,
	}
	return printer(b).print(params)
}

func directoryExists(plotDir string) error {
	stat, err := os.Stat(plotDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("'%s' path does not point to an existing directory", plotDir)
		}
		return err
	} else if !stat.IsDir() {
		return fmt.Errorf("'%s' is not a path to a directory", plotDir)
	}
	return nil
}

func printer(b *dohbench.Benchmark) reportPrinter {
	switch {
	case b.JSON:
		return &jsonReporter{}
	default:
		return &standardReporter{}
	}
}

func fileName(b *dohbench.Benchmark, dir, name string) string {
	return dir + "/" + name + "." + b.PlotFormat
}

// histogram merges measured latencies of all servers, latencies out of the histogram range are clamped.
func histogram(b *dohbench.Benchmark, results []dohbench.ServerResult) *hdrhistogram.Histogram {
	precision := b.HistPre
	if precision == 0 {
		precision = dohbench.DefaultHistPrecision
	}
	lowest, highest := dohbench.DefaultHistMin.Nanoseconds(), dohbench.BaseTimeout.Nanoseconds()
	hist := hdrhistogram.New(lowest, highest, precision)
	for _, r := range results {
		for _, l := range r.Latencies() {
			_ = hist.RecordValue(min(max(l.Nanoseconds(), lowest), highest))
		}
	}
	return hist
}

func exportCsv(path string, ranked []dohbench.ServerResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file for CSV export due to '%v'", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"rank", "server", "url", "min_ms", "mean_ms", "median_ms", "max_ms", "successes", "domains", "error"})
	for i, r := range ranked {
		row := []string{strconv.Itoa(i + 1), r.Name, r.URL, "", "", "", "", strconv.Itoa(r.Successes()), strconv.Itoa(len(r.PerDomain)), r.ErrorSummary}
		if r.Stats != nil {
			row[3] = formatMs(r.Stats.Min)
			row[4] = formatMs(r.Stats.Mean)
			row[5] = formatMs(r.Stats.Median)
			row[6] = formatMs(r.Stats.Max)
		}
		_ = w.Write(row)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to export CSV due to '%v'", err)
	}
	return nil
}

func formatMs(d time.Duration) string {
	return strconv.FormatFloat(toMs(d), 'f', -1, 64)
}
