package dohbench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/tantalor93/dohrank/pkg/printutils"
	"go.uber.org/ratelimit"
)

// Benchmark is representation of the measurement of DoH servers.
type Benchmark struct {
	// Servers to be tested, each server is tested by a separate goroutine.
	Servers []ServerSpec

	// Domains to be probed on every server, the order of domains is the order of probes.
	Domains []string

	// DohProtocol is the HTTP protocol used for DoH requests (1.1, 2 or 3).
	DohProtocol string

	// Insecure disables server TLS certificate validation.
	Insecure bool

	// Rate is a global rate limit of probes per second, 0 means unlimited.
	Rate int

	// HistDisplay controls printing of the latency distribution.
	HistDisplay bool
	// HistPre is a significant figure precision of the latency histogram.
	HistPre int

	// Csv is a path to the file, where the results are exported in CSV format.
	Csv string

	// JSON controls whether the results are reported as JSON.
	JSON bool

	// Silent disables printing of the results.
	Silent bool

	// Color controls ANSI colors of the printed output.
	Color bool

	// Progress shows the progress bar advanced after each tested server.
	Progress bool

	// PlotDir is a directory where the plots are exported, plots are not exported if empty.
	PlotDir string
	// PlotFormat is a format of the exported plots.
	PlotFormat string

	// RequestLogEnabled enables logging of every probe into RequestLogPath.
	RequestLogEnabled bool
	// RequestLogPath is a path to the request log, DefaultRequestLogPath is used if empty.
	RequestLogPath string

	// Writer used for printing progress and results, os.Stdout is used if nil.
	Writer io.Writer

	// Prober overrides the probing of the servers, HTTPProber is used if nil.
	Prober Prober

	// internal variables so we do not have to set up the probing with each Run.
	client        *http.Client
	prober        Prober
	requestLogger *log.Logger
	requestLog    *os.File
}

func (b *Benchmark) init() error {
	if b.prober != nil {
		return nil
	}
	if b.Writer == nil {
		b.Writer = os.Stdout
	}
	if b.PlotFormat == "" {
		b.PlotFormat = DefaultPlotFormat
	}
	if b.HistPre == 0 {
		b.HistPre = DefaultHistPrecision
	}

	if len(b.Servers) == 0 {
		return ErrNoServers
	}
	for i, s := range b.Servers {
		normalized, err := s.normalize()
		if err != nil {
			return err
		}
		b.Servers[i] = normalized
	}
	for _, d := range b.Domains {
		if err := ValidateDomain(d); err != nil {
			return err
		}
	}

	client, err := newHTTPClient(b.DohProtocol, b.Insecure)
	if err != nil {
		return err
	}
	b.client = client

	if b.RequestLogEnabled {
		if b.RequestLogPath == "" {
			b.RequestLogPath = DefaultRequestLogPath
		}
		file, err := os.OpenFile(b.RequestLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("unable to open request log '%s': %w", b.RequestLogPath, err)
		}
		b.requestLog = file
		b.requestLogger = log.New(file, "", log.LstdFlags)
	}

	b.prober = b.Prober
	if b.prober == nil {
		prober := &HTTPProber{Client: b.client, RequestLogger: b.requestLogger}
		if b.Rate > 0 {
			prober.Limiter = ratelimit.New(b.Rate)
		}
		b.prober = prober
	}
	return nil
}

// Run tests all servers, if the measurement is unable to start the error is returned,
// otherwise results of the servers are returned in the order of Servers.
func (b *Benchmark) Run(ctx context.Context) ([]ServerResult, error) {
	if err := b.init(); err != nil {
		return nil, err
	}

	color.NoColor = !b.Color

	quiet := b.Silent || b.JSON
	if !quiet {
		limits := ""
		if b.Rate > 0 {
			limits = fmt.Sprintf("(limited to %s QPS)", printutils.HighlightSprint(b.Rate))
		}
		fmt.Fprintf(b.Writer, "Using %s domains\n", printutils.HighlightSprint(len(b.Domains)))
		fmt.Fprintf(b.Writer, "Benchmarking %s servers via %s %s\n",
			printutils.HighlightSprint(len(b.Servers)), printutils.HighlightSprint(protocolName(b.DohProtocol)), limits)
	}

	var bar *progressbar.ProgressBar
	if b.Progress && !quiet {
		bar = progressbar.NewOptions(len(b.Servers),
			progressbar.OptionSetWriter(b.Writer),
			progressbar.OptionSetDescription("Testing servers"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	results := testFleet(ctx, b.prober, b.Servers, b.Domains, func(res ServerResult) {
		if b.requestLogger != nil {
			logServerSummary(b.requestLogger, &res)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	})
	if bar != nil {
		_ = bar.Finish()
	}
	return results, nil
}

// Sample issues a single probe of the domain against the server with BaseTimeout.
// The error is returned only for invalid server or domain, failure of the probe is reported by ProbeOutcome.
func (b *Benchmark) Sample(ctx context.Context, server ServerSpec, domain string) (ProbeOutcome, error) {
	if err := b.init(); err != nil {
		return ProbeOutcome{}, err
	}
	server, err := server.normalize()
	if err != nil {
		return ProbeOutcome{}, err
	}
	if err := ValidateDomain(domain); err != nil {
		return ProbeOutcome{}, err
	}
	return b.prober.Probe(ctx, server, domain, BaseTimeout), nil
}

// Close releases resources held by the benchmark.
func (b *Benchmark) Close() error {
	var errs []error
	if b.client != nil {
		b.client.CloseIdleConnections()
	}
	if b.requestLog != nil {
		errs = append(errs, b.requestLog.Close())
		b.requestLog = nil
	}
	return errors.Join(errs...)
}
