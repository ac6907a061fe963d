package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tantalor93/dohrank/internal/sysutil"
	"github.com/tantalor93/dohrank/pkg/dohbench"
	"github.com/tantalor93/dohrank/pkg/reporter"
)

// fileNoBuffer is a number of file descriptors needed by the application besides the connections to the servers.
const fileNoBuffer = 9

// run resolves servers and domains, benchmarks the servers and prints the report.
func run(ctx context.Context, b *dohbench.Benchmark, o options) error {
	servers := append([]dohbench.ServerSpec{}, o.servers...)
	if o.serversFile != "" {
		loaded, err := loadServers(ctx, o.serversFile)
		if err != nil {
			return err
		}
		servers = append(servers, loaded...)
	}
	b.Servers = servers

	domains, err := loadDomains(ctx, o.domains)
	if err != nil {
		return err
	}
	b.Domains = domains

	if err := checkFileLimit(len(servers)); err != nil {
		return err
	}

	if o.prometheus != "" {
		srv := startMetricsServer(o.prometheus)
		defer shutdownMetricsServer(srv)
	}

	defer b.Close()

	// diagnostics must not be mixed with the JSON report
	diag := b.Writer
	if b.JSON || b.Silent || diag == nil {
		diag = os.Stderr
	}

	if o.verify && len(domains) > 0 {
		if err := verifyServers(ctx, diag, b, domains[0]); err != nil {
			return err
		}
	}

	start := time.Now()
	res, err := b.Run(ctx)
	if err != nil {
		return fmt.Errorf("there was an error while starting benchmark: %w", err)
	}
	if err := reporter.PrintReport(b, res, time.Since(start)); err != nil {
		return fmt.Errorf("there was an error while printing report: %w", err)
	}

	if o.live > 0 && len(domains) > 0 {
		return liveSample(ctx, diag, b, res, domains[0], o.live, o.liveInterval)
	}
	return nil
}

func checkFileLimit(servers int) error {
	lim, err := sysutil.RlimitNoFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Cannot check limit of number of files. Skipping check. Please make sure it is sufficient manually.", err)
		return nil
	}
	if needed := uint64(servers) + uint64(fileNoBuffer); lim < needed {
		return fmt.Errorf("current process limit for number of files is %d and insufficient for %d servers", lim, servers)
	}
	return nil
}
