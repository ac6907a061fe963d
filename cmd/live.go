package cmd

import (
	"context"
	"io"
	"time"

	"github.com/tantalor93/dohrank/pkg/dohbench"
	"github.com/tantalor93/dohrank/pkg/printutils"
	"github.com/tantalor93/dohrank/pkg/reporter"
)

// liveSample repeatedly samples latency of the fastest server, sampling stops early when the context is canceled.
func liveSample(ctx context.Context, w io.Writer, b *dohbench.Benchmark, results []dohbench.ServerResult,
	domain string, count int, interval time.Duration,
) error {
	fastest := reporter.Fastest(results)
	if fastest == nil {
		printutils.ErrFprintf(w, "\nNo server is available for live sampling\n")
		return nil
	}
	// results are in the order of servers
	var server dohbench.ServerSpec
	for i := range results {
		if &results[i] == fastest {
			server = b.Servers[i]
		}
	}

	printutils.NeutralFprintf(w, "\nLive latency of %s resolving %s:\n",
		printutils.HighlightSprint(server.Name), printutils.HighlightSprint(domain))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 1; i <= count; i++ {
		if i > 1 {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}

		outcome, err := b.Sample(ctx, server, domain)
		if err != nil {
			return err
		}
		if outcome.Success() {
			printutils.SuccessFprintf(w, "\t#%d\t%s\n", i, outcome.Latency.Round(10*time.Microsecond))
		} else {
			printutils.ErrFprintf(w, "\t#%d\t%s\n", i, outcome.Err.Error())
		}
	}
	return nil
}
