package cmd

import (
	"context"
	"io"

	"github.com/miekg/dns"
	"github.com/tantalor93/dohrank/pkg/dohbench"
	"github.com/tantalor93/dohrank/pkg/printutils"
)

// verifyServers resolves the domain on every server and prints the outcome. Servers failing the verification are
// still benchmarked, the error is returned only when the verification cannot be performed at all.
func verifyServers(ctx context.Context, w io.Writer, b *dohbench.Benchmark, domain string) error {
	printutils.NeutralFprintf(w, "Verifying %s servers using %s\n", printutils.HighlightSprint(len(b.Servers)), printutils.HighlightSprint(domain))
	for _, server := range b.Servers {
		resp, err := b.Verify(ctx, server, domain)
		switch {
		case err != nil && ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			printutils.ErrFprintf(w, "\t%s:\t%s\n", server.Name, err.Error())
		case resp.Rcode != dns.RcodeSuccess:
			printutils.ErrFprintf(w, "\t%s:\t%s\n", server.Name, dns.RcodeToString[resp.Rcode])
		default:
			printutils.SuccessFprintf(w, "\t%s:\t%s (%d answers)\n", server.Name, dns.RcodeToString[resp.Rcode], len(resp.Answer))
		}
	}
	return nil
}
