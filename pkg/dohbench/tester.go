package dohbench

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	allFailedSummary = "All queries failed"

	warmupFailedReason = "Warmup failed"
	skippedReason      = "Skipped after repeated failures"
)

// serverTest accumulates results of a single server test.
type serverTest struct {
	server      ServerSpec
	latencies   []time.Duration
	diagnostics []string
	perDomain   []DomainResult
}

func (t *serverTest) recordSuccess(domain string, latency time.Duration) {
	t.latencies = append(t.latencies, latency)
	t.perDomain = append(t.perDomain, DomainResult{Domain: domain, Latency: latency, Status: StatusOK})
}

func (t *serverTest) recordFailure(domain string, status DomainStatus, reason string) {
	t.diagnostics = append(t.diagnostics, domain+": "+reason)
	t.perDomain = append(t.perDomain, DomainResult{Domain: domain, Status: status})
}

// testServer tests latency of the server for every domain, the test never fails. When every probe fails,
// the result contains no statistics and the reason of failure.
func testServer(ctx context.Context, prober Prober, server ServerSpec, domains []string) ServerResult {
	t := serverTest{
		server:    server,
		perDomain: make([]DomainResult, 0, len(domains)),
	}

	if len(domains) > 0 && warmup(ctx, prober, server, domains) == 0 {
		for _, domain := range domains {
			t.recordFailure(domain, StatusWarmupFailed, warmupFailedReason)
		}
		unprobedDomainsTotalMetrics.WithLabelValues(server.Name, "warmup").Add(float64(len(domains)))
	} else {
		t.probeDomains(ctx, prober, domains)
	}

	return t.result(len(domains))
}

// warmup probes first domains to establish connection to the server and returns number of successful probes.
// The latencies of the warmup probes are not part of the results.
func warmup(ctx context.Context, prober Prober, server ServerSpec, domains []string) int {
	successes := 0
	for i := 0; i < min(WarmupCount, len(domains)); i++ {
		if prober.Probe(ctx, server, domains[i%len(domains)], WarmupTimeout).Success() {
			successes++
		}
	}
	return successes
}

func (t *serverTest) probeDomains(ctx context.Context, prober Prober, domains []string) {
	budget := newTimeoutBudget()
	for i, domain := range domains {
		outcome := prober.Probe(ctx, t.server, domain, budget.timeout)
		if outcome.Success() {
			t.recordSuccess(domain, outcome.Latency)
			budget.success(outcome.Latency)
		} else {
			t.recordFailure(domain, StatusFailed, outcome.reason())
			budget.failure()
		}

		if budget.exhausted() {
			remaining := domains[i+1:]
			for _, skipped := range remaining {
				t.recordFailure(skipped, StatusSkipped, skippedReason)
			}
			unprobedDomainsTotalMetrics.WithLabelValues(t.server.Name, "giveup").Add(float64(len(remaining)))
			return
		}
	}
}

func (t *serverTest) result(total int) ServerResult {
	res := ServerResult{
		Name:      t.server.Name,
		URL:       t.server.URL,
		Stats:     CalculateStats(t.latencies),
		PerDomain: t.perDomain,
	}

	switch {
	case res.Stats == nil:
		res.ErrorSummary = allFailedSummary
		res.ErrorDetail = strings.Join(t.diagnostics, "; ")
	case len(t.diagnostics) > 0:
		res.ErrorSummary = fmt.Sprintf("Partial success: %d/%d queries failed", len(t.diagnostics), total)
		res.ErrorDetail = strings.Join(t.diagnostics, "; ")
	}
	return res
}
