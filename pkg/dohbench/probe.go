package dohbench

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"go.uber.org/ratelimit"
)

const (
	dnsMessageContentType = "application/dns-message"
	dnsJSONContentType    = "application/dns-json"

	// maxDrainedBody limits how much of the response body is read after the latency was measured,
	// reading the rest of the body allows the connection to be reused by the next probe.
	maxDrainedBody = 64 * 1024
)

// Prober measures latency of a single DNS query sent to a DoH server.
// Implementations never return errors to the caller, every failure is reported through ProbeOutcome.Err.
type Prober interface {
	Probe(ctx context.Context, server ServerSpec, domain string, timeout time.Duration) ProbeOutcome
}

// HTTPProber measures time elapsed between dispatching DoH request and observing response headers.
type HTTPProber struct {
	// Client is used to send the requests.
	Client HTTPClient
	// Now is the clock used to measure latency, time.Now is used when nil.
	Now func() time.Time
	// Limiter is an optional rate limit applied before the request timeout starts ticking.
	Limiter ratelimit.Limiter
	// RequestLogger is an optional logger of every probe.
	RequestLogger *log.Logger
}

var _ Prober = (*HTTPProber)(nil)

// Probe implements Prober.
func (p *HTTPProber) Probe(ctx context.Context, server ServerSpec, domain string, timeout time.Duration) ProbeOutcome {
	outcome := p.probe(ctx, server, domain, timeout)

	if outcome.Success() {
		probeTotalMetrics.WithLabelValues(server.Name, "success").Inc()
		probeDurationMetrics.WithLabelValues(server.Name, string(server.Mode)).Observe(outcome.Latency.Seconds())
	} else {
		probeTotalMetrics.WithLabelValues(server.Name, failureKind(outcome.Err)).Inc()
	}
	if p.RequestLogger != nil {
		logRequest(p.RequestLogger, server, domain, timeout, outcome)
	}
	return outcome
}

func (p *HTTPProber) probe(ctx context.Context, server ServerSpec, domain string, timeout time.Duration) ProbeOutcome {
	if err := ctx.Err(); err != nil {
		return ProbeOutcome{Err: err}
	}
	if p.Limiter != nil {
		p.Limiter.Take()
		if err := ctx.Err(); err != nil {
			return ProbeOutcome{Err: err}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := newProbeRequest(ctx, server, domain)
	if err != nil {
		return ProbeOutcome{Err: err}
	}

	start := p.now()
	resp, err := p.Client.Do(req)
	end := p.now()
	if err != nil {
		return ProbeOutcome{Err: err}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainedBody))
	_ = resp.Body.Close()

	return ProbeOutcome{Latency: end.Sub(start)}
}

func (p *HTTPProber) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func newProbeRequest(ctx context.Context, server ServerSpec, domain string) (*http.Request, error) {
	if server.Mode == ModeGet {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.queryURL(domain), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", dnsJSONContentType)
		return req, nil
	}

	query, err := NewQuery(domain)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server.URL, bytes.NewReader(query))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", dnsMessageContentType)
	req.Header.Set("Accept", dnsMessageContentType)
	return req, nil
}
