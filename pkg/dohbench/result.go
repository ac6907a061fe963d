package dohbench

import (
	"context"
	"errors"
	"time"
)

// DomainStatus describes how the latency of a single domain was (or was not) obtained.
type DomainStatus int

const (
	// StatusOK the probe succeeded and the latency is available.
	StatusOK DomainStatus = iota
	// StatusFailed the probe timed out or failed on the transport level.
	StatusFailed
	// StatusWarmupFailed the domain was not probed, because all warmup probes of the server failed.
	StatusWarmupFailed
	// StatusSkipped the domain was not probed, because the server was abandoned after repeated failures.
	StatusSkipped
)

func (s DomainStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	case StatusWarmupFailed:
		return "warmup failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// ProbeOutcome is a result of a single probe, the probe succeeded if Err is nil.
type ProbeOutcome struct {
	Latency time.Duration
	Err     error
}

// Success reports whether the probe observed a response before it was canceled.
func (o ProbeOutcome) Success() bool {
	return o.Err == nil
}

// reason returns short description of the failure used in diagnostics.
func (o ProbeOutcome) reason() string {
	switch failureKind(o.Err) {
	case timeoutFailure:
		return "Timeout"
	case abortedFailure:
		return "Aborted"
	default:
		return o.Err.Error()
	}
}

const (
	timeoutFailure   = "timeout"
	abortedFailure   = "aborted"
	transportFailure = "transport"
)

func failureKind(err error) string {
	var timeErr interface{ Timeout() bool }
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return timeoutFailure
	case errors.Is(err, context.Canceled):
		return abortedFailure
	case errors.As(err, &timeErr) && timeErr.Timeout():
		return timeoutFailure
	default:
		return transportFailure
	}
}

// DomainResult is a latency measured for a single domain.
type DomainResult struct {
	Domain string
	// Latency is meaningful only when Available returns true.
	Latency time.Duration
	Status  DomainStatus
}

// Available reports whether the latency of the domain was measured.
func (d DomainResult) Available() bool {
	return d.Status == StatusOK
}

// ServerResult is a result of testing a single server.
type ServerResult struct {
	Name string
	URL  string

	// Stats are nil when no probe of the server succeeded.
	Stats *LatencyStats

	ErrorSummary string
	ErrorDetail  string

	// PerDomain contains one result per tested domain in the order of domains.
	PerDomain []DomainResult
}

// Successes returns number of domains with measured latency.
func (r *ServerResult) Successes() int {
	c := 0
	for _, d := range r.PerDomain {
		if d.Available() {
			c++
		}
	}
	return c
}

// Latencies returns measured latencies in the order of domains.
func (r *ServerResult) Latencies() []time.Duration {
	latencies := make([]time.Duration, 0, len(r.PerDomain))
	for _, d := range r.PerDomain {
		if d.Available() {
			latencies = append(latencies, d.Latency)
		}
	}
	return latencies
}
