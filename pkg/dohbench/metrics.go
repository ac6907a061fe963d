package dohbench

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	probeDurationMetrics = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dohrank",
		Name:      "probe_duration_seconds",
		Help:      "DoH probe duration in seconds",
	}, []string{"server", "mode"})

	probeTotalMetrics = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dohrank",
		Name:      "probe_total",
		Help:      "The total number of DoH probes",
	}, []string{"server", "outcome"})

	unprobedDomainsTotalMetrics = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dohrank",
		Name:      "unprobed_domains_total",
		Help:      "The total number of domains that were not probed, because the server was abandoned",
	}, []string{"server", "reason"})
)
