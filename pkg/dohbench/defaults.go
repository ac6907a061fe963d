package dohbench

import (
	"time"
)

const (
	// BaseTimeout is the initial timeout of the probes issued after the warmup.
	BaseTimeout = 5 * time.Second

	// WarmupTimeout is the timeout of the warmup probes.
	WarmupTimeout = 2 * time.Second

	// GiveupTimeout is the timeout threshold below which a server without any successful probe is abandoned.
	GiveupTimeout = 200 * time.Millisecond

	// WarmupCount is the number of warmup probes issued against each server.
	WarmupCount = 2

	// DefaultRequestLogPath is a default path to the file, where the requests will be logged.
	DefaultRequestLogPath = "requests.log"

	// DefaultPlotFormat is a default format for plots.
	DefaultPlotFormat = "png"

	// DefaultLiveInterval is a default interval between live latency samples.
	DefaultLiveInterval = 2 * time.Second

	// DefaultHistPrecision is a default precision for histogram.
	DefaultHistPrecision = 1

	// DefaultHistMin is a default minimum value for histogram.
	DefaultHistMin = 100 * time.Microsecond
)
