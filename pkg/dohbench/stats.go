package dohbench

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"
)

// LatencyStats holds latency statistics of successful probes of a single server.
type LatencyStats struct {
	Min    time.Duration
	Max    time.Duration
	Mean   time.Duration
	Median time.Duration
}

// CalculateStats calculates latency statistics, nil is returned for no latencies.
func CalculateStats(latencies []time.Duration) *LatencyStats {
	if len(latencies) == 0 {
		return nil
	}
	data := make(stats.Float64Data, 0, len(latencies))
	for _, l := range latencies {
		data = append(data, float64(l))
	}

	// errors are returned only for empty input, which is handled above
	minimum, _ := data.Min()
	maximum, _ := data.Max()
	mean, _ := data.Mean()
	median, _ := data.Median()

	return &LatencyStats{
		Min:    toDuration(minimum),
		Max:    toDuration(maximum),
		Mean:   toDuration(mean),
		Median: toDuration(median),
	}
}

func toDuration(ns float64) time.Duration {
	return time.Duration(math.Round(ns))
}
