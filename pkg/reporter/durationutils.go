package reporter

import (
	"math"
	"time"
)

func roundDuration(dur time.Duration) time.Duration {
	if dur > time.Minute {
		return dur.Round(10 * time.Second)
	}
	if dur > time.Second {
		return dur.Round(10 * time.Millisecond)
	}
	if dur > time.Millisecond {
		return dur.Round(10 * time.Microsecond)
	}
	if dur > time.Microsecond {
		return dur.Round(10 * time.Nanosecond)
	}
	return dur
}

// toMs converts duration to milliseconds rounded to two decimal places.
func toMs(dur time.Duration) float64 {
	return math.Round(float64(dur)/float64(time.Millisecond)*100) / 100
}
