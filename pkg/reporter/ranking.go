package reporter

import (
	"math"
	"sort"
	"time"

	"github.com/tantalor93/dohrank/pkg/dohbench"
)

// Grade is a human readable rating of the measured latency or reliability.
type Grade string

// Grades ordered from the best to the worst.
const (
	GradeExcellent Grade = "Excellent"
	GradeGreat     Grade = "Great"
	GradeGood      Grade = "Good"
	GradeFair      Grade = "Fair"
	GradePoor      Grade = "Poor"
	GradeUnknown   Grade = "Unknown"
)

var latencyThresholds = []struct {
	max   time.Duration
	grade Grade
	score float64
}{
	{max: 20 * time.Millisecond, grade: GradeExcellent, score: 95},
	{max: 35 * time.Millisecond, grade: GradeGreat, score: 85},
	{max: 60 * time.Millisecond, grade: GradeGood, score: 70},
	{max: 90 * time.Millisecond, grade: GradeFair, score: 55},
	{max: 120 * time.Millisecond, grade: GradePoor, score: 40},
}

var reliabilityThresholds = []struct {
	min   float64
	grade Grade
}{
	{min: 0.98, grade: GradeExcellent},
	{min: 0.9, grade: GradeGreat},
	{min: 0.75, grade: GradeGood},
	{min: 0.5, grade: GradeFair},
}

const slowestLatencyScore = 25

// Summary describes the whole tested fleet.
type Summary struct {
	// Min, Max and Mean are computed over mean latencies of available servers, they are zero when Available is 0.
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration

	// Available is number of servers with at least one measured latency.
	Available int
	Total     int
	// SuccessRate is a ratio of available servers to all tested servers.
	SuccessRate float64

	LatencyGrade     Grade
	ReliabilityGrade Grade
	// NetworkScore is a 0-100 score combining latency and reliability, nil when no server is available.
	NetworkScore *int
}

// Fastest returns the available server with the lowest mean latency, nil is returned when no server is available.
// When more servers have the same mean, the first one in the order of results wins.
func Fastest(results []dohbench.ServerResult) *dohbench.ServerResult {
	var fastest *dohbench.ServerResult
	for i := range results {
		r := &results[i]
		if r.Stats == nil {
			continue
		}
		if fastest == nil || r.Stats.Mean < fastest.Stats.Mean {
			fastest = r
		}
	}
	return fastest
}

// Ranked returns copy of the results sorted by mean latency, servers without measured latency are placed last
// in their original order.
func Ranked(results []dohbench.ServerResult) []dohbench.ServerResult {
	ranked := make([]dohbench.ServerResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Stats, ranked[j].Stats
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Mean < b.Mean
		}
	})
	return ranked
}

// Overall summarizes results of the whole fleet.
func Overall(results []dohbench.ServerResult) Summary {
	s := Summary{
		Total:            len(results),
		LatencyGrade:     GradeUnknown,
		ReliabilityGrade: GradeUnknown,
	}

	var sum time.Duration
	for _, r := range results {
		if r.Stats == nil {
			continue
		}
		if s.Available == 0 || r.Stats.Mean < s.Min {
			s.Min = r.Stats.Mean
		}
		if r.Stats.Mean > s.Max {
			s.Max = r.Stats.Mean
		}
		sum += r.Stats.Mean
		s.Available++
	}

	if s.Total == 0 {
		return s
	}
	s.SuccessRate = float64(s.Available) / float64(s.Total)
	s.ReliabilityGrade = reliabilityGrade(s.SuccessRate)

	if s.Available == 0 {
		return s
	}
	s.Mean = sum / time.Duration(s.Available)
	s.LatencyGrade = latencyGrade(s.Mean)

	score := int(math.Round(0.7*latencyScore(s.Mean) + 0.3*s.SuccessRate*100))
	s.NetworkScore = &score
	return s
}

func latencyGrade(mean time.Duration) Grade {
	// the last threshold only affects the score
	for _, t := range latencyThresholds[:len(latencyThresholds)-1] {
		if mean <= t.max {
			return t.grade
		}
	}
	return GradePoor
}

func latencyScore(mean time.Duration) float64 {
	for _, t := range latencyThresholds {
		if mean <= t.max {
			return t.score
		}
	}
	return slowestLatencyScore
}

func reliabilityGrade(rate float64) Grade {
	for _, t := range reliabilityThresholds {
		if rate >= t.min {
			return t.grade
		}
	}
	return GradePoor
}
