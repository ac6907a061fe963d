package reporter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tantalor93/dohrank/pkg/dohbench"
	"github.com/tantalor93/dohrank/pkg/reporter"
)

func serverWithMean(name string, mean time.Duration) dohbench.ServerResult {
	return dohbench.ServerResult{
		Name:      name,
		Stats:     &dohbench.LatencyStats{Min: mean, Max: mean, Mean: mean, Median: mean},
		PerDomain: []dohbench.DomainResult{{Domain: "example.org", Latency: mean, Status: dohbench.StatusOK}},
	}
}

func unavailableServer(name string) dohbench.ServerResult {
	return dohbench.ServerResult{
		Name:         name,
		ErrorSummary: "All queries failed",
		PerDomain:    []dohbench.DomainResult{{Domain: "example.org", Status: dohbench.StatusWarmupFailed}},
	}
}

func TestFastest(t *testing.T) {
	results := []dohbench.ServerResult{
		serverWithMean("a", 30*time.Millisecond),
		unavailableServer("b"),
		serverWithMean("c", 10*time.Millisecond),
		serverWithMean("d", 10*time.Millisecond),
	}

	fastest := reporter.Fastest(results)

	require.NotNil(t, fastest)
	assert.Equal(t, "c", fastest.Name)
}

func TestFastest_noneAvailable(t *testing.T) {
	assert.Nil(t, reporter.Fastest(nil))
	assert.Nil(t, reporter.Fastest([]dohbench.ServerResult{unavailableServer("a")}))
}

func TestRanked(t *testing.T) {
	results := []dohbench.ServerResult{
		unavailableServer("a"),
		serverWithMean("b", 30*time.Millisecond),
		unavailableServer("c"),
		serverWithMean("d", 10*time.Millisecond),
		serverWithMean("e", 20*time.Millisecond),
	}

	ranked := reporter.Ranked(results)

	var names []string
	for _, r := range ranked {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"d", "e", "b", "a", "c"}, names)
	assert.Equal(t, "a", results[0].Name, "input must not be reordered")
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name    string
		results []dohbench.ServerResult
		want    reporter.Summary
	}{
		{
			name: "no servers",
			want: reporter.Summary{LatencyGrade: reporter.GradeUnknown, ReliabilityGrade: reporter.GradeUnknown},
		},
		{
			name:    "no server available",
			results: []dohbench.ServerResult{unavailableServer("a"), unavailableServer("b")},
			want: reporter.Summary{
				Total:            2,
				LatencyGrade:     reporter.GradeUnknown,
				ReliabilityGrade: reporter.GradePoor,
			},
		},
		{
			name: "excellent latency",
			results: []dohbench.ServerResult{
				serverWithMean("a", 10*time.Millisecond), serverWithMean("b", 20*time.Millisecond),
				unavailableServer("c"), serverWithMean("d", 15*time.Millisecond),
			},
			want: reporter.Summary{
				Min:              10 * time.Millisecond,
				Max:              20 * time.Millisecond,
				Mean:             15 * time.Millisecond,
				Available:        3,
				Total:            4,
				SuccessRate:      0.75,
				LatencyGrade:     reporter.GradeExcellent,
				ReliabilityGrade: reporter.GradeGood,
				NetworkScore:     intPtr(89),
			},
		},
		{
			name: "fair latency",
			results: []dohbench.ServerResult{
				serverWithMean("a", 80*time.Millisecond), serverWithMean("b", 90*time.Millisecond),
				serverWithMean("c", 85*time.Millisecond), unavailableServer("d"),
			},
			want: reporter.Summary{
				Min:              80 * time.Millisecond,
				Max:              90 * time.Millisecond,
				Mean:             85 * time.Millisecond,
				Available:        3,
				Total:            4,
				SuccessRate:      0.75,
				LatencyGrade:     reporter.GradeFair,
				ReliabilityGrade: reporter.GradeGood,
				NetworkScore:     intPtr(61),
			},
		},
		{
			name:    "poor latency below the slowest threshold",
			results: []dohbench.ServerResult{serverWithMean("a", 100*time.Millisecond)},
			want: reporter.Summary{
				Min:              100 * time.Millisecond,
				Max:              100 * time.Millisecond,
				Mean:             100 * time.Millisecond,
				Available:        1,
				Total:            1,
				SuccessRate:      1,
				LatencyGrade:     reporter.GradePoor,
				ReliabilityGrade: reporter.GradeExcellent,
				NetworkScore:     intPtr(58),
			},
		},
		{
			name: "very slow",
			results: []dohbench.ServerResult{
				serverWithMean("a", 300*time.Millisecond), serverWithMean("b", 300*time.Millisecond),
				serverWithMean("c", 300*time.Millisecond), unavailableServer("d"),
			},
			want: reporter.Summary{
				Min:              300 * time.Millisecond,
				Max:              300 * time.Millisecond,
				Mean:             300 * time.Millisecond,
				Available:        3,
				Total:            4,
				SuccessRate:      0.75,
				LatencyGrade:     reporter.GradePoor,
				ReliabilityGrade: reporter.GradeGood,
				NetworkScore:     intPtr(40),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reporter.Overall(tt.results))
		})
	}
}

func TestOverall_reliabilityGrades(t *testing.T) {
	tests := []struct {
		available int
		total     int
		want      reporter.Grade
	}{
		{available: 49, total: 50, want: reporter.GradeExcellent},
		{available: 19, total: 20, want: reporter.GradeGreat},
		{available: 9, total: 10, want: reporter.GradeGreat},
		{available: 4, total: 5, want: reporter.GradeGood},
		{available: 3, total: 4, want: reporter.GradeGood},
		{available: 3, total: 5, want: reporter.GradeFair},
		{available: 2, total: 5, want: reporter.GradePoor},
	}
	for _, tt := range tests {
		var results []dohbench.ServerResult
		for i := 0; i < tt.total; i++ {
			if i < tt.available {
				results = append(results, serverWithMean("ok", 10*time.Millisecond))
			} else {
				results = append(results, unavailableServer("down"))
			}
		}
		assert.Equal(t, tt.want, reporter.Overall(results).ReliabilityGrade, "%d/%d", tt.available, tt.total)
	}
}

func intPtr(i int) *int {
	return &i
}
