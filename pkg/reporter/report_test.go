package reporter_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tantalor93/dohrank/pkg/dohbench"
	"github.com/tantalor93/dohrank/pkg/reporter"
)

const jsonReport = `{
  "servers": [
    {"rank": 1, "name": "fast", "url": "https://fast.example/dns-query", "latencyMs": 40, "minMs": 30, "medianMs": 40, "maxMs": 50, "answered": 2,
     "domains": [{"domain": "a.org", "status": "ok", "latencyMs": 30}, {"domain": "b.org", "status": "ok", "latencyMs": 50}]},
    {"rank": 2, "name": "slow", "url": "https://slow.example/dns-query", "latencyMs": 50, "minMs": 50, "medianMs": 50, "maxMs": 50, "answered": 1,
     "domains": [{"domain": "a.org", "status": "ok", "latencyMs": 50}, {"domain": "b.org", "status": "failed", "latencyMs": null}],
     "errorSummary": "Partial success: 1/2 queries failed", "errorDetail": "b.org: Timeout"},
    {"rank": 3, "name": "dead", "url": "https://dead.example/dns-query", "latencyMs": null, "answered": 0,
     "domains": [{"domain": "a.org", "status": "warmup failed", "latencyMs": null}, {"domain": "b.org", "status": "warmup failed", "latencyMs": null}],
     "errorSummary": "All queries failed", "errorDetail": "a.org: Warmup failed; b.org: Warmup failed"}
  ],
  "fastest": "fast",
  "overall": {
    "minMs": 40, "maxMs": 50, "meanMs": 45, "availableServers": 2, "totalServers": 3, "successRate": 0.6666666666666666,
    "latencyGrade": "Good", "reliabilityGrade": "Fair", "networkScore": 69
  },
  "benchmarkDurationSeconds": 1
}`

func Test_PrintReport(t *testing.T) {
	buffer := bytes.Buffer{}
	b, results := testReportData(&buffer)

	err := reporter.PrintReport(&b, results, time.Second)

	require.NoError(t, err)
	out := buffer.String()
	assert.True(t, strings.HasPrefix(out, "\nServers ranked by mean latency:\n"))
	assert.Contains(t, out, "MEDIAN")
	assert.Contains(t, out, "ANSWERED")
	assert.Contains(t, out, "https://fast.example/dns-query")
	assert.Contains(t, out, "2/2")
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "0/2")
	assert.Less(t, strings.Index(out, "fast.example"), strings.Index(out, "slow.example"))
	assert.Less(t, strings.Index(out, "slow.example"), strings.Index(out, "dead.example"))

	assert.Contains(t, out, "\nFastest server:\t\tfast (40ms)\n"+
		"Available servers:\t2/3\n"+
		"Mean latency:\t\t45ms (min 40ms, max 50ms)\n"+
		"Latency grade:\t\tGood\n"+
		"Reliability grade:\tFair\n"+
		"Network score:\t\t69/100\n"+
		"\nTime taken for tests:\t1s\n")
	assert.True(t, strings.HasSuffix(out, "\nErrors:\n"+
		"slow:\tPartial success: 1/2 queries failed\n"+
		"\tb.org: Timeout\n"+
		"dead:\tAll queries failed\n"+
		"\ta.org: Warmup failed\n"+
		"\tb.org: Warmup failed\n"))
	assert.NotContains(t, out, "Latency distribution")
}

func Test_PrintReport_distribution(t *testing.T) {
	buffer := bytes.Buffer{}
	b, results := testReportData(&buffer)
	b.HistDisplay = true

	err := reporter.PrintReport(&b, results, time.Second)

	require.NoError(t, err)
	assert.Contains(t, buffer.String(), "\nLatency distribution, 3 datapoints\n")
	assert.Contains(t, buffer.String(), "LATENCY")
}

func Test_PrintReport_noServerAvailable(t *testing.T) {
	buffer := bytes.Buffer{}
	b, results := testReportData(&buffer)

	err := reporter.PrintReport(&b, results[1:2], time.Second)

	require.NoError(t, err)
	out := buffer.String()
	assert.Contains(t, out, "\nNo server is available\n"+
		"Available servers:\t0/1\n"+
		"Latency grade:\t\tUnknown\n"+
		"Reliability grade:\tPoor\n"+
		"\nTime taken for tests:\t1s\n")
	assert.NotContains(t, out, "Network score")
}

func Test_PrintReport_json(t *testing.T) {
	buffer := bytes.Buffer{}
	b, results := testReportData(&buffer)
	b.JSON = true

	err := reporter.PrintReport(&b, results, time.Second)

	require.NoError(t, err)
	assert.JSONEq(t, jsonReport, buffer.String())
}

func Test_PrintReport_json_distribution(t *testing.T) {
	buffer := bytes.Buffer{}
	b, results := testReportData(&buffer)
	b.JSON = true
	b.HistDisplay = true

	err := reporter.PrintReport(&b, results, time.Second)

	require.NoError(t, err)
	assert.Contains(t, buffer.String(), `"latencyDistribution":[{"latencyMs":`)
}

func Test_PrintReport_silent(t *testing.T) {
	buffer := bytes.Buffer{}
	b, results := testReportData(&buffer)
	b.Silent = true

	err := reporter.PrintReport(&b, results, time.Second)

	require.NoError(t, err)
	assert.Empty(t, buffer.String())
}

func Test_PrintReport_csv(t *testing.T) {
	file := filepath.Join(t.TempDir(), "results.csv")

	b, results := testReportData(io.Discard)
	b.Csv = file
	b.Silent = true

	err := reporter.PrintReport(&b, results, time.Second)
	require.NoError(t, err)

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "rank,server,url,min_ms,mean_ms,median_ms,max_ms,successes,domains,error\n"+
		"1,fast,https://fast.example/dns-query,30,40,40,50,2,2,\n"+
		"2,slow,https://slow.example/dns-query,50,50,50,50,1,2,Partial success: 1/2 queries failed\n"+
		"3,dead,https://dead.example/dns-query,,,,,0,2,All queries failed\n", string(content))
}

func Test_PrintReport_csv_error(t *testing.T) {
	b, results := testReportData(io.Discard)
	b.Csv = filepath.Join(t.TempDir(), "non-existing-directory", "results.csv")

	err := reporter.PrintReport(&b, results, time.Second)

	require.Error(t, err)
}

func Test_PrintReport_plot(t *testing.T) {
	dir := t.TempDir()

	buffer := bytes.Buffer{}
	b, results := testReportData(&buffer)
	b.PlotDir = dir
	b.PlotFormat = "svg"

	err := reporter.PrintReport(&b, results, time.Second)

	require.NoError(t, err)

	testDir, err := os.ReadDir(dir)

	require.NoError(t, err)
	require.Len(t, testDir, 1)

	graphsDir := testDir[0].Name()
	assert.True(t, strings.HasPrefix(graphsDir, "graphs-"))

	graphsDirContent, err := os.ReadDir(filepath.Join(dir, graphsDir))
	require.NoError(t, err)

	var graphFiles []string
	for _, v := range graphsDirContent {
		graphFiles = append(graphFiles, v.Name())
	}

	assert.ElementsMatch(t, graphFiles,
		[]string{
			"latency-boxplot.svg", "latency-histogram.svg", "latency-lineplot.svg",
			"median-barchart.svg", "percentiles-barchart.svg",
		},
	)
}

func Test_PrintReport_plot_error(t *testing.T) {
	dir := t.TempDir()

	buffer := bytes.Buffer{}
	b, results := testReportData(&buffer)
	b.PlotDir = dir + "/non-existing-directory"
	b.PlotFormat = dohbench.DefaultPlotFormat

	err := reporter.PrintReport(&b, results, time.Second)

	require.Error(t, err)
}

// testReportData returns results of servers in the order slow, dead, fast.
func testReportData(testOutputWriter io.Writer) (dohbench.Benchmark, []dohbench.ServerResult) {
	color.NoColor = true
	b := dohbench.Benchmark{
		HistPre: 1,
		Writer:  testOutputWriter,
	}

	results := []dohbench.ServerResult{
		{
			Name: "slow",
			URL:  "https://slow.example/dns-query",
			Stats: &dohbench.LatencyStats{
				Min: 50 * time.Millisecond, Max: 50 * time.Millisecond, Mean: 50 * time.Millisecond, Median: 50 * time.Millisecond,
			},
			ErrorSummary: "Partial success: 1/2 queries failed",
			ErrorDetail:  "b.org: Timeout",
			PerDomain: []dohbench.DomainResult{
				{Domain: "a.org", Latency: 50 * time.Millisecond, Status: dohbench.StatusOK},
				{Domain: "b.org", Status: dohbench.StatusFailed},
			},
		},
		{
			Name:         "dead",
			URL:          "https://dead.example/dns-query",
			ErrorSummary: "All queries failed",
			ErrorDetail:  "a.org: Warmup failed; b.org: Warmup failed",
			PerDomain: []dohbench.DomainResult{
				{Domain: "a.org", Status: dohbench.StatusWarmupFailed},
				{Domain: "b.org", Status: dohbench.StatusWarmupFailed},
			},
		},
		{
			Name: "fast",
			URL:  "https://fast.example/dns-query",
			Stats: &dohbench.LatencyStats{
				Min: 30 * time.Millisecond, Max: 50 * time.Millisecond, Mean: 40 * time.Millisecond, Median: 40 * time.Millisecond,
			},
			PerDomain: []dohbench.DomainResult{
				{Domain: "a.org", Latency: 30 * time.Millisecond, Status: dohbench.StatusOK},
				{Domain: "b.org", Latency: 50 * time.Millisecond, Status: dohbench.StatusOK},
			},
		},
	}
	return b, results
}
