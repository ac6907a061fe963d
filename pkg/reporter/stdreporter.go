package reporter

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/olekukonko/tablewriter"
	"github.com/tantalor93/dohrank/pkg/dohbench"
	"github.com/tantalor93/dohrank/pkg/printutils"
)

const unavailable = "-"

type standardReporter struct{}

func (s *standardReporter) print(params reportParameters) error {
	w := params.outputWriter

	printutils.NeutralFprintf(w, "\nServers ranked by mean latency:\n")
	printRanking(w, params.ranked)

	if params.fastest != nil {
		printutils.SuccessFprintf(w, "\nFastest server:\t\t%s (%s)\n",
			params.fastest.Name, roundDuration(params.fastest.Stats.Mean))
	} else {
		printutils.ErrFprintf(w, "\nNo server is available\n")
	}

	summary := params.summary
	printutils.NeutralFprintf(w, "Available servers:\t%s/%s\n",
		printutils.HighlightSprint(summary.Available), printutils.HighlightSprint(summary.Total))
	if summary.Available > 0 {
		printutils.NeutralFprintf(w, "Mean latency:\t\t%s (min %s, max %s)\n",
			printutils.HighlightSprint(roundDuration(summary.Mean)),
			printutils.HighlightSprint(roundDuration(summary.Min)),
			printutils.HighlightSprint(roundDuration(summary.Max)))
	}
	printutils.NeutralFprintf(w, "Latency grade:\t\t%s\n", printutils.HighlightSprint(summary.LatencyGrade))
	printutils.NeutralFprintf(w, "Reliability grade:\t%s\n", printutils.HighlightSprint(summary.ReliabilityGrade))
	if summary.NetworkScore != nil {
		printutils.NeutralFprintf(w, "Network score:\t\t%s\n", printutils.HighlightSprintf("%d/100", *summary.NetworkScore))
	}

	printutils.NeutralFprintf(w, "\nTime taken for tests:\t%s\n",
		printutils.HighlightSprint(roundDuration(params.benchmarkDuration)))

	if tc := params.hist.TotalCount(); params.benchmark.HistDisplay && tc > 1 {
		printutils.NeutralFprintf(w, "\nLatency distribution, %s datapoints\n", printutils.HighlightSprint(tc))
		printBars(w, params.hist.Distribution())
	}

	printErrors(w, params.ranked)
	return nil
}

func printRanking(w io.Writer, ranked []dohbench.ServerResult) {
	lines := make([][]string, 0, len(ranked))
	for i, r := range ranked {
		line := []string{strconv.Itoa(i + 1), r.Name, r.URL, unavailable, unavailable, unavailable, unavailable,
			strconv.Itoa(r.Successes()) + "/" + strconv.Itoa(len(r.PerDomain))}
		if r.Stats != nil {
			line[3] = roundDuration(r.Stats.Min).String()
			line[4] = roundDuration(r.Stats.Mean).String()
			line[5] = roundDuration(r.Stats.Median).String()
			line[6] = roundDuration(r.Stats.Max).String()
		}
		lines = append(lines, line)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Server", "URL", "Min", "Mean", "Median", "Max", "Answered"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(lines)
	table.Render()
}

func printErrors(w io.Writer, ranked []dohbench.ServerResult) {
	var failing []dohbench.ServerResult
	for _, r := range ranked {
		if r.ErrorSummary != "" {
			failing = append(failing, r)
		}
	}
	if len(failing) == 0 {
		return
	}

	printutils.ErrFprintf(w, "\nErrors:\n")
	for _, r := range failing {
		printutils.ErrFprintf(w, "%s:\t%s\n", r.Name, r.ErrorSummary)
		for _, d := range strings.Split(r.ErrorDetail, "; ") {
			printutils.ErrFprintf(w, "\t%s\n", d)
		}
	}
}

func printBars(w io.Writer, bars []hdrhistogram.Bar) {
	counts := make([]int64, 0, len(bars))
	lines := make([][]string, 0, len(bars))
	added := false
	var maxCount int64

	for _, b := range bars {
		if b.Count == 0 && !added {
			// trim the start
			continue
		}
		if b.Count > maxCount {
			maxCount = b.Count
		}

		added = true

		line := make([]string, 3)
		lines = append(lines, line)
		counts = append(counts, b.Count)

		line[0] = roundDuration(time.Duration(b.To/2 + b.From/2)).String()
		line[2] = strconv.FormatInt(b.Count, 10)
	}

	for i, l := range lines {
		l[1] = makeBar(counts[i], maxCount)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Latency", "", "Count"})
	table.SetBorder(false)
	table.AppendBulk(lines)
	table.Render()
}

func makeBar(c int64, maxCount int64) string {
	if c == 0 {
		return ""
	}
	t := int((43 * float64(c) / float64(maxCount)) + 0.5)
	return strings.Repeat(printutils.HighlightSprint("▄"), t)
}
