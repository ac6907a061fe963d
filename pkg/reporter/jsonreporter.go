package reporter

import (
	"encoding/json"
	"time"
)

type jsonReporter struct{}

type histogramPoint struct {
	LatencyMs float64 `json:"latencyMs"`
	Count     int64   `json:"count"`
}

type domainResult struct {
	Domain    string   `json:"domain"`
	Status    string   `json:"status"`
	LatencyMs *float64 `json:"latencyMs"`
}

type serverResult struct {
	Rank int    `json:"rank"`
	Name string `json:"name"`
	URL  string `json:"url"`
	// LatencyMs is the mean latency, null when the server is unavailable.
	LatencyMs    *float64       `json:"latencyMs"`
	MinMs        *float64       `json:"minMs,omitempty"`
	MedianMs     *float64       `json:"medianMs,omitempty"`
	MaxMs        *float64       `json:"maxMs,omitempty"`
	Answered     int            `json:"answered"`
	Domains      []domainResult `json:"domains"`
	ErrorSummary string         `json:"errorSummary,omitempty"`
	ErrorDetail  string         `json:"errorDetail,omitempty"`
}

type overall struct {
	MinMs            *float64 `json:"minMs"`
	MaxMs            *float64 `json:"maxMs"`
	MeanMs           *float64 `json:"meanMs"`
	AvailableServers int      `json:"availableServers"`
	TotalServers     int      `json:"totalServers"`
	SuccessRate      float64  `json:"successRate"`
	LatencyGrade     Grade    `json:"latencyGrade"`
	ReliabilityGrade Grade    `json:"reliabilityGrade"`
	NetworkScore     *int     `json:"networkScore"`
}

type jsonResult struct {
	Servers                  []serverResult   `json:"servers"`
	Fastest                  *string          `json:"fastest"`
	Overall                  overall          `json:"overall"`
	BenchmarkDurationSeconds float64          `json:"benchmarkDurationSeconds"`
	LatencyDistribution      []histogramPoint `json:"latencyDistribution,omitempty"`
}

func (s *jsonReporter) print(params reportParameters) error {
	servers := make([]serverResult, 0, len(params.ranked))
	for i, r := range params.ranked {
		res := serverResult{
			Rank:         i + 1,
			Name:         r.Name,
			URL:          r.URL,
			Answered:     r.Successes(),
			Domains:      make([]domainResult, 0, len(r.PerDomain)),
			ErrorSummary: r.ErrorSummary,
			ErrorDetail:  r.ErrorDetail,
		}
		if r.Stats != nil {
			res.LatencyMs = msPtr(r.Stats.Mean)
			res.MinMs = msPtr(r.Stats.Min)
			res.MedianMs = msPtr(r.Stats.Median)
			res.MaxMs = msPtr(r.Stats.Max)
		}
		for _, d := range r.PerDomain {
			dr := domainResult{Domain: d.Domain, Status: d.Status.String()}
			if d.Available() {
				dr.LatencyMs = msPtr(d.Latency)
			}
			res.Domains = append(res.Domains, dr)
		}
		servers = append(servers, res)
	}

	summary := params.summary
	result := jsonResult{
		Servers: servers,
		Overall: overall{
			AvailableServers: summary.Available,
			TotalServers:     summary.Total,
			SuccessRate:      summary.SuccessRate,
			LatencyGrade:     summary.LatencyGrade,
			ReliabilityGrade: summary.ReliabilityGrade,
			NetworkScore:     summary.NetworkScore,
		},
		BenchmarkDurationSeconds: roundDuration(params.benchmarkDuration).Seconds(),
	}
	if params.fastest != nil {
		result.Fastest = &params.fastest.Name
	}
	if summary.Available > 0 {
		result.Overall.MinMs = msPtr(summary.Min)
		result.Overall.MaxMs = msPtr(summary.Max)
		result.Overall.MeanMs = msPtr(summary.Mean)
	}

	if params.benchmark.HistDisplay {
		result.LatencyDistribution = distribution(params)
	}

	return json.NewEncoder(params.outputWriter).Encode(result)
}

// distribution returns non-empty histogram buckets, buckets with the same rounded latency are merged.
func distribution(params reportParameters) []histogramPoint {
	var res []histogramPoint
	for _, d := range params.hist.Distribution() {
		if d.Count == 0 {
			continue
		}
		latency := toMs(roundDuration(time.Duration(d.To/2 + d.From/2)))
		if n := len(res); n > 0 && res[n-1].LatencyMs == latency {
			res[n-1].Count += d.Count
			continue
		}
		res = append(res, histogramPoint{LatencyMs: latency, Count: d.Count})
	}
	return res
}

func msPtr(d time.Duration) *float64 {
	ms := toMs(d)
	return &ms
}
