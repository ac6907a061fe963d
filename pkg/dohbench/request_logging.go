package dohbench

import (
	"log"
	"time"
)

func logRequest(logger *log.Logger, server ServerSpec, domain string, timeout time.Duration, outcome ProbeOutcome) {
	result := "success"
	if !outcome.Success() {
		result = failureKind(outcome.Err)
	}
	logger.Printf("server:[%s] mode:[%s] domain:[%s] timeout:[%v] outcome:[%s] err:[%v] duration:[%v]",
		server.Name, server.Mode, domain, timeout, result, outcome.Err, outcome.Latency)
}

func logServerSummary(logger *log.Logger, res *ServerResult) {
	if res.Stats == nil {
		logger.Printf("server-summary name:[%s] url:[%s] samples:[0] domains:[%d] error:[%s]",
			res.Name, res.URL, len(res.PerDomain), res.ErrorSummary)
		return
	}
	logger.Printf("server-summary name:[%s] url:[%s] samples:[%d] domains:[%d] min:[%v] max:[%v] mean:[%v] median:[%v] error:[%s]",
		res.Name, res.URL, res.Successes(), len(res.PerDomain),
		res.Stats.Min, res.Stats.Max, res.Stats.Mean, res.Stats.Median, res.ErrorSummary)
}
