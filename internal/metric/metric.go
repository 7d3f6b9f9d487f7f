package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline counters. Registered on the default registry and exposed through
// the API server's /metrics endpoint.
var (
	FlowsParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowtally_flows_parsed_total",
		Help: "Number of flow-log records successfully parsed into flow keys.",
	})

	RecordsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowtally_records_dropped_total",
		Help: "Number of malformed or unresolvable records silently dropped.",
	})

	RulesLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowtally_tag_rules_loaded_total",
		Help: "Number of tag rules loaded into the rule map.",
	})

	ReportRowsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowtally_report_rows_written_total",
		Help: "Number of report rows handed to sink writers, per report.",
	}, []string{"report"})
)
