package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "localint_parsing_seconds",
		Help:    "Time spent parsing a Lua source file.",
		Buckets: prometheus.DefBuckets,
	})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "localint_analysis_seconds",
		Help:    "Time spent verifying a parsed chunk.",
		Buckets: prometheus.DefBuckets,
	})

	FilesAnalyzedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "localint_files_analyzed_total",
		Help: "Total number of files analyzed.",
	})

	AnalysisErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "localint_analysis_errors_total",
		Help: "Total number of files whose analysis aborted on a structural failure.",
	})

	WarningsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "localint_warnings_total",
		Help: "Total number of warnings emitted, by kind.",
	}, []string{"kind"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "localint_watcher_events_total",
		Help: "Total number of file change batches received by the watcher.",
	})
)
