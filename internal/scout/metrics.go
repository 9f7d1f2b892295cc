package scout

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scrapeRunsTotal          *prometheus.CounterVec
	candidatesExtractedTotal prometheus.Counter
	upsertsTotal             *prometheus.CounterVec
	extractionSeconds        prometheus.Histogram

	metricsOnce sync.Once
)

// Outcome labels for scrapeRunsTotal.
const (
	outcomeSuccess  = "success"
	outcomeEmpty    = "empty"
	outcomeFallback = "fallback"
)

// InitMetrics registers the pipeline's Prometheus collectors. Safe to call
// more than once.
func InitMetrics() {
	metricsOnce.Do(func() {
		scrapeRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judgescout_scrape_runs_total",
				Help: "Total pipeline runs, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		candidatesExtractedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "judgescout_candidates_extracted_total",
				Help: "Total raw candidate profiles extracted from the directory.",
			},
		)

		upsertsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "judgescout_upserts_total",
				Help: "Total judge upserts, labeled by result.",
			},
			[]string{"result"},
		)

		extractionSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "judgescout_extraction_duration_seconds",
				Help:    "Histogram of extraction latencies.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30},
			},
		)
	})
}

func observeRun(outcome string, extracted int, elapsed time.Duration) {
	if scrapeRunsTotal == nil {
		return
	}
	scrapeRunsTotal.WithLabelValues(outcome).Inc()
	candidatesExtractedTotal.Add(float64(extracted))
	extractionSeconds.Observe(elapsed.Seconds())
}

func observeUpsert(result string) {
	if upsertsTotal == nil {
		return
	}
	upsertsTotal.WithLabelValues(result).Inc()
}
