// Package metrics exposes Prometheus counters for the streaming pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/markotrapani/impact-score-calculator/internal/logger"
)

var (
	// TicketsScored counts scored tickets by priority level.
	TicketsScored = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "impactscore",
		Name:      "tickets_scored_total",
		Help:      "Tickets scored, labeled by resulting priority level.",
	}, []string{"priority_level"})

	// ParseFailures counts ticket payloads that could not be parsed.
	ParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "impactscore",
		Name:      "parse_failures_total",
		Help:      "Ticket payloads dropped because they could not be parsed.",
	})

	// WriteFailures counts failed result-writer batches.
	WriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "impactscore",
		Name:      "write_failures_total",
		Help:      "Result batches that failed to write after retry.",
	})

	// FinalScores observes the distribution of final scores.
	FinalScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "impactscore",
		Name:      "final_score",
		Help:      "Distribution of final impact scores.",
		Buckets:   []float64{20, 30, 40, 50, 60, 70, 80, 90, 100, 115, 130},
	})
)

// Serve exposes /metrics on addr. It blocks, so callers run it in a
// goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Metrics listening on %s", addr)
	return server.ListenAndServe()
}
