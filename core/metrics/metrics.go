package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Sync runs
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardgame_sync_runs_total",
		Help: "Total number of reconciliation runs by outcome.",
	}, []string{"outcome"}) // outcome: done, aborted, failed

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "boardgame_sync_run_duration_seconds",
		Help:    "Duration of reconciliation runs in seconds.",
		Buckets: prometheus.DefBuckets,
	})

	// Match store
	MatchesCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardgame_sync_matches_committed_total",
		Help: "Total number of match records committed by match type.",
	}, []string{"type"})

	CandidatesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardgame_sync_candidates_rejected_total",
		Help: "Total number of rejected candidates by reason.",
	}, []string{"reason"})

	MatchesStored = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "boardgame_sync_matches_stored",
		Help: "Number of match records currently stored for an account pair.",
	}, []string{"account_a", "account_b"})

	// Fuzzy matcher
	MatcherExtractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boardgame_sync_matcher_extractions_total",
		Help: "Total number of matcher responses by extraction method.",
	}, []string{"method"}) // method: direct, fenced, bracket, none, error
)

// RecordRun records the outcome and duration of a reconciliation run.
func RecordRun(outcome string, start time.Time) {
	RunsTotal.WithLabelValues(outcome).Inc()
	RunDuration.Observe(time.Since(start).Seconds())
}

// RecordCommitted adds n committed matches of the given type.
func RecordCommitted(matchType string, n int) {
	if n <= 0 {
		return
	}
	MatchesCommitted.WithLabelValues(matchType).Add(float64(n))
}

// RecordRejected counts one rejected candidate.
func RecordRejected(reason string) {
	CandidatesRejected.WithLabelValues(reason).Inc()
}

// RecordExtraction counts one matcher response by extraction method.
func RecordExtraction(method string) {
	MatcherExtractions.WithLabelValues(method).Inc()
}

// SetStored sets the stored match count of an account pair.
func SetStored(accountA, accountB string, n int) {
	MatchesStored.WithLabelValues(accountA, accountB).Set(float64(n))
}

// Handler returns the HTTP handler exposing the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
