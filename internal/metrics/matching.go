package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Anchor labels describe what a match request was scored against.
const (
	AnchorProfile    = "profile"
	AnchorAttributes = "attributes"
	AnchorFallback   = "fallback"
)

var (
	MatchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_requests_total",
			Help:      "Match requests by anchor (profile, attributes, fallback)",
		},
		[]string{"anchor"},
	)

	MatchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_candidates",
			Help:      "Number of stored profiles scored per match request",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(MatchRequestsTotal)
	prometheus.MustRegister(MatchCandidates)
}

// ObserveMatch records one completed match request.
func ObserveMatch(anchor string, candidates int) {
	MatchRequestsTotal.WithLabelValues(anchor).Inc()
	MatchCandidates.Observe(float64(candidates))
}
