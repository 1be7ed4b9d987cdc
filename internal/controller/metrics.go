package controller

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "co2form",
			Subsystem: "controller",
			Name:      "submissions_total",
			Help:      "Form submissions by outcome kind",
		},
		[]string{"kind"},
	)

	tiersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "co2form",
			Subsystem: "controller",
			Name:      "impact_tier_total",
			Help:      "Rendered predictions by environmental impact tier",
		},
		[]string{"tier"},
	)

	upstreamDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "co2form",
			Subsystem: "controller",
			Name:      "upstream_duration_seconds",
			Help:      "Duration of prediction endpoint calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(submissionsTotal, tiersTotal, upstreamDuration)
}

func observe(p Panel) {
	submissionsTotal.WithLabelValues(string(p.Kind)).Inc()
	if p.Tier != nil {
		tiersTotal.WithLabelValues(p.Tier.Name).Inc()
	}
}
