// Package metrics holds the Prometheus collectors of the media pipeline
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TranscodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "media_transcode_duration_seconds",
		Help:    "Time taken to transcode all requested tiers of one video",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
	TierResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_transcode_tier_total",
		Help: "Transcoded tiers by quality and outcome",
	}, []string{"quality", "outcome"})
	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_uploads_total",
		Help: "Upload operations by media class and result kind",
	}, []string{"class", "result"})
	ActiveJobs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "media_active_jobs",
		Help: "Number of uploads currently being processed",
	})
)

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
