package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "renewd_ticks_total",
		Help: "Completed reminder ticks.",
	})

	ticksSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "renewd_ticks_skipped_total",
		Help: "Timer fires skipped because the previous tick was still running.",
	})

	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "renewd_tick_duration_seconds",
		Help:    "Duration of one full reminder tick.",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	})
)
