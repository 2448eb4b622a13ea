package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	renderErrorCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geojson2image_server",
		Name:      "render_error_total",
		Help:      "The total number of failed renderings",
	})

	cacheHitCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geojson2image_server",
		Name:      "render_cache_hit_total",
		Help:      "Renderings served from cache",
	}, []string{"cache"})

	cacheMissCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geojson2image_server",
		Name:      "render_cache_miss_total",
		Help:      "Renderings not found in any cache",
	})

	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geojson2image_server",
		Name:      "render_duration_seconds",
		Help:      "Time spent decoding, rendering and encoding",
		Buckets:   prometheus.DefBuckets,
	})
)
