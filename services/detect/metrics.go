package detect

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	detectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skinective_detections_total",
		Help: "Detection pipeline runs by terminal outcome.",
	}, []string{"outcome"})

	detectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "skinective_detection_duration_seconds",
		Help:    "Wall-clock duration of full detection pipeline runs.",
		Buckets: prometheus.DefBuckets,
	})
)

func observeDetection(started time.Time, err error) {
	detectionDuration.Observe(time.Since(started).Seconds())
	detectionsTotal.WithLabelValues(outcomeLabel(err)).Inc()
}

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	if derr, ok := err.(*Error); ok {
		switch derr.Kind {
		case KindBadRequest:
			return "bad_request"
		case KindNotFound:
			return "not_found"
		}
	}
	return "internal"
}
