package action

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "staffpanel",
		Name:      "actions_total",
		Help:      "Per-target actions by category and result code.",
	}, []string{"category", "result"})

	batchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Namespace: "staffpanel",
		Name:      "action_batch_duration_seconds",
		Help:      "Duration of batch actions.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"category"})
)
