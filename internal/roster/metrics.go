package roster

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "staffpanel",
		Subsystem: "roster",
		Name:      "refresh_total",
		Help:      "Roster refreshes against the source by result.",
	}, []string{"result"})

	staleServed = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "staffpanel",
		Subsystem: "roster",
		Name:      "stale_served_total",
		Help:      "Requests answered with an older snapshot after a failed refresh.",
	})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "staffpanel",
		Subsystem: "roster",
		Name:      "cache_hits_total",
		Help:      "Requests answered from a fresh snapshot without a refresh.",
	})

	memberGauge = promauto.NewGauge(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Namespace: "staffpanel",
		Subsystem: "roster",
		Name:      "members",
		Help:      "Members in the current snapshot.",
	})
)
