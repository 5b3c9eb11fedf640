package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kpop_store"

var (
	// LoginsTotal counts credential checks by outcome (success, failure,
	// throttled).
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Login attempts by outcome.",
	}, []string{"result"})

	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Accounts created through public registration.",
	})

	// AlbumWritesTotal counts catalog mutations by operation (create, update,
	// stock, delete).
	AlbumWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "album_writes_total",
		Help:      "Catalog write operations.",
	}, []string{"operation"})

	UploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_bytes",
		Help:      "Size of accepted album cover uploads.",
		Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 6),
	})
)
