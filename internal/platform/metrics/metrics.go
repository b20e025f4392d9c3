// Package metrics holds the process prometheus collectors and the /metrics handler
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OutcomeSuccess labels a completed authentication
const OutcomeSuccess = "success"

var (
	authAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ksef",
			Name:      "auth_attempts_total",
			Help:      "Authentication attempts against the remote authority by outcome.",
		},
		[]string{"outcome"},
	)

	authDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ksef",
			Name:      "auth_duration_seconds",
			Help:      "Wall time of a full challenge, submit, poll and redeem sequence.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"outcome"},
	)

	authPolls = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ksef",
		Name:      "auth_polls",
		Help:      "Status polls issued per authentication attempt.",
		Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34},
	})

	authorityRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ksef",
			Name:      "authority_requests_total",
			Help:      "HTTP calls to the remote authority by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)

	regOnce sync.Once
)

// Init registers the collectors on the default registry. Safe to call more than once.
func Init() {
	regOnce.Do(func() {
		prometheus.MustRegister(authAttempts, authDuration, authPolls, authorityRequests)
	})
}

// Handler serves the default registry
func Handler() http.Handler { return promhttp.Handler() }

// ObserveAuth records one authentication attempt
func ObserveAuth(outcome string, polls int, d time.Duration) {
	authAttempts.WithLabelValues(outcome).Inc()
	authDuration.WithLabelValues(outcome).Observe(d.Seconds())
	if polls > 0 {
		authPolls.Observe(float64(polls))
	}
}

// AuthorityRequest records one call to the remote authority; status 0 means no response
func AuthorityRequest(endpoint string, status int) {
	s := "error"
	if status > 0 {
		s = strconv.Itoa(status)
	}
	authorityRequests.WithLabelValues(endpoint, s).Inc()
}
