package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the preview server's counters on a per-server registry.
type metrics struct {
	registry     *prometheus.Registry
	heroRequests *prometheus.CounterVec
	runsRequests prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		heroRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "herogen_hero_requests_total",
				Help: "Number of hero asset requests by resolved artifact name.",
			},
			[]string{"artifact"},
		),
		runsRequests: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "herogen_runs_requests_total",
				Help: "Number of run history requests.",
			},
		),
	}
	m.registry.MustRegister(m.heroRequests, m.runsRequests)
	return m
}

// observeHero counts a hero request; name is empty when nothing was resolved.
func (m *metrics) observeHero(name string) {
	if name == "" {
		name = "none"
	}
	m.heroRequests.WithLabelValues(name).Inc()
}
