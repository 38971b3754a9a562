package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "beerlog"

type Metrics struct {
	Registry      *prometheus.Registry
	beersAdded    prometheus.Counter
	addRejected   *prometheus.CounterVec
	publishes     *prometheus.CounterVec
	imageDuration prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		beersAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "beers_added_total",
			Help:      "Beers appended to the store.",
		}),
		addRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "beers_rejected_total",
			Help:      "Add attempts that did not write a record, by reason.",
		}, []string{"reason"}),
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publishes_total",
			Help:      "Publish runs by outcome (the failed step name, or ok).",
		}, []string{"outcome"}),
		imageDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "image_normalize_seconds",
			Help:      "Time spent normalizing uploaded photos.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.Registry.MustRegister(m.beersAdded, m.addRejected, m.publishes, m.imageDuration)

	return m
}

// The recorders below accept a nil receiver so callers can run without metrics.

func (m *Metrics) BeerAdded() {
	if m != nil {
		m.beersAdded.Inc()
	}
}

func (m *Metrics) AddRejected(reason string) {
	if m != nil {
		m.addRejected.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) Published(outcome string) {
	if m != nil {
		m.publishes.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveImage(seconds float64) {
	if m != nil {
		m.imageDuration.Observe(seconds)
	}
}
