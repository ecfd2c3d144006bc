package mirror

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for result selection.
type Metrics struct {
	analyses   *prometheus.CounterVec
	rejections *prometheus.CounterVec
	scores     *prometheus.HistogramVec
}

// MustNewMetrics registers the selection collectors with reg, reusing any
// that are already registered. A nil reg uses the default registerer.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	analyses := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prompt_mirror",
			Name:      "analyses_total",
			Help:      "Analyses served, by the source of the shown result.",
		},
		[]string{"source"},
	)
	rejections := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prompt_mirror",
			Name:      "remote_rejections_total",
			Help:      "Remote candidates discarded in favor of the rule-based result.",
		},
		[]string{"reason"},
	)
	scores := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "prompt_mirror",
			Name:      "score",
			Help:      "Distribution of shown clarity scores.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		},
		[]string{"source"},
	)

	collectors := []prometheus.Collector{analyses, rejections, scores}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			already, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				panic(err)
			}
			switch collector {
			case analyses:
				analyses = already.ExistingCollector.(*prometheus.CounterVec)
			case rejections:
				rejections = already.ExistingCollector.(*prometheus.CounterVec)
			case scores:
				scores = already.ExistingCollector.(*prometheus.HistogramVec)
			}
		}
	}

	return &Metrics{analyses: analyses, rejections: rejections, scores: scores}
}

func (m *Metrics) observe(source Source, score int) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(string(source)).Inc()
	m.scores.WithLabelValues(string(source)).Observe(float64(score))
}

func (m *Metrics) reject(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}
