package metrics

import "github.com/prometheus/client_golang/prometheus"

// Submission results recorded by ObserveSubmission.
const (
	ResultAccepted  = "accepted"
	ResultInvalid   = "invalid"
	ResultDuplicate = "duplicate"
	ResultError     = "error"
)

// LeadMetrics exposes counters/histograms for the lead intake endpoint.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	submitLatency    *prometheus.HistogramVec
	observerFailures *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nestinghomes",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Lead form submissions by result",
		}, []string{"result"}),
		submitLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nestinghomes",
			Subsystem: "leads",
			Name:      "submit_latency_seconds",
			Help:      "Time spent handling a lead submission",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
		observerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nestinghomes",
			Subsystem: "leads",
			Name:      "observer_failures_total",
			Help:      "Post-save lead hooks (email, queue, archive) that failed",
		}, []string{"observer"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.submitLatency, m.observerFailures)
	return m
}

func (m *LeadMetrics) ObserveSubmission(result string, seconds float64) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(result).Inc()
	m.submitLatency.WithLabelValues(result).Observe(seconds)
}

func (m *LeadMetrics) ObserveObserverFailure(observer string) {
	if m == nil {
		return
	}
	m.observerFailures.WithLabelValues(observer).Inc()
}
