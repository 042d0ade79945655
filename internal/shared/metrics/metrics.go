package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	parseJobs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resume_parse_jobs_total",
		Help: "Resume upload parse jobs by terminal status.",
	}, []string{"status"})

	parseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "resume_parse_duration_ms",
		Help:    "Resume upload parse duration in milliseconds.",
		Buckets: []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000},
	})

	reconciliations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resume_reconciliations_total",
		Help: "Generated resume text applied to drafts, by mode.",
	}, []string{"mode"})

	assessmentSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assessment_submissions_total",
		Help: "Assessment evaluation attempts by outcome.",
	}, []string{"outcome"})

	assessmentExpired = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assessment_time_up_total",
		Help: "Assessment sessions completed by the countdown.",
	})

	reportSections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_sections_total",
		Help: "Report analysis sections by section and outcome.",
	}, []string{"section", "outcome"})

	rateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_rate_limited_total",
		Help: "Requests rejected by the rate limiter, by route group.",
	}, []string{"group"})

	backendRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_request_duration_ms",
		Help:    "External backend call duration in milliseconds.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	}, []string{"operation", "outcome"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		parseJobs,
		parseDuration,
		reconciliations,
		assessmentSubmissions,
		assessmentExpired,
		reportSections,
		rateLimited,
		backendRequests,
	)
}

// IncParseJob counts a parse job reaching the given status.
func IncParseJob(status string) {
	parseJobs.WithLabelValues(status).Inc()
}

// ObserveParseDurationMs records a parse job duration in milliseconds.
func ObserveParseDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	parseDuration.Observe(value)
}

// IncReconciliation counts one merge or replace.
func IncReconciliation(mode string) {
	reconciliations.WithLabelValues(mode).Inc()
}

// IncAssessmentSubmission counts an evaluation attempt outcome ("ok", "failed", "rejected").
func IncAssessmentSubmission(outcome string) {
	assessmentSubmissions.WithLabelValues(outcome).Inc()
}

// IncAssessmentTimeUp counts a session finished by its countdown.
func IncAssessmentTimeUp() {
	assessmentExpired.Inc()
}

// IncReportSection counts a report analysis section outcome.
func IncReportSection(section, outcome string) {
	reportSections.WithLabelValues(section, outcome).Inc()
}

// IncRateLimited counts a request rejected with 429.
func IncRateLimited(group string) {
	rateLimited.WithLabelValues(group).Inc()
}

// ObserveBackendMs records the latency of one external backend call.
func ObserveBackendMs(operation, outcome string, value float64) {
	if value < 0 {
		value = 0
	}
	backendRequests.WithLabelValues(operation, outcome).Observe(value)
}

// Registry exposes the process registry, mainly for tests.
func Registry() *prometheus.Registry {
	return registry
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
