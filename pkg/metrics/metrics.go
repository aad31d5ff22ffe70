package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics agrupa los colectores del servicio en un registro propio.
// Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	generated   *prometheus.CounterVec
	submissions *prometheus.CounterVec
	scores      prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quiz_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
			},
			[]string{"method", "path"},
		),
		generated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_generated_total",
				Help: "Prepared quizzes by mode (shuffled, ordered, debug)",
			},
			[]string{"mode"},
		),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_submissions_total",
				Help: "Quiz submissions by outcome",
			},
			[]string{"outcome"},
		),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quiz_score_percent",
			Help:    "Score percentage of graded submissions",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
	}

	m.registry.MustRegister(m.requests, m.duration, m.generated, m.submissions, m.scores)
	return m
}

func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) QuizGenerated(mode string) {
	if m == nil {
		return
	}
	m.generated.WithLabelValues(mode).Inc()
}

func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Score(percent float64) {
	if m == nil {
		return
	}
	m.scores.Observe(percent)
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler sirve /metrics sobre fasthttp
func (m *Metrics) Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
