// Package metrics exports calculator and HTTP counters in the Prometheus
// text format from a private registry.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	scaleup "RMGScale/internal/calc/scaleup"
	"RMGScale/internal/input"
)

const namespace = "rmgscale"

// Outcome labels for calculations.
const (
	OutcomeOK            = "ok"
	OutcomeInvalidMethod = "invalid_method"
	OutcomeDomainError   = "domain_error"
	OutcomeError         = "error"
)

// OperationUnknown labels calculations whose operation is not one the
// calculator serves.
const OperationUnknown = "unknown"

var operations = map[string]bool{
	string(scaleup.QuantityDuration): true,
	string(scaleup.QuantitySpeed):    true,
	"report":                         true,
}

type Recorder struct {
	registry     *prometheus.Registry
	calculations *prometheus.CounterVec
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	rec := &Recorder{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Scale-up calculations by operation, method and outcome.",
		}, []string{"operation", "method", "outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	rec.registry.MustRegister(
		rec.calculations,
		rec.requests,
		rec.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return rec
}

// ObserveCalculation counts one calculation. Unknown methods are recorded
// under an empty method label and unknown operations under OperationUnknown,
// so client input cannot create new series.
func (r *Recorder) ObserveCalculation(operation, method string, err error) {
	if !operations[operation] {
		operation = OperationUnknown
	}
	if !scaleup.Method(method).Valid() {
		method = ""
	}
	r.calculations.WithLabelValues(operation, method, Outcome(err)).Inc()
}

func (r *Recorder) ObserveRequest(route, method string, status int, d time.Duration) {
	r.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.latency.WithLabelValues(route).Observe(d.Seconds())
}

// Handler serves the registry for scraping.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// Outcome classifies a calculation error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, scaleup.ErrInvalidMethod):
		return OutcomeInvalidMethod
	case errors.Is(err, scaleup.ErrDomain), errors.Is(err, input.ErrOutOfRange):
		return OutcomeDomainError
	default:
		return OutcomeError
	}
}
