package symbolizer

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/robotsym/crashsym/pkg/util"
)

const (
	statusSuccess      = "success"
	statusSymbolOnly   = "symbol_only"
	statusNoCandidates = "no_candidates"
	statusNoReader     = "no_reader"
	statusUnresolved   = "unresolved"
	statusCanceled     = "canceled"
	statusError        = "error"

	outcomeHit           = "hit"
	outcomeEmpty         = "empty"
	outcomeNotApplicable = "not_applicable"
	outcomeLocation      = "location"
	outcomeSymbol        = "symbol"
	outcomeError         = "error"

	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

type metrics struct {
	resolutions        *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
	locatorOutcomes    *prometheus.CounterVec
	readerProbes       *prometheus.CounterVec
	candidateAttempts  *prometheus.CounterVec
	cacheOperations    *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crashsym_symbolizer_resolutions_total",
			Help: "Total number of address resolutions by status",
		}, []string{"status"}),
		resolutionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crashsym_symbolizer_resolution_duration_seconds",
			Help:    "Time spent resolving an address by status",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 5, 10},
		}, []string{"status"}),
		locatorOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crashsym_symbolizer_locator_outcomes_total",
			Help: "Total number of locator invocations by locator and outcome",
		}, []string{"locator", "outcome"}),
		readerProbes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crashsym_symbolizer_reader_probes_total",
			Help: "Total number of reader health checks by reader and status",
		}, []string{"reader", "status"}),
		candidateAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crashsym_symbolizer_candidate_attempts_total",
			Help: "Total number of code objects symbolized by reader and outcome",
		}, []string{"reader", "outcome"}),
		cacheOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crashsym_symbolizer_cache_operations_total",
			Help: "Total number of result cache operations by operation and status",
		}, []string{"operation", "status"}),
	}

	m.resolutions = util.RegisterOrGet(reg, m.resolutions)
	m.resolutionDuration = util.RegisterOrGet(reg, m.resolutionDuration)
	m.locatorOutcomes = util.RegisterOrGet(reg, m.locatorOutcomes)
	m.readerProbes = util.RegisterOrGet(reg, m.readerProbes)
	m.candidateAttempts = util.RegisterOrGet(reg, m.candidateAttempts)
	m.cacheOperations = util.RegisterOrGet(reg, m.cacheOperations)
	return m
}

func resolutionStatus(err error) string {
	switch {
	case err == nil:
		return statusSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return statusCanceled
	case errors.Is(err, ErrNoCandidates):
		return statusNoCandidates
	case errors.Is(err, ErrNoReader):
		return statusNoReader
	case errors.Is(err, ErrUnresolved):
		return statusUnresolved
	default:
		return statusError
	}
}
