package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics holds the calculator and scenario Prometheus metrics.
// It implements usecase.MetricsRecorder.
type Metrics struct {
	// Calculation metrics
	CalculationsTotal   prometheus.Counter
	CalculationDuration prometheus.Histogram
	SchedulePeriods     prometheus.Histogram
	PrincipalAmount     prometheus.Histogram
	CalculationErrors   *prometheus.CounterVec

	// Scenario metrics
	ScenariosSaved   prometheus.Counter
	ScenariosDeleted prometheus.Counter
}

// New creates the metrics and registers them with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		CalculationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "goamort_calculations_total",
			Help: "Total number of schedules computed",
		}),
		CalculationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "goamort_calculation_duration_seconds",
			Help:    "Duration of schedule computations",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		SchedulePeriods: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "goamort_schedule_periods",
			Help:    "Number of rows in computed schedules",
			Buckets: []float64{12, 24, 60, 120, 240, 360, 520, 1040},
		}),
		PrincipalAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "goamort_principal_amount",
			Help:    "Loan principals submitted for calculation",
			Buckets: []float64{1000, 10000, 100000, 1000000, 10000000, 100000000},
		}),
		CalculationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "goamort_calculation_errors_total",
				Help: "Total number of rejected calculations by reason",
			},
			[]string{"reason"},
		),

		ScenariosSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "goamort_scenarios_saved_total",
			Help: "Total number of scenarios saved",
		}),
		ScenariosDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "goamort_scenarios_deleted_total",
			Help: "Total number of scenarios deleted",
		}),
	}
}

// ObserveCalculation records a successful computation.
func (m *Metrics) ObserveCalculation(duration time.Duration, periods int, principal decimal.Decimal) {
	m.CalculationsTotal.Inc()
	m.CalculationDuration.Observe(duration.Seconds())
	m.SchedulePeriods.Observe(float64(periods))
	m.PrincipalAmount.Observe(principal.InexactFloat64())
}

// CalculationFailed records a rejected computation.
func (m *Metrics) CalculationFailed(reason string) {
	m.CalculationErrors.WithLabelValues(reason).Inc()
}

// ScenarioSaved increments the saved scenarios counter.
func (m *Metrics) ScenarioSaved() {
	m.ScenariosSaved.Inc()
}

// ScenarioDeleted increments the deleted scenarios counter.
func (m *Metrics) ScenarioDeleted() {
	m.ScenariosDeleted.Inc()
}
