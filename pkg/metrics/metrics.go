package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы подбора мастеров для групповой записи
const (
	OutcomeAllReal         = "all_real"
	OutcomeWithPlaceholder = "with_placeholder"
	OutcomeNone            = "none"
)

// Metrics набор prometheus-метрик сервиса
// Все методы безопасны для nil-получателя: выключенные метрики не требуют проверок в коде
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbConnections   *prometheus.GaugeVec

	schedulingDuration *prometheus.HistogramVec
	schedulingSlots    *prometheus.HistogramVec
	groupAssignments   *prometheus.CounterVec
}

// New регистрирует метрики в DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer регистрирует метрики в переданном registry (используется в тестах)
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		dbQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		dbQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		dbConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),

		schedulingDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "scheduling_run_duration_seconds",
			Help:        "Duration of slot computation runs",
			ConstLabels: constLabels,
			Buckets:     []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 2.5},
		}, []string{"operation"}),

		schedulingSlots: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "scheduling_returned_slots",
			Help:        "Number of slots returned by a computation run",
			ConstLabels: constLabels,
			Buckets:     []float64{0, 1, 2, 4, 8, 12, 16, 20, 24},
		}, []string{"operation"}),

		groupAssignments: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "group_assignments_total",
			Help:        "Group booking technician assignment outcomes",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
	}
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBConnections обновляет состояние пула соединений
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues("open").Set(float64(open))
	m.dbConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.dbConnections.WithLabelValues("idle").Set(float64(idle))
}

// ObserveSchedulingRun фиксирует длительность расчета и количество найденных слотов
func (m *Metrics) ObserveSchedulingRun(operation string, duration time.Duration, slots int) {
	if m == nil {
		return
	}
	m.schedulingDuration.WithLabelValues(operation).Observe(duration.Seconds())
	m.schedulingSlots.WithLabelValues(operation).Observe(float64(slots))
}

// IncGroupAssignment фиксирует исход подбора мастеров
func (m *Metrics) IncGroupAssignment(outcome string) {
	if m == nil {
		return
	}
	m.groupAssignments.WithLabelValues(outcome).Inc()
}
