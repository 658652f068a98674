package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Database connection pool
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec
	DBQueryDuration    *prometheus.HistogramVec

	// Бизнес-метрики
	BookingsCreatedTotal   *prometheus.CounterVec
	BookingsApprovedTotal  *prometheus.CounterVec
	AutoRejectedTotal      *prometheus.CounterVec
	ConflictFailuresTotal  *prometheus.CounterVec
	NotificationsSentTotal *prometheus.CounterVec
}

// New регистрирует метрики в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer регистрирует метрики в указанном реестре
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	f := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBOpenConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBInUseConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBIdleConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBWaitCount: f.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		BookingsCreatedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_requests_created_total",
			Help:        "Number of created booking requests",
			ConstLabels: constLabels,
		}, []string{"venue"}),
		BookingsApprovedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_requests_approved_total",
			Help:        "Number of approved booking requests",
			ConstLabels: constLabels,
		}, []string{"venue"}),
		AutoRejectedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_requests_auto_rejected_total",
			Help:        "Number of pending requests rejected by conflict resolution",
			ConstLabels: constLabels,
		}, []string{"venue"}),
		ConflictFailuresTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "conflict_resolution_failures_total",
			Help:        "Conflict resolution failures by kind (lookup, update, notification)",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		NotificationsSentTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_sent_total",
			Help:        "Number of stored notifications by type",
			ConstLabels: constLabels,
		}, []string{"type"}),
	}
}

// Методы ниже безопасно вызывать на nil (метрики выключены)

func (m *Metrics) IncBookingCreated(venue string) {
	if m == nil {
		return
	}
	m.BookingsCreatedTotal.WithLabelValues(venue).Inc()
}

func (m *Metrics) IncBookingApproved(venue string) {
	if m == nil {
		return
	}
	m.BookingsApprovedTotal.WithLabelValues(venue).Inc()
}

func (m *Metrics) IncAutoRejected(venue string) {
	if m == nil {
		return
	}
	m.AutoRejectedTotal.WithLabelValues(venue).Inc()
}

func (m *Metrics) IncConflictFailure(kind string) {
	if m == nil {
		return
	}
	m.ConflictFailuresTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncNotificationSent(notificationType string) {
	if m == nil {
		return
	}
	m.NotificationsSentTotal.WithLabelValues(notificationType).Inc()
}
