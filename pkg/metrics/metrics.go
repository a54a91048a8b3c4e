package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "salon_schedule"

// Metrics набор метрик сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках передается nil.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbConnections   *prometheus.GaugeVec

	slotsCreated    prometheus.Counter
	bookingsTotal   *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	cacheRequests   *prometheus.CounterVec
	housekeepingRun *prometheus.CounterVec
}

// New регистрирует метрики в переданном registerer
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		httpRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "Количество HTTP запросов",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "Длительность обработки HTTP запросов",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "db_query_duration_seconds",
			Help:        "Длительность SQL запросов",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		dbQueryErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "db_query_errors_total",
			Help:        "Количество ошибок SQL запросов",
			ConstLabels: labels,
		}, []string{"operation"}),
		dbConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "db_connections",
			Help:        "Состояние пула соединений",
			ConstLabels: labels,
		}, []string{"state"}),
		slotsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "slots_created_total",
			Help:        "Количество созданных слотов",
			ConstLabels: labels,
		}),
		bookingsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "booking_attempts_total",
			Help:        "Попытки бронирования по результату",
			ConstLabels: labels,
		}, []string{"result"}),
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "notifications_total",
			Help:        "Отправка уведомлений по каналам",
			ConstLabels: labels,
		}, []string{"channel", "result"}),
		cacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "availability_cache_requests_total",
			Help:        "Обращения к кэшу доступных слотов",
			ConstLabels: labels,
		}, []string{"result"}),
		housekeepingRun: f.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "housekeeping_runs_total",
			Help:        "Запуски фоновых задач",
			ConstLabels: labels,
		}, []string{"job", "result"}),
	}
}

// ObserveHTTP фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveDBQuery фиксирует SQL запрос
func (m *Metrics) ObserveDBQuery(operation string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if err != nil && err != sql.ErrNoRows {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetPoolStats обновляет метрики пула соединений
func (m *Metrics) SetPoolStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	m.dbConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.dbConnections.WithLabelValues("idle").Set(float64(stats.Idle))
	m.dbConnections.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
}

// AddSlotsCreated увеличивает счетчик созданных слотов
func (m *Metrics) AddSlotsCreated(n int) {
	if m == nil {
		return
	}
	m.slotsCreated.Add(float64(n))
}

// IncBooking фиксирует результат попытки бронирования
func (m *Metrics) IncBooking(result string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(result).Inc()
}

// IncNotification фиксирует результат отправки уведомления
func (m *Metrics) IncNotification(channel, result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(channel, result).Inc()
}

// IncCache фиксирует обращение к кэшу
func (m *Metrics) IncCache(result string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(result).Inc()
}

// IncHousekeeping фиксирует запуск фоновой задачи
func (m *Metrics) IncHousekeeping(job, result string) {
	if m == nil {
		return
	}
	m.housekeepingRun.WithLabelValues(job, result).Inc()
}
