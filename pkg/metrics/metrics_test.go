package metrics

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTP(http.MethodGet, "/healthz", http.StatusOK, time.Millisecond)
		m.ObserveDBQuery("select", time.Millisecond, nil)
		m.SetPoolStats(sql.DBStats{})
		m.AddSlotsCreated(3)
		m.IncBooking("ok")
		m.IncNotification("telegram", "ok")
		m.IncCache("hit")
		m.IncHousekeeping("sweep_pending", "ok")
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := New("test", prometheus.NewRegistry())

	m.ObserveHTTP(http.MethodPost, "/api/v1/bookings", http.StatusCreated, time.Millisecond)
	m.ObserveDBQuery("select", time.Millisecond, sql.ErrNoRows)
	m.ObserveDBQuery("insert", time.Millisecond, errors.New("constraint"))
	m.AddSlotsCreated(3)
	m.AddSlotsCreated(2)
	m.IncBooking("taken")
	m.IncCache("miss")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues(http.MethodPost, "/api/v1/bookings", "201")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("select")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("insert")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.slotsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingsTotal.WithLabelValues("taken")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheRequests.WithLabelValues("miss")))
}
