package get_salon_stats_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_salon_stats"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/access"
	"github.com/m04kA/SMC-ScheduleService/internal/service/bookings"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
)

type fakeService struct {
	salonID int64
	stats   []*domain.MasterBookingStats
	err     error
}

func (f *fakeService) SalonStats(_ context.Context, _ domain.Principal, salonID int64) ([]*domain.MasterBookingStats, error) {
	f.salonID = salonID
	return f.stats, f.err
}

var owner = domain.Principal{ID: 10, Role: domain.RoleSalonAdmin}

func get(svc *fakeService, target string, actor *domain.Principal) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/salons/{salonId}/stats", handler.NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if actor != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_OK(t *testing.T) {
	svc := &fakeService{stats: []*domain.MasterBookingStats{
		{MasterID: 3, MasterName: "Анна", Total: 4, Confirmed: 2, Visited: 1, NoShow: 1},
		{MasterID: 4, MasterName: "Вера"},
	}}

	rec := get(svc, "/api/v1/salons/2/stats", &owner)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), svc.salonID)

	var body handler.StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.SalonID)
	require.Len(t, body.Masters, 2)
	assert.Equal(t, handler.MasterStatsResponse{
		MasterID: 3, MasterName: "Анна", Total: 4, Confirmed: 2, Visited: 1, NoShow: 1,
	}, body.Masters[0])
	assert.Zero(t, body.Masters[1].Total)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		actor  *domain.Principal
		err    error
		status int
	}{
		{"no principal", "/api/v1/salons/2/stats", nil, nil, http.StatusUnauthorized},
		{"bad salon id", "/api/v1/salons/0/stats", &owner, nil, http.StatusBadRequest},
		{"unknown salon", "/api/v1/salons/2/stats", &owner, bookings.ErrSalonNotFound, http.StatusNotFound},
		{"foreign salon", "/api/v1/salons/2/stats", &owner, access.ErrForbidden, http.StatusForbidden},
		{"storage failure", "/api/v1/salons/2/stats", &owner, errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(&fakeService{err: tt.err}, tt.target, tt.actor)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
