package delete_slot_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/delete_slot"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/slots"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
)

type fakeService struct {
	slotID int64
	err    error
}

func (f *fakeService) Delete(_ context.Context, _ domain.Principal, slotID int64) error {
	f.slotID = slotID
	return f.err
}

func TestHandler(t *testing.T) {
	owner := domain.Principal{ID: 10, Role: domain.RoleSalonAdmin}

	tests := []struct {
		name   string
		slotID string
		actor  *domain.Principal
		err    error
		status int
	}{
		{name: "удален", slotID: "5", actor: &owner, status: http.StatusNoContent},
		{name: "без авторизации", slotID: "5", status: http.StatusUnauthorized},
		{name: "некорректный id", slotID: "abc", actor: &owner, status: http.StatusBadRequest},
		{name: "не найден", slotID: "5", actor: &owner, err: slots.ErrSlotNotFound, status: http.StatusNotFound},
		{name: "занят", slotID: "5", actor: &owner, err: slots.ErrSlotTaken, status: http.StatusConflict},
		{name: "чужой салон", slotID: "5", actor: &owner, err: domain.ErrForbidden, status: http.StatusForbidden},
		{name: "сбой", slotID: "5", actor: &owner, err: slots.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}

			router := mux.NewRouter()
			router.HandleFunc("/api/v1/slots/{slotId}", handler.NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodDelete)

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/slots/"+tt.slotID, nil)
			if tt.actor != nil {
				req = req.WithContext(middleware.WithPrincipal(req.Context(), *tt.actor))
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, int64(5), svc.slotID)
				assert.Empty(t, rec.Body.String())
			}
		})
	}
}
