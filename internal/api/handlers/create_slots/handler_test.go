package create_slots_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	handler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/create_slots"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	createSlots "github.com/m04kA/SMC-ScheduleService/internal/usecase/create_slots"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

type fakeUseCase struct {
	got  *createSlots.Request
	resp *createSlots.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createSlots.Request) (*createSlots.Response, error) {
	f.got = req
	return f.resp, f.err
}

var owner = domain.Principal{ID: 10, Role: domain.RoleSalonAdmin}

const validBody = `{"serviceId":3,"slots":[{"date":"2025-10-15","startTime":"10:00","price":1500}]}`

func do(t *testing.T, uc *fakeUseCase, masterID, body string, actor *domain.Principal) *httptest.ResponseRecorder {
	t.Helper()

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/masters/{masterId}/slots", handler.NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/masters/"+masterID+"/slots", strings.NewReader(body))
	if actor != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandler_Created(t *testing.T) {
	date, err := types.ParseDate("2025-10-15")
	require.NoError(t, err)
	start, err := types.NewTimeStringFromString("10:00")
	require.NoError(t, err)

	uc := &fakeUseCase{resp: &createSlots.Response{Slots: []*domain.Slot{{
		ID:              5,
		MasterID:        7,
		ServiceID:       3,
		Date:            date,
		StartTime:       start,
		Price:           1500,
		DurationMinutes: 60,
	}}}}

	rec := do(t, uc, "7", validBody, &owner)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, uc.got)
	assert.Equal(t, owner, uc.got.Actor)
	assert.Equal(t, int64(7), uc.got.MasterID)
	assert.Equal(t, int64(3), uc.got.ServiceID)
	assert.Equal(t, []createSlots.SlotInput{{Date: "2025-10-15", StartTime: "10:00", Price: 1500}}, uc.got.Slots)

	var body handler.CreateSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Slots, 1)
	assert.Equal(t, handlers.SlotResponse{
		ID:              5,
		MasterID:        7,
		ServiceID:       3,
		Date:            "2025-10-15",
		StartTime:       "10:00",
		DurationMinutes: 60,
		Price:           1500,
	}, body.Slots[0])
}

func TestHandler_Overlap(t *testing.T) {
	date, _ := types.ParseDate("2025-10-15")
	start, _ := types.NewTimeStringFromString("10:30")
	existing, _ := types.NewTimeStringFromString("10:00")

	uc := &fakeUseCase{err: fmt.Errorf("create: %w", &createSlots.OverlapError{
		Date:              date,
		StartTime:         start,
		ExistingSlotID:    1,
		ExistingStartTime: existing,
	})}

	rec := do(t, uc, "7", validBody, &owner)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "слот 2025-10-15 10:30 пересекается с существующим слотом в 10:00", decodeError(t, rec).Message)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		master string
		actor  *domain.Principal
		err    error
		status int
	}{
		{name: "без авторизации", body: validBody, master: "7", status: http.StatusUnauthorized},
		{name: "некорректный мастер", body: validBody, master: "abc", actor: &owner, status: http.StatusBadRequest},
		{name: "битое тело", body: `{"serviceId":`, master: "7", actor: &owner, status: http.StatusBadRequest},
		{name: "пустой пакет", body: `{"serviceId":3,"slots":[]}`, master: "7", actor: &owner, status: http.StatusBadRequest},
		{name: "лишнее поле", body: `{"serviceId":3,"slots":[{"date":"2025-10-15","startTime":"10:00"}],"x":1}`, master: "7", actor: &owner, status: http.StatusBadRequest},
		{name: "мастер не найден", body: validBody, master: "7", actor: &owner, err: createSlots.ErrMasterNotFound, status: http.StatusNotFound},
		{name: "услуга не найдена", body: validBody, master: "7", actor: &owner, err: createSlots.ErrServiceNotFound, status: http.StatusNotFound},
		{name: "чужой салон", body: validBody, master: "7", actor: &owner, err: fmt.Errorf("check: %w", domain.ErrForbidden), status: http.StatusForbidden},
		{name: "услуга другого салона", body: validBody, master: "7", actor: &owner, err: createSlots.ErrCrossSalonMismatch, status: http.StatusBadRequest},
		{name: "нулевая длительность", body: validBody, master: "7", actor: &owner, err: createSlots.ErrInvalidServiceDuration, status: http.StatusBadRequest},
		{name: "некорректные слоты", body: validBody, master: "7", actor: &owner, err: createSlots.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "параллельное изменение", body: validBody, master: "7", actor: &owner, err: createSlots.ErrConcurrentUpdate, status: http.StatusConflict},
		{name: "внутренняя ошибка", body: validBody, master: "7", actor: &owner, err: createSlots.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, &fakeUseCase{err: tt.err}, tt.master, tt.body, tt.actor)
			require.Equal(t, tt.status, rec.Code)

			resp := decodeError(t, rec)
			assert.Equal(t, tt.status, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}
