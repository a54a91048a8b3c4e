package get_master_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/slots"
)

const (
	msgInvalidMasterID = "некорректный идентификатор мастера"
	msgInvalidRange    = "некорректный период, даты ожидаются в формате YYYY-MM-DD"
	msgUnauthorized    = "требуется авторизация"
	msgMasterNotFound  = "мастер не найден"
	msgForbidden       = "нет прав на просмотр расписания этого мастера"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/masters/{masterId}/schedule?from=&to=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	masterID, err := handlers.PathID(r, "masterId")
	if err != nil {
		h.logger.Warn("GET /masters/{masterId}/schedule - Invalid master ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	entries, err := h.service.MasterSchedule(r.Context(), actor, masterID,
		handlers.QueryString(r, "from"), handlers.QueryString(r, "to"))
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrMasterNotFound):
			h.logger.Warn("GET /masters/%d/schedule - Master not found", masterID)
			handlers.RespondNotFound(w, msgMasterNotFound)
		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("GET /masters/%d/schedule - Forbidden: user_id=%d", masterID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("GET /masters/%d/schedule - Invalid range: %v", masterID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)
		default:
			h.logger.Error("GET /masters/%d/schedule - Failed to get schedule: %v", masterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(masterID, entries))
}
