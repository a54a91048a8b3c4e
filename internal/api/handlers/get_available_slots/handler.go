package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-ScheduleService/internal/usecase/get_available_slots"
)

const (
	msgInvalidMasterID  = "некорректный идентификатор мастера"
	msgInvalidSalonID   = "некорректный идентификатор салона"
	msgInvalidServiceID = "некорректный идентификатор услуги"
	msgInvalidFilter    = "некорректный фильтр, дата ожидается в формате YYYY-MM-DD"
	msgMasterNotFound   = "мастер не найден"
	msgSalonNotFound    = "салон не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleMaster GET /api/v1/masters/{masterId}/available-slots?serviceId=&date=
func (h *Handler) HandleMaster(w http.ResponseWriter, r *http.Request) {
	masterID, err := handlers.PathID(r, "masterId")
	if err != nil {
		h.logger.Warn("GET /masters/{masterId}/available-slots - Invalid master ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}
	h.handle(w, r, "/masters/{masterId}/available-slots", &getAvailableSlots.Request{MasterID: &masterID})
}

// HandleSalon GET /api/v1/salons/{salonId}/available-slots?serviceId=&date=
func (h *Handler) HandleSalon(w http.ResponseWriter, r *http.Request) {
	salonID, err := handlers.PathID(r, "salonId")
	if err != nil {
		h.logger.Warn("GET /salons/{salonId}/available-slots - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}
	h.handle(w, r, "/salons/{salonId}/available-slots", &getAvailableSlots.Request{SalonID: &salonID})
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, route string, req *getAvailableSlots.Request) {
	serviceID, err := handlers.QueryID(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET %s - Invalid service ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}
	req.ServiceID = serviceID
	req.Date = handlers.QueryString(r, "date")

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrMasterNotFound):
			h.logger.Warn("GET %s - Master not found", route)
			handlers.RespondNotFound(w, msgMasterNotFound)
		case errors.Is(err, getAvailableSlots.ErrSalonNotFound):
			h.logger.Warn("GET %s - Salon not found", route)
			handlers.RespondNotFound(w, msgSalonNotFound)
		case errors.Is(err, getAvailableSlots.ErrInvalidInput), errors.Is(err, getAvailableSlots.ErrMissingScope):
			h.logger.Warn("GET %s - Invalid filter: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
		default:
			h.logger.Error("GET %s - Failed to get available slots: %v", route, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET %s - Found %d available slots", route, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
