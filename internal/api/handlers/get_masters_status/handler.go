package get_masters_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/service/slots"
)

const (
	msgInvalidSalonID = "некорректный идентификатор салона"
	msgSalonNotFound  = "салон не найден"
)

// MasterStatusResponse количество свободных слотов мастера
type MasterStatusResponse struct {
	MasterID   int64  `json:"masterId"`
	MasterName string `json:"masterName"`
	FreeSlots  int    `json:"freeSlots"`
}

// MastersStatusResponse HTTP response model
type MastersStatusResponse struct {
	Masters []MasterStatusResponse `json:"masters"`
}

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

// Handle GET /api/v1/salons/{salonId}/masters/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := handlers.PathID(r, "salonId")
	if err != nil {
		h.logger.Warn("GET /salons/{salonId}/masters/status - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	statuses, err := h.service.MastersStatus(r.Context(), salonID)
	if err != nil {
		if errors.Is(err, slots.ErrSalonNotFound) {
			h.logger.Warn("GET /salons/%d/masters/status - Salon not found", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)
			return
		}
		h.logger.Error("GET /salons/%d/masters/status - Failed to count slots: %v", salonID, err)
		handlers.RespondInternalError(w)
		return
	}

	resp := MastersStatusResponse{Masters: make([]MasterStatusResponse, 0, len(statuses))}
	for _, s := range statuses {
		resp.Masters = append(resp.Masters, MasterStatusResponse{
			MasterID:   s.MasterID,
			MasterName: s.MasterName,
			FreeSlots:  s.FreeSlots,
		})
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
