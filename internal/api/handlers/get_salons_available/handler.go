package get_salons_available

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/service/slots"
)

const msgInvalidDate = "некорректная дата, ожидается YYYY-MM-DD"

// SalonResponse салон со свободными слотами
type SalonResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	FreeSlots int    `json:"freeSlots"`
}

// SalonsResponse HTTP response model
type SalonsResponse struct {
	Salons []SalonResponse `json:"salons"`
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

// Handle GET /api/v1/salons/available?date=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salons, err := h.service.SalonsAvailable(r.Context(), handlers.QueryString(r, "date"))
	if err != nil {
		if errors.Is(err, slots.ErrInvalidInput) {
			h.logger.Warn("GET /salons/available - Invalid date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		h.logger.Error("GET /salons/available - Failed to list salons: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	resp := SalonsResponse{Salons: make([]SalonResponse, 0, len(salons))}
	for _, s := range salons {
		resp.Salons = append(resp.Salons, SalonResponse{
			ID:        s.SalonID,
			Name:      s.SalonName,
			Address:   s.Address,
			FreeSlots: s.FreeSlots,
		})
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
