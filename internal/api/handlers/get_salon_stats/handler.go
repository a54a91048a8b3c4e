package get_salon_stats

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/bookings"
)

const (
	msgUnauthorized   = "требуется авторизация"
	msgInvalidSalonID = "некорректный идентификатор салона"
	msgSalonNotFound  = "салон не найден"
	msgForbidden      = "нет прав на просмотр статистики этого салона"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/salons/{salonId}/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	salonID, err := handlers.PathID(r, "salonId")
	if err != nil {
		h.logger.Warn("GET /salons/{salonId}/stats - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	stats, err := h.service.SalonStats(r.Context(), actor, salonID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrSalonNotFound):
			h.logger.Warn("GET /salons/%d/stats - Salon not found", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)
		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("GET /salons/%d/stats - Forbidden: user_id=%d", salonID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("GET /salons/%d/stats - Failed to get stats: %v", salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(salonID, stats))
}
