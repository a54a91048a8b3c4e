package get_all_bookings

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

const (
	msgUnauthorized  = "требуется авторизация"
	msgForbidden     = "список всех бронирований доступен только администратору"
	msgInvalidFilter = "некорректные параметры: salonId - положительное число, status - confirmed|visited|no_show|pending, limit и offset - неотрицательные числа"
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

// Handle GET /api/v1/admin/bookings?salonId=&status=&limit=&offset=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		h.logger.Warn("GET /admin/bookings - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	list, err := h.service.AllBookings(r.Context(), actor, filter)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("GET /admin/bookings - Forbidden: user_id=%d", actor.ID)
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("GET /admin/bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)
		default:
			h.logger.Error("GET /admin/bookings - Failed to list bookings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/bookings - Found %d bookings", len(list))
	handlers.RespondJSON(w, http.StatusOK, FromDomain(list, filter.Paged()))
}

func parseFilter(r *http.Request) (domain.BookingListFilter, error) {
	var filter domain.BookingListFilter

	salonID, err := handlers.QueryID(r, "salonId")
	if err != nil {
		return filter, err
	}
	filter.SalonID = salonID

	if raw := handlers.QueryString(r, "status"); raw != nil {
		status := domain.BookingStatus(*raw)
		if !status.IsValid() {
			return filter, fmt.Errorf("unknown status %q", *raw)
		}
		filter.Status = &status
	}

	if filter.Limit, err = handlers.QueryUint(r, "limit"); err != nil {
		return filter, err
	}
	if filter.Offset, err = handlers.QueryUint(r, "offset"); err != nil {
		return filter, err
	}
	return filter, nil
}
