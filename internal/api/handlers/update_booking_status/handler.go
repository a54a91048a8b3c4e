package update_booking_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/bookings"
)

const (
	msgInvalidBookingID   = "некорректный идентификатор бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется авторизация"
	msgBookingNotFound    = "бронирование не найдено"
	msgInvalidStatus      = "допустимые статусы: visited, no_show"
	msgInvalidTransition  = "статус бронирования уже установлен"
	msgForbidden          = "нет прав на изменение этого бронирования"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=visited no_show"`
}

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

// Handle PATCH /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{bookingId}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/%d/status - Invalid request body: %v", bookingID, err)
		if errors.Is(err, handlers.ErrValidation) {
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	details, err := h.service.ChangeStatus(r.Context(), actor, bookingID, domain.BookingStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/%d/status - Booking not found", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)
		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/%d/status - Invalid transition to %s", bookingID, req.Status)
			handlers.RespondConflict(w, msgInvalidTransition)
		case errors.Is(err, bookings.ErrInvalidStatus):
			h.logger.Warn("PATCH /bookings/%d/status - Invalid status %s", bookingID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)
		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("PATCH /bookings/%d/status - Forbidden: user_id=%d", bookingID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("PATCH /bookings/%d/status - Failed to change status: %v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/%d/status - Status changed to %s by user_id=%d", bookingID, details.Status, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromDomainBookingDetails(details))
}
