package get_client_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
)

const msgUnauthorized = "требуется клиентский токен"

// BookingsResponse HTTP response model
type BookingsResponse struct {
	Bookings []handlers.BookingResponse `json:"bookings"`
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

// Handle GET /api/v1/my/bookings
// Телефон клиента берется из токена.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	phone, ok := middleware.GetClientPhone(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	list, err := h.service.ClientBookings(r.Context(), phone)
	if err != nil {
		h.logger.Error("GET /my/bookings - Failed to get client bookings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	resp := BookingsResponse{Bookings: make([]handlers.BookingResponse, 0, len(list))}
	for _, b := range list {
		resp.Bookings = append(resp.Bookings, handlers.FromDomainBookingDetails(b))
	}

	h.logger.Info("GET /my/bookings - Found %d bookings", len(list))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
