package get_all_bookings

import (
	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// AdminBookingResponse бронирование с владельцем салона
type AdminBookingResponse struct {
	handlers.BookingResponse
	SalonOwnerID int64 `json:"salonOwnerId"`
}

// BookingsResponse HTTP response model
type BookingsResponse struct {
	Bookings []AdminBookingResponse `json:"bookings"`
	Limit    uint64                 `json:"limit"`
	Offset   uint64                 `json:"offset"`
}

// FromDomain конвертирует список бронирований в HTTP response
func FromDomain(list []*domain.BookingDetails, filter domain.BookingListFilter) *BookingsResponse {
	resp := &BookingsResponse{
		Bookings: make([]AdminBookingResponse, 0, len(list)),
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}
	for _, d := range list {
		resp.Bookings = append(resp.Bookings, AdminBookingResponse{
			BookingResponse: handlers.FromDomainBookingDetails(d),
			SalonOwnerID:    d.Ownership.OwnerID,
		})
	}
	return resp
}
