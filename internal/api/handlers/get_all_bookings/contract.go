package get_all_bookings

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

type BookingService interface {
	AllBookings(ctx context.Context, actor domain.Principal, filter domain.BookingListFilter) ([]*domain.BookingDetails, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
