package get_client_bookings

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

type BookingService interface {
	ClientBookings(ctx context.Context, phone string) ([]*domain.BookingDetails, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
