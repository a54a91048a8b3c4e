package update_booking_status

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

type BookingService interface {
	ChangeStatus(ctx context.Context, actor domain.Principal, id int64, status domain.BookingStatus) (*domain.BookingDetails, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
