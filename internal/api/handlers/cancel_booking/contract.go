package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

type BookingService interface {
	Cancel(ctx context.Context, actor domain.Principal, id int64) (*domain.BookingDetails, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
