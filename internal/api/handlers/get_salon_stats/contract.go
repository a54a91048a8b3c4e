package get_salon_stats

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

type BookingService interface {
	SalonStats(ctx context.Context, actor domain.Principal, salonID int64) ([]*domain.MasterBookingStats, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
