package get_salons_available

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

type SlotService interface {
	SalonsAvailable(ctx context.Context, date *string) ([]*domain.SalonAvailability, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
