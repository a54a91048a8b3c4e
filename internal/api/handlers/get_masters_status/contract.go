package get_masters_status

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

type SlotService interface {
	MastersStatus(ctx context.Context, salonID int64) ([]*domain.MasterStatus, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
