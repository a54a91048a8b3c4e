package get_master_schedule

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

type SlotService interface {
	MasterSchedule(ctx context.Context, actor domain.Principal, masterID int64, from, to *string) ([]*domain.ScheduleEntry, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
