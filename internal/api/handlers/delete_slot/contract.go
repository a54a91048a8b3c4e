package delete_slot

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

type SlotService interface {
	Delete(ctx context.Context, actor domain.Principal, slotID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
