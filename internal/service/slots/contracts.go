package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetOwnership(ctx context.Context, id int64) (*domain.OwnershipChain, error)
	Delete(ctx context.Context, id int64) error
	SetBlocked(ctx context.Context, id int64, blocked bool) error
	ListSchedule(ctx context.Context, masterID int64, from, to types.Date) ([]*domain.ScheduleEntry, error)
	CountFreeByMaster(ctx context.Context, salonID int64, now time.Time) ([]*domain.MasterStatus, error)
	ListSalonsWithAvailability(ctx context.Context, date types.Date, since *time.Time) ([]*domain.SalonAvailability, error)
}

// CatalogRepository интерфейс справочника мастеров и салонов
type CatalogRepository interface {
	GetMaster(ctx context.Context, id int64) (*domain.Master, error)
	GetSalon(ctx context.Context, id int64) (*domain.Salon, error)
}

// AvailabilityCache кэш доступных слотов
type AvailabilityCache interface {
	Invalidate(ctx context.Context) error
}

// AuditRecorder журнал административных действий
type AuditRecorder interface {
	Record(ctx context.Context, actor domain.Principal, action domain.AuditAction, entity string, entityID int64, details string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
