package create_slots

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	ListByMasterAndDate(ctx context.Context, masterID int64, date types.Date, includeBlocked bool) ([]*domain.Slot, error)
}

// CatalogRepository интерфейс справочника мастеров и услуг
type CatalogRepository interface {
	GetMaster(ctx context.Context, id int64) (*domain.Master, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// AvailabilityCache кэш доступных слотов
type AvailabilityCache interface {
	Invalidate(ctx context.Context) error
}

// AuditRecorder журнал административных действий
type AuditRecorder interface {
	Record(ctx context.Context, actor domain.Principal, action domain.AuditAction, entity string, entityID int64, details string)
}

// Metrics бизнес-метрики
type Metrics interface {
	AddSlotsCreated(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
