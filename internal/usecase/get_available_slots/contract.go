package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListAvailable(ctx context.Context, filter domain.AvailabilityFilter) ([]*domain.AvailableSlot, error)
}

// CatalogRepository интерфейс справочника мастеров и салонов
type CatalogRepository interface {
	GetMaster(ctx context.Context, id int64) (*domain.Master, error)
	GetSalon(ctx context.Context, id int64) (*domain.Salon, error)
}

// AvailabilityCache кэш результатов запроса
type AvailabilityCache interface {
	Key(ctx context.Context, filter domain.AvailabilityFilter) (string, error)
	Get(ctx context.Context, key string) ([]*domain.AvailableSlot, bool, error)
	Set(ctx context.Context, key string, slots []*domain.AvailableSlot) error
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
