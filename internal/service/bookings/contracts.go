package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetDetails(ctx context.Context, id int64) (*domain.BookingDetails, error)
	ListDetailsByPhone(ctx context.Context, phone string, limit uint64) ([]*domain.BookingDetails, error)
	ListDetails(ctx context.Context, filter domain.BookingListFilter) ([]*domain.BookingDetails, error)
	StatsByMaster(ctx context.Context, salonID int64) ([]*domain.MasterBookingStats, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error)
	Delete(ctx context.Context, id int64) error
	DeleteExpiredPending(ctx context.Context, now time.Time) ([]int64, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	SetTaken(ctx context.Context, id int64, taken bool) error
}

// CatalogRepository справочник салонов
type CatalogRepository interface {
	GetSalon(ctx context.Context, id int64) (*domain.Salon, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
