package create_booking

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	TryTake(ctx context.Context, id int64) (bool, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetDetails(ctx context.Context, id int64) (*domain.BookingDetails, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier асинхронная отправка уведомлений о новых записях
type Notifier interface {
	Notify(n *domain.BookingNotification)
}

// AvailabilityCache кэш доступных слотов
type AvailabilityCache interface {
	Invalidate(ctx context.Context) error
}

// Metrics бизнес-метрики
type Metrics interface {
	IncBooking(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
