package audit

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// Repository хранилище журнала
type Repository interface {
	Append(ctx context.Context, event *domain.AuditEvent) error
	List(ctx context.Context, from, to time.Time) ([]*domain.AuditEvent, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
