package housekeeping

import (
	"context"
	"database/sql"
	"time"
)

// PendingSweeper удаление устаревших неподтвержденных бронирований
type PendingSweeper interface {
	SweepExpiredPending(ctx context.Context) (int, error)
}

// AuditCleaner очистка журнала
type AuditCleaner interface {
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)
}

// Execer выполнение произвольного запроса (резервная копия SQLite)
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Metrics метрики фоновых задач
type Metrics interface {
	IncHousekeeping(job, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
