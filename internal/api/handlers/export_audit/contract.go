package export_audit

import (
	"context"
	"io"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

type AuditService interface {
	Export(ctx context.Context, actor domain.Principal, from, to time.Time, w io.Writer) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
