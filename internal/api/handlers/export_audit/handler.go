package export_audit

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/audit"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	msgUnauthorized  = "требуется авторизация"
	msgInvalidPeriod = "некорректный период: укажите from и to в формате YYYY-MM-DD, from не позже to"
	msgForbidden     = "выгрузка журнала доступна только администратору"
)

type Handler struct {
	service AuditService
	logger  Logger
}

func NewHandler(service AuditService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/audit/export?from=&to=
// Обе даты включительно, по UTC.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	from, to, err := parsePeriod(r)
	if err != nil {
		h.logger.Warn("GET /admin/audit/export - Invalid period: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), actor, from, to, &buf); err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("GET /admin/audit/export - Forbidden: user_id=%d", actor.ID)
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, audit.ErrInvalidPeriod):
			h.logger.Warn("GET /admin/audit/export - Invalid period: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)
		default:
			h.logger.Error("GET /admin/audit/export - Failed to export audit: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	filename := fmt.Sprintf("audit_%s_%s.xlsx", from.Format(domain.DateFormat), to.AddDate(0, 0, -1).Format(domain.DateFormat))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("GET /admin/audit/export - Failed to write response: %v", err)
		return
	}

	h.logger.Info("GET /admin/audit/export - Exported %s by user_id=%d", filename, actor.ID)
}

// parsePeriod возвращает полуоткрытый интервал [from, to+1 день)
func parsePeriod(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	from, err := time.Parse(domain.DateFormat, q.Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("from: %w", err)
	}
	to, err := time.Parse(domain.DateFormat, q.Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("to: %w", err)
	}
	return from, to.AddDate(0, 0, 1), nil
}
