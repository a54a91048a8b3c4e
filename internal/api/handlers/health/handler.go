package health

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
)

const pingTimeout = time.Second

// Pinger зависимость, доступность которой проверяется в /readyz
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc адаптер функции к Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

type Logger interface {
	Warn(format string, v ...interface{})
}

// StatusResponse ответ проверки
type StatusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type Handler struct {
	checks map[string]Pinger
	logger Logger
}

// NewHandler создает обработчик проверок. checks: имя зависимости → проверка
func NewHandler(checks map[string]Pinger, logger Logger) *Handler {
	return &Handler{checks: checks, logger: logger}
}

// Live GET /healthz
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// Ready GET /readyz
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK

	for name, p := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		err := p.PingContext(ctx)
		cancel()

		if err != nil {
			h.logger.Warn("GET /readyz - %s is unavailable: %v", name, err)
			resp.Checks[name] = "unavailable"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	handlers.RespondJSON(w, status, resp)
}
