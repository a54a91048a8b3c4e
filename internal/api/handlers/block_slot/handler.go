package block_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/slots"
)

const (
	msgInvalidSlotID = "некорректный идентификатор слота"
	msgUnauthorized  = "требуется авторизация"
	msgSlotNotFound  = "слот не найден"
	msgForbidden     = "нет прав на блокировку этого слота"
)

// BlockResponse состояние слота после операции
type BlockResponse struct {
	SlotID    int64 `json:"slotId"`
	IsBlocked bool  `json:"isBlocked"`
}

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Block PUT /api/v1/slots/{slotId}/block
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, true)
}

// Unblock PUT /api/v1/slots/{slotId}/unblock
func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, false)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, blocked bool) {
	route := "/slots/{slotId}/unblock"
	if blocked {
		route = "/slots/{slotId}/block"
	}

	actor, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	slotID, err := handlers.PathID(r, "slotId")
	if err != nil {
		h.logger.Warn("PUT %s - Invalid slot ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	if err := h.service.SetBlocked(r.Context(), actor, slotID, blocked); err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("PUT %s - Slot not found: slot_id=%d", route, slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)
		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("PUT %s - Forbidden: slot_id=%d, user_id=%d", route, slotID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("PUT %s - Failed to update slot: slot_id=%d, error=%v", route, slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT %s - Slot updated: slot_id=%d, blocked=%t", route, slotID, blocked)
	handlers.RespondJSON(w, http.StatusOK, BlockResponse{SlotID: slotID, IsBlocked: blocked})
}
