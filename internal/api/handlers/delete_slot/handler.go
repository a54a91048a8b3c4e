package delete_slot

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
	msgSlotTaken     = "нельзя удалить занятый слот, сначала отмените бронирование"
	msgForbidden     = "нет прав на удаление этого слота"
)

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

// Handle DELETE /api/v1/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	slotID, err := handlers.PathID(r, "slotId")
	if err != nil {
		h.logger.Warn("DELETE /slots/{slotId} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	if err := h.service.Delete(r.Context(), actor, slotID); err != nil {
		switch {
		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("DELETE /slots/%d - Slot not found", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)
		case errors.Is(err, slots.ErrSlotTaken):
			h.logger.Warn("DELETE /slots/%d - Slot is taken", slotID)
			handlers.RespondConflict(w, msgSlotTaken)
		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("DELETE /slots/%d - Forbidden: user_id=%d", slotID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("DELETE /slots/%d - Failed to delete slot: %v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /slots/%d - Slot deleted by user_id=%d", slotID, actor.ID)
	handlers.RespondNoContent(w)
}
