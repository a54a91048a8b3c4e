package create_slots

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	createSlots "github.com/m04kA/SMC-ScheduleService/internal/usecase/create_slots"
)

const (
	msgInvalidMasterID    = "некорректный идентификатор мастера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется авторизация"
	msgForbidden          = "нет прав на управление расписанием этого мастера"
	msgMasterNotFound     = "мастер не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgCrossSalon         = "услуга принадлежит другому салону"
	msgInvalidDuration    = "у услуги не задана длительность"
	msgInvalidSlots       = "некорректные слоты: ожидается дата YYYY-MM-DD, время HH:MM и неотрицательная цена"
	msgSlotOverlap        = "слот пересекается с существующим"
	msgSlotOverlapAt      = "слот %s %s пересекается с существующим слотом в %s"
	msgConcurrentUpdate   = "расписание изменено параллельно, повторите запрос"
)

type Handler struct {
	useCase CreateSlotsUseCase
	logger  Logger
}

func NewHandler(useCase CreateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/masters/{masterId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	masterID, err := handlers.PathID(r, "masterId")
	if err != nil {
		h.logger.Warn("POST /masters/{masterId}/slots - Invalid master ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	var req CreateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /masters/%d/slots - Invalid request body: %v", masterID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor, masterID))
	if err != nil {
		var overlap *createSlots.OverlapError
		switch {
		case errors.As(err, &overlap):
			h.logger.Warn("POST /masters/%d/slots - Overlap: %v", masterID, err)
			handlers.RespondConflict(w, fmt.Sprintf(msgSlotOverlapAt, overlap.Date, overlap.StartTime, overlap.ExistingStartTime))

		case errors.Is(err, createSlots.ErrSlotOverlap):
			h.logger.Warn("POST /masters/%d/slots - Overlap: %v", masterID, err)
			handlers.RespondConflict(w, msgSlotOverlap)

		case errors.Is(err, createSlots.ErrConcurrentUpdate):
			h.logger.Warn("POST /masters/%d/slots - Concurrent update: %v", masterID, err)
			handlers.RespondConflict(w, msgConcurrentUpdate)

		case errors.Is(err, createSlots.ErrMasterNotFound):
			h.logger.Warn("POST /masters/%d/slots - Master not found", masterID)
			handlers.RespondNotFound(w, msgMasterNotFound)

		case errors.Is(err, createSlots.ErrServiceNotFound):
			h.logger.Warn("POST /masters/%d/slots - Service not found: service_id=%d", masterID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, domain.ErrForbidden):
			h.logger.Warn("POST /masters/%d/slots - Forbidden: user_id=%d", masterID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createSlots.ErrCrossSalonMismatch):
			h.logger.Warn("POST /masters/%d/slots - Cross salon service: service_id=%d", masterID, req.ServiceID)
			handlers.RespondBadRequest(w, msgCrossSalon)

		case errors.Is(err, createSlots.ErrInvalidServiceDuration):
			h.logger.Warn("POST /masters/%d/slots - Invalid service duration: service_id=%d", masterID, req.ServiceID)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, createSlots.ErrInvalidInput):
			h.logger.Warn("POST /masters/%d/slots - Invalid input: %v", masterID, err)
			handlers.RespondBadRequest(w, msgInvalidSlots)

		default:
			h.logger.Error("POST /masters/%d/slots - Failed to create slots: user_id=%d, error=%v", masterID, actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /masters/%d/slots - Slots created: count=%d, user_id=%d", masterID, len(result.Slots), actor.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
