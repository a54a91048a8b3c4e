package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	slotRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/slot"
)

// Результаты бронирования для метрик
const (
	resultConfirmed    = "confirmed"
	resultAlreadyTaken = "already_taken"
	resultBlocked      = "blocked"
	resultNotFound     = "not_found"
	resultError        = "error"
)

// UseCase use case бронирования слота
type UseCase struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	txManager   TransactionManager
	notifier    Notifier
	cache       AvailabilityCache
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	notifier Notifier,
	cache AvailabilityCache,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		txManager:   txManager,
		notifier:    notifier,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute превращает свободный слот в подтвержденное бронирование.
// Захват слота и создание записи выполняются в одной транзакции; захват сделан как
// условный UPDATE, поэтому из двух параллельных запросов слот получает только один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: slot=%d, phone=%s", req.SlotID, domain.MaskPhone(req.ClientPhone))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	var details *domain.BookingDetails

	// 2. Захват слота и создание бронирования
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Слот должен существовать
		if _, err := uc.slotRepo.GetByID(txCtx, req.SlotID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateBooking: slot id=%d not found", req.SlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("CreateBooking: failed to get slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		// 2.2. Compare-and-swap: is_taken false → true, только если слот не заблокирован
		taken, err := uc.slotRepo.TryTake(txCtx, req.SlotID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to take slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to take slot: %v", ErrInternal, err)
		}
		if !taken {
			return uc.rejectReason(txCtx, req.SlotID)
		}

		// 2.3. Бронирование создается сразу подтвержденным
		booking, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			SlotID:      req.SlotID,
			ClientName:  req.ClientName,
			ClientPhone: req.ClientPhone,
			ClientEmail: req.ClientEmail,
			Comment:     req.Comment,
			Status:      domain.StatusConfirmed,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking for slot id=%d: %v", req.SlotID, err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		details, err = uc.bookingRepo.GetDetails(txCtx, booking.ID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to get booking details: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		uc.metrics.IncBooking(resultOf(err))
		return nil, err
	}

	uc.metrics.IncBooking(resultConfirmed)
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate availability cache: %v", err)
	}

	// 3. Уведомление после фиксации транзакции, его сбой не влияет на запись
	uc.notifier.Notify(&domain.BookingNotification{
		Details:           *details,
		ClaimedServices:   req.ClaimedServices,
		ClaimedTotalPrice: req.ClaimedTotalPrice,
	})

	uc.logger.Info("CreateBooking: successfully created booking id=%d for slot=%d", details.ID, req.SlotID)
	return &Response{Booking: details}, nil
}

// rejectReason перечитывает слот после неудачного захвата и определяет причину
func (uc *UseCase) rejectReason(ctx context.Context, slotID int64) error {
	slot, err := uc.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("CreateBooking: slot id=%d deleted concurrently", slotID)
			return ErrSlotNotFound
		}
		uc.logger.Error("CreateBooking: failed to re-read slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: failed to re-read slot: %v", ErrInternal, err)
	}

	if slot.IsBlocked {
		uc.logger.Warn("CreateBooking: slot id=%d is blocked", slotID)
		return ErrSlotBlocked
	}
	uc.logger.Warn("CreateBooking: slot id=%d already taken", slotID)
	return ErrSlotAlreadyTaken
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, ErrSlotAlreadyTaken):
		return resultAlreadyTaken
	case errors.Is(err, ErrSlotBlocked):
		return resultBlocked
	case errors.Is(err, ErrSlotNotFound):
		return resultNotFound
	default:
		return resultError
	}
}
