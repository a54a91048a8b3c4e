package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/catalog"
	slotRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ScheduleService/internal/service/access"
)

// Service сервис жизненного цикла бронирований
type Service struct {
	bookingRepo  BookingRepository
	slotRepo     SlotRepository
	catalogRepo  CatalogRepository
	txManager    TransactionManager
	cache        AvailabilityCache
	audit        AuditRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	cache AvailabilityCache,
	audit AuditRecorder,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		catalogRepo:  catalogRepo,
		txManager:    txManager,
		cache:        cache,
		audit:        audit,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// ChangeStatus переводит подтвержденное бронирование в visited или no_show.
// Любой другой переход отклоняется.
func (s *Service) ChangeStatus(ctx context.Context, actor domain.Principal, id int64, status domain.BookingStatus) (*domain.BookingDetails, error) {
	s.logger.Info("ChangeStatus: booking id=%d to %s by user=%d", id, status, actor.ID)

	if !status.IsValid() {
		s.logger.Warn("ChangeStatus: unknown status %q", status)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	details, err := s.getDetails(ctx, "ChangeStatus", id)
	if err != nil {
		return nil, err
	}

	if err := access.Check(actor, details.Ownership, access.ActionChangeBookingStatus); err != nil {
		s.logger.Warn("ChangeStatus: access denied for user=%d to booking id=%d", actor.ID, id)
		return nil, err
	}

	if !details.Status.CanTransitionTo(status) {
		s.logger.Warn("ChangeStatus: transition %s → %s is not allowed for booking id=%d", details.Status, status, id)
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, details.Status, status)
	}

	// Статус меняется условно: параллельная смена или отмена не будет перезаписана
	updated, err := s.bookingRepo.UpdateStatusFrom(ctx, id, domain.StatusConfirmed, status)
	if err != nil {
		s.logger.Error("ChangeStatus: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: ChangeStatus - repository error: %v", ErrInternal, err)
	}
	if !updated {
		current, err := s.getDetails(ctx, "ChangeStatus", id)
		if err != nil {
			return nil, err
		}
		s.logger.Warn("ChangeStatus: booking id=%d changed concurrently to %s", id, current.Status)
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, current.Status, status)
	}

	details.Status = status
	s.audit.Record(ctx, actor, domain.AuditBookingStatus, "booking", id, "status="+string(status))

	s.logger.Info("ChangeStatus: booking id=%d is %s", id, status)
	return details, nil
}

// Cancel удаляет бронирование в любом статусе и освобождает слот в одной транзакции
func (s *Service) Cancel(ctx context.Context, actor domain.Principal, id int64) (*domain.BookingDetails, error) {
	s.logger.Info("Cancel: booking id=%d by user=%d", id, actor.ID)

	var details *domain.BookingDetails
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		details, err = s.getDetails(txCtx, "Cancel", id)
		if err != nil {
			return err
		}

		if err := access.Check(actor, details.Ownership, access.ActionCancelBooking); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", actor.ID, id)
			return err
		}

		if err := s.bookingRepo.Delete(txCtx, id); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: failed to delete booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Cancel - delete booking: %v", ErrInternal, err)
		}

		if err := s.slotRepo.SetTaken(txCtx, details.SlotID, false); err != nil && !errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Error("Cancel: failed to free slot id=%d: %v", details.SlotID, err)
			return fmt.Errorf("%w: Cancel - free slot: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Cancel: failed to invalidate availability cache: %v", err)
	}
	s.audit.Record(ctx, actor, domain.AuditBookingCanceled, "booking", id, fmt.Sprintf("slot=%d", details.SlotID))

	s.logger.Info("Cancel: booking id=%d canceled, slot id=%d is free", id, details.SlotID)
	return details, nil
}

// ClientBookings возвращает бронирования клиента по телефону, новые первыми
func (s *Service) ClientBookings(ctx context.Context, phone string) ([]*domain.BookingDetails, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}

	list, err := s.bookingRepo.ListDetailsByPhone(ctx, phone, domain.ClientBookingsMaxItems)
	if err != nil {
		s.logger.Error("ClientBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: ClientBookings - repository error: %v", ErrInternal, err)
	}
	return list, nil
}

// AllBookings общий список бронирований всех салонов для администратора платформы
func (s *Service) AllBookings(ctx context.Context, actor domain.Principal, filter domain.BookingListFilter) ([]*domain.BookingDetails, error) {
	if err := access.Check(actor, domain.OwnershipChain{}, access.ActionViewAllBookings); err != nil {
		s.logger.Warn("AllBookings: access denied for user=%d", actor.ID)
		return nil, err
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *filter.Status)
	}

	list, err := s.bookingRepo.ListDetails(ctx, filter.Paged())
	if err != nil {
		s.logger.Error("AllBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: AllBookings - repository error: %w", ErrInternal, err)
	}
	return list, nil
}

// SalonStats количество бронирований по мастерам салона
func (s *Service) SalonStats(ctx context.Context, actor domain.Principal, salonID int64) ([]*domain.MasterBookingStats, error) {
	salon, err := s.catalogRepo.GetSalon(ctx, salonID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrSalonNotFound) {
			s.logger.Warn("SalonStats: salon id=%d not found", salonID)
			return nil, ErrSalonNotFound
		}
		s.logger.Error("SalonStats: failed to get salon id=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: SalonStats - get salon: %w", ErrInternal, err)
	}

	chain := domain.OwnershipChain{SalonID: salon.ID, OwnerID: salon.OwnerID}
	if err := access.Check(actor, chain, access.ActionViewSalonStats); err != nil {
		s.logger.Warn("SalonStats: access denied for user=%d to salon id=%d", actor.ID, salonID)
		return nil, err
	}

	stats, err := s.bookingRepo.StatsByMaster(ctx, salonID)
	if err != nil {
		s.logger.Error("SalonStats: repository error for salon id=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: SalonStats - repository error: %w", ErrInternal, err)
	}
	return stats, nil
}

// SweepExpiredPending удаляет устаревшие неподтвержденные бронирования и освобождает их слоты
func (s *Service) SweepExpiredPending(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()

	var slotIDs []int64
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		slotIDs, err = s.bookingRepo.DeleteExpiredPending(txCtx, now)
		if err != nil {
			return fmt.Errorf("%w: SweepExpiredPending - delete: %v", ErrInternal, err)
		}
		for _, slotID := range slotIDs {
			if err := s.slotRepo.SetTaken(txCtx, slotID, false); err != nil && !errors.Is(err, slotRepo.ErrSlotNotFound) {
				return fmt.Errorf("%w: SweepExpiredPending - free slot %d: %v", ErrInternal, slotID, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("SweepExpiredPending: %v", err)
		return 0, err
	}

	if len(slotIDs) > 0 {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("SweepExpiredPending: failed to invalidate availability cache: %v", err)
		}
		s.audit.Record(ctx, domain.SystemPrincipal(), domain.AuditPendingSwept, "booking", 0,
			fmt.Sprintf("count=%d", len(slotIDs)))
	}
	return len(slotIDs), nil
}

func (s *Service) getDetails(ctx context.Context, op string, id int64) (*domain.BookingDetails, error) {
	details, err := s.bookingRepo.GetDetails(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return details, nil
}
