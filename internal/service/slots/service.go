package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/catalog"
	slotRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ScheduleService/internal/service/access"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Service административные операции со слотами и обзорные выборки расписания
type Service struct {
	slotRepo     SlotRepository
	catalogRepo  CatalogRepository
	cache        AvailabilityCache
	audit        AuditRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	slotRepo SlotRepository,
	catalogRepo CatalogRepository,
	cache AvailabilityCache,
	audit AuditRecorder,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:     slotRepo,
		catalogRepo:  catalogRepo,
		cache:        cache,
		audit:        audit,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Delete удаляет свободный слот
func (s *Service) Delete(ctx context.Context, actor domain.Principal, slotID int64) error {
	s.logger.Info("DeleteSlot: slot id=%d by user=%d", slotID, actor.ID)

	chain, err := s.ownership(ctx, "DeleteSlot", slotID)
	if err != nil {
		return err
	}
	if err := access.Check(actor, *chain, access.ActionDeleteSlot); err != nil {
		s.logger.Warn("DeleteSlot: access denied for user=%d to slot id=%d", actor.ID, slotID)
		return err
	}

	if err := s.slotRepo.Delete(ctx, slotID); err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			s.logger.Warn("DeleteSlot: slot id=%d not found", slotID)
			return ErrSlotNotFound
		case errors.Is(err, slotRepo.ErrSlotTaken):
			s.logger.Warn("DeleteSlot: slot id=%d is taken", slotID)
			return ErrSlotTaken
		default:
			s.logger.Error("DeleteSlot: repository error for slot id=%d: %v", slotID, err)
			return fmt.Errorf("%w: DeleteSlot - repository error: %v", ErrInternal, err)
		}
	}

	s.invalidate(ctx, "DeleteSlot")
	s.audit.Record(ctx, actor, domain.AuditSlotDeleted, "slot", slotID, fmt.Sprintf("master=%d", chain.MasterID))

	s.logger.Info("DeleteSlot: slot id=%d deleted", slotID)
	return nil
}

// SetBlocked блокирует или разблокирует слот. Повторный вызов с тем же значением успешен,
// блокировка занятого слота сохраняет его бронирование.
func (s *Service) SetBlocked(ctx context.Context, actor domain.Principal, slotID int64, blocked bool) error {
	op := "UnblockSlot"
	action := domain.AuditSlotUnblocked
	if blocked {
		op = "BlockSlot"
		action = domain.AuditSlotBlocked
	}
	s.logger.Info("%s: slot id=%d by user=%d", op, slotID, actor.ID)

	chain, err := s.ownership(ctx, op, slotID)
	if err != nil {
		return err
	}
	if err := access.Check(actor, *chain, access.ActionBlockSlot); err != nil {
		s.logger.Warn("%s: access denied for user=%d to slot id=%d", op, actor.ID, slotID)
		return err
	}

	if err := s.slotRepo.SetBlocked(ctx, slotID, blocked); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("%s: slot id=%d not found", op, slotID)
			return ErrSlotNotFound
		}
		s.logger.Error("%s: repository error for slot id=%d: %v", op, slotID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.invalidate(ctx, op)
	s.audit.Record(ctx, actor, action, "slot", slotID, fmt.Sprintf("master=%d", chain.MasterID))
	return nil
}

// MasterSchedule полное расписание мастера за период, включая занятые и заблокированные слоты.
// Без дат возвращается неделя начиная с сегодняшнего дня.
func (s *Service) MasterSchedule(ctx context.Context, actor domain.Principal, masterID int64, from, to *string) ([]*domain.ScheduleEntry, error) {
	s.logger.Info("MasterSchedule: master id=%d by user=%d", masterID, actor.ID)

	master, err := s.catalogRepo.GetMaster(ctx, masterID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrMasterNotFound) {
			s.logger.Warn("MasterSchedule: master id=%d not found", masterID)
			return nil, ErrMasterNotFound
		}
		s.logger.Error("MasterSchedule: failed to get master id=%d: %v", masterID, err)
		return nil, fmt.Errorf("%w: MasterSchedule - get master: %v", ErrInternal, err)
	}

	if err := access.Check(actor, master.OwnershipChain(), access.ActionViewSchedule); err != nil {
		s.logger.Warn("MasterSchedule: access denied for user=%d to master id=%d", actor.ID, masterID)
		return nil, err
	}

	fromDate, toDate, err := s.scheduleRange(from, to)
	if err != nil {
		s.logger.Warn("MasterSchedule: %v", err)
		return nil, err
	}

	entries, err := s.slotRepo.ListSchedule(ctx, masterID, fromDate, toDate)
	if err != nil {
		s.logger.Error("MasterSchedule: repository error for master id=%d: %v", masterID, err)
		return nil, fmt.Errorf("%w: MasterSchedule - repository error: %v", ErrInternal, err)
	}
	return entries, nil
}

// MastersStatus количество свободных слотов (не в прошлом) у каждого мастера салона
func (s *Service) MastersStatus(ctx context.Context, salonID int64) ([]*domain.MasterStatus, error) {
	if _, err := s.catalogRepo.GetSalon(ctx, salonID); err != nil {
		if errors.Is(err, catalogRepo.ErrSalonNotFound) {
			s.logger.Warn("MastersStatus: salon id=%d not found", salonID)
			return nil, ErrSalonNotFound
		}
		s.logger.Error("MastersStatus: failed to get salon id=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: MastersStatus - get salon: %v", ErrInternal, err)
	}

	statuses, err := s.slotRepo.CountFreeByMaster(ctx, salonID, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("MastersStatus: repository error for salon id=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: MastersStatus - repository error: %v", ErrInternal, err)
	}
	return statuses, nil
}

// SalonsAvailable салоны со свободными слотами на дату (по умолчанию сегодня).
// Для сегодняшней даты прошедшие слоты не учитываются.
func (s *Service) SalonsAvailable(ctx context.Context, date *string) ([]*domain.SalonAvailability, error) {
	now := s.timeProvider.Now()
	today := types.NewDate(now)

	day := today
	if date != nil && *date != "" {
		parsed, err := types.ParseDate(*date)
		if err != nil {
			s.logger.Warn("SalonsAvailable: invalid date %q", *date)
			return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, *date)
		}
		day = parsed
	}

	var since *time.Time
	if day == today {
		since = ptr.Ptr(now)
	}

	salons, err := s.slotRepo.ListSalonsWithAvailability(ctx, day, since)
	if err != nil {
		s.logger.Error("SalonsAvailable: repository error: %v", err)
		return nil, fmt.Errorf("%w: SalonsAvailable - repository error: %v", ErrInternal, err)
	}
	return salons, nil
}

func (s *Service) ownership(ctx context.Context, op string, slotID int64) (*domain.OwnershipChain, error) {
	chain, err := s.slotRepo.GetOwnership(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("%s: slot id=%d not found", op, slotID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("%s: failed to get ownership for slot id=%d: %v", op, slotID, err)
		return nil, fmt.Errorf("%w: %s - get ownership: %v", ErrInternal, op, err)
	}
	return chain, nil
}

func (s *Service) invalidate(ctx context.Context, op string) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("%s: failed to invalidate availability cache: %v", op, err)
	}
}
