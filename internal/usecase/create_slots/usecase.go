package create_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ScheduleService/internal/service/access"
	"github.com/m04kA/SMC-ScheduleService/pkg/txmanager"
)

// UseCase use case пакетного создания слотов мастера
type UseCase struct {
	slotRepo    SlotRepository
	catalogRepo CatalogRepository
	txManager   TransactionManager
	cache       AvailabilityCache
	audit       AuditRecorder
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	cache AvailabilityCache,
	audit AuditRecorder,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:    slotRepo,
		catalogRepo: catalogRepo,
		txManager:   txManager,
		cache:       cache,
		audit:       audit,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute создает слоты пакетом: либо все, либо ни одного.
// Первый пересекающийся кандидат прерывает пакет.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateSlots: user=%d, master=%d, service=%d, slots=%d",
		req.Actor.ID, req.MasterID, req.ServiceID, len(req.Slots))

	// 1. Валидация входных данных
	candidates, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Мастер и права
	master, err := uc.catalogRepo.GetMaster(ctx, req.MasterID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrMasterNotFound) {
			uc.logger.Warn("CreateSlots: master id=%d not found", req.MasterID)
			return nil, ErrMasterNotFound
		}
		uc.logger.Error("CreateSlots: failed to get master id=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}

	if err := access.Check(req.Actor, master.OwnershipChain(), access.ActionCreateSlots); err != nil {
		uc.logger.Warn("CreateSlots: access denied for user=%d on master=%d", req.Actor.ID, req.MasterID)
		return nil, err
	}

	// 3. Услуга должна принадлежать салону мастера и иметь длительность
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.SalonID != master.SalonID {
		uc.logger.Warn("CreateSlots: service id=%d (salon=%d) does not belong to salon=%d",
			service.ID, service.SalonID, master.SalonID)
		return nil, ErrCrossSalonMismatch
	}
	if !service.HasDuration() {
		uc.logger.Warn("CreateSlots: service id=%d has duration %d", service.ID, service.DurationMinutes)
		return nil, ErrInvalidServiceDuration
	}

	created := make([]*domain.Slot, 0, len(candidates))

	// 4. Проверка пересечений и вставка в одной сериализуемой транзакции.
	// Слоты, вставленные ранее в этом же пакете, видны следующим проверкам.
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		for _, c := range candidates {
			existing, err := uc.slotRepo.ListByMasterAndDate(txCtx, master.ID, c.Date, false)
			if err != nil {
				uc.logger.Error("CreateSlots: failed to list slots for %s: %v", c.Date, err)
				return fmt.Errorf("%w: failed to list slots: %w", ErrInternal, err)
			}

			if conflict := findConflict(domain.NewInterval(c.StartTime, service.DurationMinutes), existing); conflict != nil {
				uc.logger.Warn("CreateSlots: %s %s overlaps slot id=%d at %s",
					c.Date, c.StartTime, conflict.ID, conflict.StartTime)
				return &OverlapError{
					Date:              c.Date,
					StartTime:         c.StartTime,
					ExistingSlotID:    conflict.ID,
					ExistingStartTime: conflict.StartTime,
				}
			}

			slot, err := uc.slotRepo.Create(txCtx, &domain.Slot{
				MasterID:        master.ID,
				ServiceID:       service.ID,
				Date:            c.Date,
				StartTime:       c.StartTime,
				Price:           c.Price,
				DurationMinutes: service.DurationMinutes,
			})
			if err != nil {
				uc.logger.Error("CreateSlots: failed to create slot %s %s: %v", c.Date, c.StartTime, err)
				return fmt.Errorf("%w: failed to create slot: %w", ErrInternal, err)
			}
			created = append(created, slot)
		}
		return nil
	})
	if err != nil {
		if txmanager.IsRetryable(err) {
			uc.logger.Warn("CreateSlots: concurrent update for master=%d: %v", master.ID, err)
			return nil, ErrConcurrentUpdate
		}
		return nil, err
	}

	uc.metrics.AddSlotsCreated(len(created))
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("CreateSlots: failed to invalidate availability cache: %v", err)
	}
	uc.audit.Record(ctx, req.Actor, domain.AuditSlotsCreated, "master", master.ID,
		fmt.Sprintf("service=%d slots=%d", service.ID, len(created)))

	uc.logger.Info("CreateSlots: created %d slots for master=%d", len(created), master.ID)
	return &Response{Slots: created}, nil
}
