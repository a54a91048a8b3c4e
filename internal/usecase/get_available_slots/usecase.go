package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	catalogRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
)

// UseCase use case получения доступных для бронирования слотов
type UseCase struct {
	slotRepo     SlotRepository
	catalogRepo  CatalogRepository
	cache        AvailabilityCache
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	catalogRepo CatalogRepository,
	cache AvailabilityCache,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		catalogRepo:  catalogRepo,
		cache:        cache,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute возвращает свободные и не заблокированные слоты по фильтру, упорядоченные по дате и времени
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: master=%v, salon=%v, service=%v, date=%v",
		ptr.Value(req.MasterID), ptr.Value(req.SalonID), ptr.Value(req.ServiceID), ptr.Value(req.Date))

	// 1. Валидация и фильтр
	filter, err := buildFilter(req, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование мастера и салона
	if filter.MasterID != nil {
		if _, err := uc.catalogRepo.GetMaster(ctx, *filter.MasterID); err != nil {
			if errors.Is(err, catalogRepo.ErrMasterNotFound) {
				uc.logger.Warn("GetAvailableSlots: master id=%d not found", *filter.MasterID)
				return nil, ErrMasterNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get master id=%d: %v", *filter.MasterID, err)
			return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
		}
	}
	if filter.SalonID != nil {
		if _, err := uc.catalogRepo.GetSalon(ctx, *filter.SalonID); err != nil {
			if errors.Is(err, catalogRepo.ErrSalonNotFound) {
				uc.logger.Warn("GetAvailableSlots: salon id=%d not found", *filter.SalonID)
				return nil, ErrSalonNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get salon id=%d: %v", *filter.SalonID, err)
			return nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
		}
	}

	// 3. Кэш: ключ фиксируется до чтения из хранилища, ошибки Redis не мешают ответу
	key, err := uc.cache.Key(ctx, filter)
	cacheable := err == nil
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: cache unavailable: %v", err)
	}
	if cacheable {
		cached, ok, err := uc.cache.Get(ctx, key)
		if err != nil {
			uc.logger.Warn("GetAvailableSlots: cache unavailable: %v", err)
		}
		if ok {
			return &Response{Slots: cached}, nil
		}
	}

	// 4. Запрос к хранилищу
	slots, err := uc.slotRepo.ListAvailable(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	if cacheable {
		if err := uc.cache.Set(ctx, key, slots); err != nil {
			uc.logger.Warn("GetAvailableSlots: failed to cache result: %v", err)
		}
	}

	uc.logger.Info("GetAvailableSlots: found %d slots", len(slots))
	return &Response{Slots: slots}, nil
}
