package create_slots

import (
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// validateRequest валидирует запрос и разбирает даты и время кандидатов
func validateRequest(req *Request) ([]domain.SlotCandidate, error) {
	if req.MasterID <= 0 {
		return nil, fmt.Errorf("%w: masterID must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if len(req.Slots) == 0 {
		return nil, fmt.Errorf("%w: at least one slot is required", ErrInvalidInput)
	}
	if len(req.Slots) > domain.MaxSlotsPerBatch {
		return nil, fmt.Errorf("%w: too many slots, max %d", ErrInvalidInput, domain.MaxSlotsPerBatch)
	}

	candidates := make([]domain.SlotCandidate, 0, len(req.Slots))
	for i, in := range req.Slots {
		date, err := types.ParseDate(in.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: slots[%d]: invalid date %q", ErrInvalidInput, i, in.Date)
		}
		start, err := types.NewTimeStringFromString(in.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: slots[%d]: invalid time %q", ErrInvalidInput, i, in.StartTime)
		}
		if in.Price < 0 {
			return nil, fmt.Errorf("%w: slots[%d]: price must not be negative", ErrInvalidInput, i)
		}
		candidates = append(candidates, domain.SlotCandidate{Date: date, StartTime: start, Price: in.Price})
	}
	return candidates, nil
}

// findConflict ищет первый незаблокированный слот, пересекающийся с кандидатом.
// Заблокированные слоты не мешают созданию новых.
func findConflict(candidate domain.Interval, existing []*domain.Slot) *domain.Slot {
	for _, s := range existing {
		if s.IsBlocked {
			continue
		}
		if candidate.Overlaps(s.Interval()) {
			return s
		}
	}
	return nil
}
