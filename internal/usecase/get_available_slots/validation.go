package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// buildFilter валидирует запрос и строит фильтр.
// Для списка по мастеру без даты прошедшие слоты отсекаются.
func buildFilter(req *Request, now time.Time) (domain.AvailabilityFilter, error) {
	var filter domain.AvailabilityFilter

	if req.MasterID == nil && req.SalonID == nil {
		return filter, ErrMissingScope
	}
	if req.MasterID != nil && *req.MasterID <= 0 {
		return filter, fmt.Errorf("%w: masterID must be positive", ErrInvalidInput)
	}
	if req.SalonID != nil && *req.SalonID <= 0 {
		return filter, fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}
	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return filter, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	filter.MasterID = req.MasterID
	filter.SalonID = req.SalonID
	filter.ServiceID = req.ServiceID

	if req.Date != nil && *req.Date != "" {
		date, err := types.ParseDate(*req.Date)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, *req.Date)
		}
		filter.Date = &date
	}

	if filter.MasterID != nil && filter.Date == nil {
		filter.NotBefore = ptr.Ptr(now.Truncate(time.Minute))
	}
	return filter, nil
}
