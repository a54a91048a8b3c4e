package slots

import (
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// scheduleRange разбирает границы периода расписания (включительно)
func (s *Service) scheduleRange(from, to *string) (types.Date, types.Date, error) {
	fromDate := types.NewDate(s.timeProvider.Now())
	if from != nil && *from != "" {
		parsed, err := types.ParseDate(*from)
		if err != nil {
			return "", "", fmt.Errorf("%w: invalid from date %q", ErrInvalidInput, *from)
		}
		fromDate = parsed
	}

	toDate, err := fromDate.AddDays(domain.DefaultScheduleDays - 1)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if to != nil && *to != "" {
		parsed, err := types.ParseDate(*to)
		if err != nil {
			return "", "", fmt.Errorf("%w: invalid to date %q", ErrInvalidInput, *to)
		}
		toDate = parsed
	}

	days, err := fromDate.DaysUntil(toDate)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if days < 0 {
		return "", "", fmt.Errorf("%w: from %s is after to %s", ErrInvalidInput, fromDate, toDate)
	}
	if days >= domain.MaxScheduleRangeDays {
		return "", "", fmt.Errorf("%w: period is longer than %d days", ErrInvalidInput, domain.MaxScheduleRangeDays)
	}
	return fromDate, toDate, nil
}
