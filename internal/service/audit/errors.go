package audit

import (
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

var (
	// ErrInvalidPeriod возвращается при некорректном периоде выгрузки
	ErrInvalidPeriod = fmt.Errorf("audit: invalid period: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса журнала
	ErrInternal = fmt.Errorf("audit: internal error: %w", domain.ErrStorage)
)
