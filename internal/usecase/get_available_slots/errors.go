package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

var (
	// ErrMasterNotFound возвращается, когда мастер не найден
	ErrMasterNotFound = fmt.Errorf("get_available_slots: master %w", domain.ErrNotFound)

	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = fmt.Errorf("get_available_slots: salon %w", domain.ErrNotFound)

	// ErrMissingScope возвращается, когда не указан ни мастер, ни салон
	ErrMissingScope = fmt.Errorf("get_available_slots: master or salon is required: %w", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("get_available_slots: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("get_available_slots: internal error: %w", domain.ErrStorage)
)
