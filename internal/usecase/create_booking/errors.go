package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = fmt.Errorf("create_booking: slot %w", domain.ErrNotFound)

	// ErrSlotAlreadyTaken возвращается, когда слот уже занят
	ErrSlotAlreadyTaken = fmt.Errorf("create_booking: slot already taken: %w", domain.ErrConflict)

	// ErrSlotBlocked возвращается, когда слот заблокирован администратором
	ErrSlotBlocked = fmt.Errorf("create_booking: slot is blocked: %w", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_booking: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("create_booking: internal error: %w", domain.ErrStorage)
)
