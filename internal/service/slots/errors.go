package slots

import (
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = fmt.Errorf("slots: slot %w", domain.ErrNotFound)

	// ErrMasterNotFound возвращается, когда мастер не найден
	ErrMasterNotFound = fmt.Errorf("slots: master %w", domain.ErrNotFound)

	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = fmt.Errorf("slots: salon %w", domain.ErrNotFound)

	// ErrSlotTaken возвращается при попытке удалить занятый слот
	ErrSlotTaken = fmt.Errorf("slots: slot is taken: %w", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("slots: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("slots: internal error: %w", domain.ErrStorage)
)
