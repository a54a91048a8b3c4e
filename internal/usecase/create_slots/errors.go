package create_slots

import (
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

var (
	// ErrMasterNotFound возвращается, когда мастер не найден
	ErrMasterNotFound = fmt.Errorf("create_slots: master %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = fmt.Errorf("create_slots: service %w", domain.ErrNotFound)

	// ErrCrossSalonMismatch возвращается, когда услуга принадлежит другому салону
	ErrCrossSalonMismatch = fmt.Errorf("create_slots: service belongs to another salon: %w", domain.ErrValidation)

	// ErrInvalidServiceDuration возвращается, когда у услуги не задана длительность
	ErrInvalidServiceDuration = fmt.Errorf("create_slots: service duration must be positive: %w", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_slots: invalid input data: %w", domain.ErrValidation)

	// ErrSlotOverlap возвращается, когда новый слот пересекается с существующим
	ErrSlotOverlap = fmt.Errorf("create_slots: slot overlaps existing slot: %w", domain.ErrConflict)

	// ErrConcurrentUpdate возвращается, когда пакет отклонен из-за параллельного изменения расписания
	ErrConcurrentUpdate = fmt.Errorf("create_slots: concurrent schedule update, retry: %w", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("create_slots: internal error: %w", domain.ErrStorage)
)

// OverlapError первый конфликтующий слот пакета
type OverlapError struct {
	Date      types.Date
	StartTime types.TimeString

	// Существующий слот, с которым пересекается кандидат
	ExistingSlotID    int64
	ExistingStartTime types.TimeString
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%v: %s %s overlaps slot id=%d at %s",
		ErrSlotOverlap, e.Date, e.StartTime, e.ExistingSlotID, e.ExistingStartTime)
}

func (e *OverlapError) Unwrap() error {
	return ErrSlotOverlap
}
