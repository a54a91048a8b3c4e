package slot

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = fmt.Errorf("slot.repository: slot %w", domain.ErrNotFound)

	// ErrSlotTaken возвращается при попытке удалить занятый слот
	ErrSlotTaken = fmt.Errorf("slot.repository: slot is taken: %w", domain.ErrConflict)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
