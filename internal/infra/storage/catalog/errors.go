package catalog

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

var (
	// ErrMasterNotFound возвращается, когда мастер не найден
	ErrMasterNotFound = fmt.Errorf("catalog.repository: master %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = fmt.Errorf("catalog.repository: service %w", domain.ErrNotFound)

	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = fmt.Errorf("catalog.repository: salon %w", domain.ErrNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
