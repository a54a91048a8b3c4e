package audit

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

const exportSheet = "Журнал"

var exportHeader = []interface{}{"Время (UTC)", "Событие", "Пользователь", "Роль", "Действие", "Объект", "ID объекта", "Детали"}

// Export выгружает журнал за период в XLSX
func (s *Service) Export(ctx context.Context, actor domain.Principal, from, to time.Time, w io.Writer) error {
	events, err := s.Events(ctx, actor, from, to)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("%w: rename sheet: %v", ErrInternal, err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("%w: write header: %v", ErrInternal, err)
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(exportSheet, 1, 1, style)
	}

	for i, e := range events {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%w: cell name: %v", ErrInternal, err)
		}
		row := []interface{}{
			e.CreatedAt.UTC().Format(time.DateTime),
			e.EventID,
			e.ActorID,
			string(e.ActorRole),
			string(e.Action),
			e.Entity,
			e.EntityID,
			e.Details,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("%w: write row %d: %v", ErrInternal, i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: write xlsx: %v", ErrInternal, err)
	}

	s.logger.Info("AuditExport: exported %d events for user=%d", len(events), actor.ID)
	return nil
}
